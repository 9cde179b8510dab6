// server/internal/database/seeder.go
package database

import (
	"context"
	"time"

	"hospital-management-api-server/internal/auth"
	"hospital-management-api-server/internal/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedSuperAdmin creates the initial superadmin account when the users
// collection does not have one yet.
func SeedSuperAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	superAdminEmail := "superadmin@hospital.local"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": superAdminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Info().Msg("Super admin already exists. Seeding skipped.")
		return nil
	}

	log.Info().Msg("Super admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("superadminpassword")
	if err != nil {
		return err
	}

	superAdmin := models.User{
		EmployeeID: "superadmin",
		Email:      superAdminEmail,
		Name:       "Super Admin",
		Password:   hashedPassword,
		Role:       "superadmin",
		WardNumber: "system",
		Status:     "active",
		CreatedAt:  time.Now(),
	}

	_, err = userCollection.InsertOne(context.Background(), superAdmin)
	if err != nil {
		return err
	}

	log.Info().Msg("Super admin seeded successfully.")
	return nil
}
