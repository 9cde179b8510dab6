// server/internal/database/mongo.go
package database

import (
	"context"
	"time"

	"hospital-management-api-server/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client against the configured MongoDB and pings it.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the unique indexes on the human-readable entity codes.
// Duplicate codes (e.g., two dispense requests generated in the same second)
// surface as duplicate-key errors and are mapped to conflicts at the API boundary.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]string{
		"users":             "email",
		"patients":          "patientID",
		"wards":             "wardNumber",
		"admissions":        "admissionID",
		"appointments":      "appointmentID",
		"dialysis_machines": "machineID",
		"dialysis_sessions": "sessionID",
		"lab_requests":      "requestID",
		"medications":       "medicationID",
		"prescriptions":     "prescriptionNumber",
		"dispense_requests": "requestID",
	}

	for collection, field := range indexes {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: unique,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
