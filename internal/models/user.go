// server/internal/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID string             `bson:"employeeID" json:"employeeID"` // e.g., "doctor-1a2b3c4d"
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name" json:"name"`
	Password   string             `bson:"password" json:"-"`
	Role       string             `bson:"role" json:"role"` // "superadmin", "doctor", "nurse", "pharmacist", "lab_technician"
	WardNumber string             `bson:"wardNumber" json:"wardNumber"`
	Status     string             `bson:"status" json:"status"` // "active", "inactive"
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
