package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole enum
type UserRole string

const (
	RoleCommunity UserRole = "community"
	RoleNGO       UserRole = "NGO"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCommunity, RoleNGO, RoleAdmin:
		return true
	}
	return false
}

// User is a registered guardian, NGO member or admin.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Role      UserRole           `bson:"role" json:"role"`
	Points    int                `bson:"points" json:"points"`
	Badges    []string           `bson:"badges" json:"badges"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the part of a User resolved inline on reports.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role  UserRole           `bson:"role" json:"role"`
}
