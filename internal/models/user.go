package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAgent      = "agent"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email" validate:"required,email"`
	Password      string             `bson:"password" json:"-" validate:"required,min=6"`
	Role          string             `bson:"role" json:"role" validate:"required,oneof=agent admin super_admin"`
	FirstName     string             `bson:"first_name" json:"first_name"`
	LastName      string             `bson:"last_name" json:"last_name"`
	Permissions   map[string]bool    `bson:"permissions,omitempty" json:"permissions,omitempty"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	ResetRequired bool               `bson:"reset_required" json:"reset_required"`
	// Set when Role == agent, references the agents collection.
	AgentID primitive.ObjectID `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	// FCM registration token for dashboard push notifications.
	DeviceToken string    `bson:"device_token,omitempty" json:"device_token,omitempty"`
	LastLogin   time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// HasPermission returns true for admins unless the permission is explicitly
// revoked, and false for everyone else unless explicitly granted.
func (u *User) HasPermission(name string) bool {
	if v, ok := u.Permissions[name]; ok {
		return v
	}
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
