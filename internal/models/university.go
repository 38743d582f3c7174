package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arcbsr/studentadmission-backend/internal/utils/validator"
)

// University is a catalog row shown on the public site and referenced by
// free-text match from inquiry messages.
type University struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Country     string             `bson:"country" json:"country" validate:"required"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Rating      float64            `bson:"rating,omitempty" json:"rating,omitempty" validate:"gte=0,lte=5"`
	Courses     []string           `bson:"courses,omitempty" json:"courses,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

func (u University) Validate() error {
	validate := validator.GetValidator()
	if err := validate.Struct(u); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
