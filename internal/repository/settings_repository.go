package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arcbsr/studentadmission-backend/internal/models"
)

// settingsKey pins the singleton settings document.
const settingsKey = "company"

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection("settings")}
}

func (r *SettingsRepository) GetSettings(ctx context.Context) (*models.CompanySettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.CompanySettings
	err := r.collection.FindOne(ctx, bson.M{"key": settingsKey}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, settings *models.CompanySettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"company_name":           settings.CompanyName,
			"contact_email":          settings.ContactEmail,
			"contact_phone":          settings.ContactPhone,
			"address":                settings.Address,
			"base_commission_amount": settings.BaseCommissionAmount,
			"updated_at":             time.Now(),
		},
		"$setOnInsert": bson.M{"key": settingsKey},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"key": settingsKey}, update, options.Update().SetUpsert(true))
	return err
}
