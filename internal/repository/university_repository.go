package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arcbsr/studentadmission-backend/internal/models"
)

type UniversityRepository struct {
	collection *mongo.Collection
}

func NewUniversityRepository(db *mongo.Database) *UniversityRepository {
	return &UniversityRepository{collection: db.Collection("universities")}
}

func (r *UniversityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UniversityRepository) GetAllUniversities(ctx context.Context) ([]models.University, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var result []models.University
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *UniversityRepository) GetActiveUniversities(ctx context.Context) ([]models.University, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var result []models.University
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *UniversityRepository) GetUniversityByID(ctx context.Context, id primitive.ObjectID) (*models.University, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var university models.University
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&university)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &university, nil
}

func (r *UniversityRepository) CreateUniversity(ctx context.Context, university *models.University) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	university.ID = primitive.NewObjectID()
	university.CreatedAt = time.Now()
	university.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, university)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return err
}

func (r *UniversityRepository) UpdateUniversity(ctx context.Context, university *models.University) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":        university.Name,
			"country":     university.Country,
			"location":    university.Location,
			"rating":      university.Rating,
			"courses":     university.Courses,
			"description": university.Description,
			"is_active":   university.IsActive,
			"updated_at":  time.Now(),
		},
	}

	result, err := r.collection.UpdateByID(ctx, university.ID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UniversityRepository) UpdateUniversityStatus(ctx context.Context, id primitive.ObjectID, isActive bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_active":  isActive,
			"updated_at": time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UniversityRepository) DeleteUniversity(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
