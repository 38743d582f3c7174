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

type InquiryRepository struct {
	collection *mongo.Collection
}

func NewInquiryRepository(db *mongo.Database) *InquiryRepository {
	return &InquiryRepository{collection: db.Collection("inquiries")}
}

func (r *InquiryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "messages.agent_referral_key", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

// AppendOrCreate pushes the message onto the inquiry for the given email,
// creating the inquiry when none exists. The whole operation is a single
// upsert, so two concurrent submissions for the same email cannot lose a
// message. Returns the stored inquiry and whether it was newly created.
func (r *InquiryRepository) AppendOrCreate(ctx context.Context, inquiry *models.Inquiry, msg models.Message) (*models.Inquiry, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Mongo stores datetimes at millisecond precision. Truncate up front so
	// the created_at we write round-trips identically and the fresh-insert
	// check below can compare instants.
	now := time.Now().UTC().Truncate(time.Millisecond)
	msg.SubmittedAt = now

	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set": bson.M{
			"updated_at":      now,
			"last_message_at": now,
		},
		"$setOnInsert": bson.M{
			"name":       inquiry.Name,
			"email":      inquiry.Email,
			"phone":      inquiry.Phone,
			"address":    inquiry.Address,
			"country":    inquiry.Country,
			"state":      inquiry.State,
			"status":     models.StatusPending,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored models.Inquiry
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"email": inquiry.Email}, update, opts).Decode(&stored)
	if err != nil {
		return nil, false, err
	}

	return &stored, wroteFirstMessage(&stored, now), nil
}

// wroteFirstMessage reports whether this upsert created the inquiry rather
// than appending to an existing one. The message count alone is not enough:
// legacy records without a messages array also end up with a single message
// after an append, so the creation timestamp has to match too.
func wroteFirstMessage(stored *models.Inquiry, now time.Time) bool {
	return len(stored.Messages) == 1 && stored.CreatedAt.Equal(now)
}

func (r *InquiryRepository) GetInquiryByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var inquiry models.Inquiry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inquiry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &inquiry, nil
}

func (r *InquiryRepository) GetAllInquiries(ctx context.Context) ([]models.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var result []models.Inquiry
	err = cursor.All(ctx, &result)
	return result, err
}

// GetByReferralKey returns inquiries attributable to the key, newest first.
// The filter mirrors Inquiry.ReferredBy: any message may carry the key, and
// legacy records are matched on the top-level field.
func (r *InquiryRepository) GetByReferralKey(ctx context.Context, key string) ([]models.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"$or": []bson.M{
			{"messages.agent_referral_key": key},
			{
				"agent_referral_key": key,
				"$or": []bson.M{
					{"messages": bson.M{"$exists": false}},
					{"messages": bson.M{"$size": 0}},
				},
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}

	var result []models.Inquiry
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *InquiryRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InquiryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"status":     status,
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

// AppendMessage pushes a reply onto an existing inquiry by id.
func (r *InquiryRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	msg.SubmittedAt = now

	result, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": msg},
		"$set": bson.M{
			"updated_at":      now,
			"last_message_at": now,
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

func (r *InquiryRepository) DeleteInquiry(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *InquiryRepository) CountInquiries(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
