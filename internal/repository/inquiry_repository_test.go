package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/arcbsr/studentadmission-backend/internal/models"
)

// Mongo round-trips datetimes at millisecond precision, so the creation
// check must survive a store-and-decode cycle of the timestamp it wrote.
func TestWroteFirstMessage_SurvivesBSONRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	inquiry := models.Inquiry{
		Name:      "Alice",
		Email:     "a@b.com",
		CreatedAt: now,
		Messages:  []models.Message{{Text: "hello", SubmittedAt: now}},
	}

	raw, err := bson.Marshal(inquiry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded models.Inquiry
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !decoded.CreatedAt.Equal(now) {
		t.Fatalf("created_at changed across BSON round trip: wrote %v, read %v", now, decoded.CreatedAt)
	}
	if !wroteFirstMessage(&decoded, now) {
		t.Fatalf("fresh insert must be reported as created")
	}
}

func TestWroteFirstMessage_MergeCases(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	earlier := now.Add(-time.Hour)

	appended := &models.Inquiry{
		CreatedAt: earlier,
		Messages: []models.Message{
			{Text: "first", SubmittedAt: earlier},
			{Text: "second", SubmittedAt: now},
		},
	}
	if wroteFirstMessage(appended, now) {
		t.Errorf("append to an existing inquiry must not be reported as created")
	}

	// A legacy record without a messages array ends up with a single
	// message after an append; the old created_at tells it apart.
	legacy := &models.Inquiry{
		CreatedAt: earlier,
		Messages:  []models.Message{{Text: "first", SubmittedAt: now}},
	}
	if wroteFirstMessage(legacy, now) {
		t.Errorf("append to a legacy record must not be reported as created")
	}
}
