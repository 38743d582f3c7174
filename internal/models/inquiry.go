package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryStatus string

const (
	StatusPending  InquiryStatus = "pending"
	StatusAdmitted InquiryStatus = "admitted"
	StatusRejected InquiryStatus = "rejected"
)

// Inquiry is a student's admission request. One inquiry per email address;
// repeat submissions append to Messages instead of creating a new record.
type Inquiry struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string             `bson:"address,omitempty" json:"address,omitempty"`
	Country string             `bson:"country,omitempty" json:"country,omitempty"`
	State   string             `bson:"state,omitempty" json:"state,omitempty"`
	Status  InquiryStatus      `bson:"status" json:"status"`
	// Legacy records created before the messages format carried the
	// referral key at the top level.
	AgentReferralKey string    `bson:"agent_referral_key,omitempty" json:"agent_referral_key,omitempty"`
	Messages         []Message `bson:"messages" json:"messages"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
	LastMessageAt    time.Time `bson:"last_message_at" json:"last_message_at"`
}

// Message is one submission (or admin reply) within an inquiry.
type Message struct {
	Text             string     `bson:"message,omitempty" json:"message,omitempty"`
	CourseInterested string     `bson:"course_interested,omitempty" json:"course_interested,omitempty"`
	Country          string     `bson:"country,omitempty" json:"country,omitempty"`
	University       string     `bson:"university,omitempty" json:"university,omitempty"`
	AgentReferralKey string     `bson:"agent_referral_key,omitempty" json:"agent_referral_key,omitempty"`
	AgentInfo        *AgentInfo `bson:"agent_info,omitempty" json:"agent_info,omitempty"`
	// Set for replies written from the admin dashboard.
	SenderRole  string    `bson:"sender_role,omitempty" json:"sender_role,omitempty"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// ReferredBy reports whether the inquiry is attributable to the given
// referral key: any message may carry the key, and records predating the
// messages format fall back to the top-level field.
func (i *Inquiry) ReferredBy(key string) bool {
	if key == "" {
		return false
	}
	for _, m := range i.Messages {
		if m.AgentReferralKey == key {
			return true
		}
	}
	if len(i.Messages) == 0 {
		return i.AgentReferralKey == key
	}
	return false
}
