package models

import (
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Agent is the single source of truth for agent profile data. Users with
// role "agent" reference this document by id.
type Agent struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name" validate:"required"`
	Email string             `bson:"email" json:"email" validate:"required,email"`
	Phone string             `bson:"phone,omitempty" json:"phone,omitempty"`
	// Short code students supply on the inquiry form, e.g. AGT-RNB1234.
	ReferralKey string `bson:"referral_key" json:"referral_key"`
	// Percentage of the base amount paid per admitted referral, 0-100.
	CommissionRate float64   `bson:"commission_rate" json:"commission_rate" validate:"gte=0,lte=100"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// AgentInfo is the point-in-time snapshot embedded in an inquiry message
// when a referral key validates at submission time.
type AgentInfo struct {
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email" json:"email"`
	ReferralKey string `bson:"referral_key" json:"referral_key"`
}

func (a *Agent) Snapshot() *AgentInfo {
	return &AgentInfo{Name: a.Name, Email: a.Email, ReferralKey: a.ReferralKey}
}

const (
	referralLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referralDigits  = "0123456789"
)

// GenerateReferralKey produces a key of the form AGT-XXX9999.
func GenerateReferralKey() string {
	seeded := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, 7)
	for i := 0; i < 3; i++ {
		b[i] = referralLetters[seeded.Intn(len(referralLetters))]
	}
	for i := 3; i < 7; i++ {
		b[i] = referralDigits[seeded.Intn(len(referralDigits))]
	}
	return fmt.Sprintf("AGT-%s", string(b))
}
