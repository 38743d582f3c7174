package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arcbsr/studentadmission-backend/internal/metrics"
	"github.com/arcbsr/studentadmission-backend/internal/models"
)

type InquiryRepository interface {
	AppendOrCreate(ctx context.Context, inquiry *models.Inquiry, msg models.Message) (*models.Inquiry, bool, error)
	GetInquiryByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error)
	GetAllInquiries(ctx context.Context) ([]models.Inquiry, error)
	GetByReferralKey(ctx context.Context, key string) ([]models.Inquiry, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InquiryStatus) error
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) error
	DeleteInquiry(ctx context.Context, id primitive.ObjectID) error
	CountInquiries(ctx context.Context) (int64, error)
}

// InquirySubmission is the public inquiry form payload.
type InquirySubmission struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Country          string `json:"country"`
	State            string `json:"state"`
	Message          string `json:"message"`
	CourseInterested string `json:"course_interested"`
	InterestCountry  string `json:"interest_country"`
	University       string `json:"university"`
	ReferralKey      string `json:"referral_key"`
}

type InquiryService struct {
	inquiryRepo  InquiryRepository
	agentRepo    AgentRepository
	userRepo     UserRepository
	settingsRepo SettingsRepository
	email        EmailService
	push         *PushService
	metrics      *metrics.Metrics
	// Alert recipient used until an admin configures a contact email.
	fallbackEmail string
}

func NewInquiryService(inquiryRepo InquiryRepository, agentRepo AgentRepository, userRepo UserRepository, settingsRepo SettingsRepository, email EmailService, push *PushService, m *metrics.Metrics, fallbackEmail string) *InquiryService {
	return &InquiryService{
		inquiryRepo:   inquiryRepo,
		agentRepo:     agentRepo,
		userRepo:      userRepo,
		settingsRepo:  settingsRepo,
		email:         email,
		push:          push,
		metrics:       m,
		fallbackEmail: fallbackEmail,
	}
}

// Submit accepts an inquiry form submission. The first submission for an
// email creates an inquiry; later ones append a message to it. An unknown
// referral key never blocks intake, the inquiry just stays unattributed.
func (s *InquiryService) Submit(ctx context.Context, sub *InquirySubmission) (*models.Inquiry, bool, error) {
	email := strings.TrimSpace(sub.Email)

	msg := models.Message{
		Text:             sub.Message,
		CourseInterested: sub.CourseInterested,
		Country:          sub.InterestCountry,
		University:       sub.University,
	}

	if key := strings.TrimSpace(sub.ReferralKey); key != "" {
		agent, err := s.agentRepo.GetAgentByReferralKey(ctx, key)
		switch {
		case err == nil:
			msg.AgentReferralKey = key
			msg.AgentInfo = agent.Snapshot()
			s.metrics.ReferralLookups.WithLabelValues("matched").Inc()
		case errors.Is(err, models.ErrNotFound):
			log.Printf("[INQUIRY] Unknown referral key %q on submission from %s", key, email)
			s.metrics.ReferralLookups.WithLabelValues("unknown").Inc()
		default:
			s.metrics.ReferralLookups.WithLabelValues("error").Inc()
			return nil, false, err
		}
	}

	inquiry := &models.Inquiry{
		Name:    strings.TrimSpace(sub.Name),
		Email:   email,
		Phone:   sub.Phone,
		Address: sub.Address,
		Country: sub.Country,
		State:   sub.State,
	}

	stored, created, err := s.inquiryRepo.AppendOrCreate(ctx, inquiry, msg)
	if err != nil {
		s.metrics.InquiriesSubmitted.WithLabelValues("error").Inc()
		return nil, false, err
	}

	if created {
		s.metrics.InquiriesSubmitted.WithLabelValues("created").Inc()
	} else {
		s.metrics.InquiriesSubmitted.WithLabelValues("merged").Inc()
	}

	go s.notifyNewInquiry(stored)

	return stored, created, nil
}

// alertRecipient picks the address for new-inquiry alerts: the configured
// contact email when one exists, the deployment fallback otherwise.
func alertRecipient(settings *models.CompanySettings, fallback string) string {
	if settings != nil && settings.ContactEmail != "" {
		return settings.ContactEmail
	}
	return fallback
}

// notifyNewInquiry alerts the agency about a fresh submission. Failures are
// logged only; the submission has already been stored.
func (s *InquiryService) notifyNewInquiry(inquiry *models.Inquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		settings = nil
	}
	if recipient := alertRecipient(settings, s.fallbackEmail); recipient != "" {
		if err := s.email.SendNewInquiryAlert(recipient, inquiry.Name, inquiry.Email); err != nil {
			s.metrics.EmailsSent.WithLabelValues("error").Inc()
		} else {
			s.metrics.EmailsSent.WithLabelValues("ok").Inc()
		}
	}

	if s.push == nil {
		return
	}
	admins, err := s.userRepo.GetByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Printf("[INQUIRY] Failed to list admins for push: %v", err)
		return
	}
	title := "New admission inquiry"
	body := fmt.Sprintf("%s (%s)", inquiry.Name, inquiry.Email)
	for _, admin := range admins {
		if admin.DeviceToken == "" {
			continue
		}
		if err := s.push.SendPushNotification(ctx, admin.DeviceToken, title, body); err != nil {
			log.Printf("[INQUIRY] Push to %s failed: %v", admin.Email, err)
		}
	}
}

func (s *InquiryService) GetAllInquiries(ctx context.Context) ([]models.Inquiry, error) {
	return s.inquiryRepo.GetAllInquiries(ctx)
}

func (s *InquiryService) GetInquiryByID(ctx context.Context, id string) (*models.Inquiry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	return s.inquiryRepo.GetInquiryByID(ctx, objID)
}

// UpdateStatus moves an inquiry through the pending/admitted/rejected
// lifecycle and emails the student on a decision.
func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	switch status {
	case models.StatusPending, models.StatusAdmitted, models.StatusRejected:
	default:
		return models.ErrValidation
	}

	inquiry, err := s.inquiryRepo.GetInquiryByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.inquiryRepo.UpdateStatus(ctx, objID, status); err != nil {
		return err
	}

	if status == models.StatusAdmitted || status == models.StatusRejected {
		go func() {
			if err := s.email.SendInquiryStatusUpdate(inquiry.Email, inquiry.Name, string(status)); err != nil {
				s.metrics.EmailsSent.WithLabelValues("error").Inc()
			} else {
				s.metrics.EmailsSent.WithLabelValues("ok").Inc()
			}
		}()
	}

	return nil
}

// AddReply appends an admin-authored message to an inquiry thread.
func (s *InquiryService) AddReply(ctx context.Context, id, text, senderRole string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	if strings.TrimSpace(text) == "" {
		return models.ErrValidation
	}

	msg := models.Message{
		Text:       text,
		SenderRole: senderRole,
	}
	return s.inquiryRepo.AppendMessage(ctx, objID, msg)
}

func (s *InquiryService) DeleteInquiry(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	return s.inquiryRepo.DeleteInquiry(ctx, objID)
}

func (s *InquiryService) CountInquiries(ctx context.Context) (int64, error) {
	return s.inquiryRepo.CountInquiries(ctx)
}
