package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arcbsr/studentadmission-backend/internal/metrics"
	"github.com/arcbsr/studentadmission-backend/internal/models"
	"github.com/arcbsr/studentadmission-backend/internal/utils"
)

type AgentRepository interface {
	CreateAgent(ctx context.Context, agent *models.Agent) (*models.Agent, error)
	GetAgentByID(ctx context.Context, id primitive.ObjectID) (*models.Agent, error)
	GetAgentByReferralKey(ctx context.Context, key string) (*models.Agent, error)
	GetAgentByEmail(ctx context.Context, email string) (*models.Agent, error)
	GetAllAgents(ctx context.Context) ([]models.Agent, error)
	UpdateAgentFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	DeleteAgent(ctx context.Context, id primitive.ObjectID) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (*models.CompanySettings, error)
	SaveSettings(ctx context.Context, settings *models.CompanySettings) error
}

// AgentStats is what the agent dashboard displays next to the inquiry list.
type AgentStats struct {
	TotalReferrals    int     `json:"total_referrals"`
	AdmittedReferrals int     `json:"admitted_referrals"`
	PendingReferrals  int     `json:"pending_referrals"`
	RejectedReferrals int     `json:"rejected_referrals"`
	TotalCommission   float64 `json:"total_commission"`
}

type AgentDashboard struct {
	Agent     *models.Agent    `json:"agent"`
	Stats     AgentStats       `json:"stats"`
	Inquiries []models.Inquiry `json:"inquiries"`
}

type AgentService struct {
	agentRepo    AgentRepository
	inquiryRepo  InquiryRepository
	settingsRepo SettingsRepository
	metrics      *metrics.Metrics
}

func NewAgentService(agentRepo AgentRepository, inquiryRepo InquiryRepository, settingsRepo SettingsRepository, m *metrics.Metrics) *AgentService {
	return &AgentService{
		agentRepo:    agentRepo,
		inquiryRepo:  inquiryRepo,
		settingsRepo: settingsRepo,
		metrics:      m,
	}
}

// ResolveAgent looks up the agent profile linked to a user account. The
// lookup is retried with backoff: right after registration the profile may
// not be readable yet.
func (s *AgentService) ResolveAgent(ctx context.Context, agentID primitive.ObjectID) (*models.Agent, error) {
	if agentID.IsZero() {
		return nil, models.ErrNotFound
	}

	var agent *models.Agent
	err := utils.Retry(ctx, 3, time.Second, func() error {
		var lookupErr error
		agent, lookupErr = s.agentRepo.GetAgentByID(ctx, agentID)
		return lookupErr
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// GetDashboard fetches the agent's attributed inquiries and computes the
// commission stats shown on the dashboard.
func (s *AgentService) GetDashboard(ctx context.Context, agent *models.Agent) (*AgentDashboard, error) {
	start := time.Now()

	inquiries, err := s.inquiryRepo.GetByReferralKey(ctx, agent.ReferralKey)
	if err != nil {
		s.metrics.DashboardLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}

	base := models.DefaultBaseCommissionAmount
	if settings, err := s.settingsRepo.GetSettings(ctx); err == nil {
		base = settings.BaseAmount()
	}

	stats := ComputeAgentStats(inquiries, agent.ReferralKey, agent.CommissionRate, base)

	s.metrics.DashboardLatency.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return &AgentDashboard{Agent: agent, Stats: stats, Inquiries: inquiries}, nil
}

// ComputeAgentStats counts referrals attributed to the key and derives the
// commission total. The inquiry set is filtered again here even though the
// repository query already matched on the key, so callers holding an
// arbitrary inquiry slice get the same answer.
func ComputeAgentStats(inquiries []models.Inquiry, referralKey string, commissionRate, baseAmount float64) AgentStats {
	stats := AgentStats{}
	for i := range inquiries {
		if !inquiries[i].ReferredBy(referralKey) {
			continue
		}
		stats.TotalReferrals++
		switch inquiries[i].Status {
		case models.StatusAdmitted:
			stats.AdmittedReferrals++
		case models.StatusRejected:
			stats.RejectedReferrals++
		default:
			stats.PendingReferrals++
		}
	}
	stats.TotalCommission = ComputeCommission(stats.AdmittedReferrals, commissionRate, baseAmount)
	return stats
}

// ComputeCommission returns admitted × (base × rate/100), rounded to two
// decimals. A missing or negative rate pays nothing.
func ComputeCommission(admittedCount int, commissionRate, baseAmount float64) float64 {
	if admittedCount <= 0 || commissionRate <= 0 || baseAmount <= 0 {
		return 0
	}
	total := float64(admittedCount) * (baseAmount * commissionRate / 100)
	return math.Round(total*100) / 100
}

// --- Admin agent management ---

func (s *AgentService) CreateAgent(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	var created *models.Agent
	var err error
	for i := 0; i < 3; i++ {
		agent.ReferralKey = models.GenerateReferralKey()
		created, err = s.agentRepo.CreateAgent(ctx, agent)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, models.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, err
}

func (s *AgentService) GetAllAgents(ctx context.Context) ([]models.Agent, error) {
	return s.agentRepo.GetAllAgents(ctx)
}

func (s *AgentService) GetAgentByReferralKey(ctx context.Context, key string) (*models.Agent, error) {
	return s.agentRepo.GetAgentByReferralKey(ctx, key)
}

func (s *AgentService) UpdateCommissionRate(ctx context.Context, id string, rate float64) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	if rate < 0 || rate > 100 {
		return models.ErrValidation
	}
	return s.agentRepo.UpdateAgentFields(ctx, objID, bson.M{"commission_rate": rate})
}

func (s *AgentService) SetAgentActive(ctx context.Context, id string, isActive bool) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	return s.agentRepo.UpdateAgentFields(ctx, objID, bson.M{"is_active": isActive})
}

func (s *AgentService) DeleteAgent(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	return s.agentRepo.DeleteAgent(ctx, objID)
}
