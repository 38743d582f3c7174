package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arcbsr/studentadmission-backend/internal/metrics"
	"github.com/arcbsr/studentadmission-backend/internal/models"
)

// --- in-memory fakes ---

type fakeInquiryRepo struct {
	byEmail map[string]*models.Inquiry
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{byEmail: map[string]*models.Inquiry{}}
}

func (r *fakeInquiryRepo) AppendOrCreate(_ context.Context, inquiry *models.Inquiry, msg models.Message) (*models.Inquiry, bool, error) {
	msg.SubmittedAt = time.Now()
	if existing, ok := r.byEmail[inquiry.Email]; ok {
		existing.Messages = append(existing.Messages, msg)
		existing.UpdatedAt = msg.SubmittedAt
		existing.LastMessageAt = msg.SubmittedAt
		return existing, false, nil
	}

	stored := *inquiry
	stored.ID = primitive.NewObjectID()
	stored.Status = models.StatusPending
	stored.Messages = []models.Message{msg}
	stored.CreatedAt = msg.SubmittedAt
	stored.UpdatedAt = msg.SubmittedAt
	stored.LastMessageAt = msg.SubmittedAt
	r.byEmail[inquiry.Email] = &stored
	return &stored, true, nil
}

func (r *fakeInquiryRepo) GetInquiryByID(_ context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	for _, inq := range r.byEmail {
		if inq.ID == id {
			return inq, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeInquiryRepo) GetInquiryByEmail(_ context.Context, email string) (*models.Inquiry, error) {
	if inq, ok := r.byEmail[email]; ok {
		return inq, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeInquiryRepo) GetAllInquiries(_ context.Context) ([]models.Inquiry, error) {
	var result []models.Inquiry
	for _, inq := range r.byEmail {
		result = append(result, *inq)
	}
	return result, nil
}

func (r *fakeInquiryRepo) GetByReferralKey(_ context.Context, key string) ([]models.Inquiry, error) {
	var result []models.Inquiry
	for _, inq := range r.byEmail {
		if inq.ReferredBy(key) {
			result = append(result, *inq)
		}
	}
	return result, nil
}

func (r *fakeInquiryRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.InquiryStatus) error {
	for _, inq := range r.byEmail {
		if inq.ID == id {
			inq.Status = status
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeInquiryRepo) AppendMessage(_ context.Context, id primitive.ObjectID, msg models.Message) error {
	for _, inq := range r.byEmail {
		if inq.ID == id {
			inq.Messages = append(inq.Messages, msg)
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeInquiryRepo) DeleteInquiry(_ context.Context, id primitive.ObjectID) error {
	for email, inq := range r.byEmail {
		if inq.ID == id {
			delete(r.byEmail, email)
			return nil
		}
	}
	return nil
}

func (r *fakeInquiryRepo) CountInquiries(_ context.Context) (int64, error) {
	return int64(len(r.byEmail)), nil
}

type fakeAgentRepo struct {
	byKey map[string]*models.Agent
}

func (r *fakeAgentRepo) CreateAgent(_ context.Context, agent *models.Agent) (*models.Agent, error) {
	if _, ok := r.byKey[agent.ReferralKey]; ok {
		return nil, models.ErrDuplicate
	}
	agent.ID = primitive.NewObjectID()
	r.byKey[agent.ReferralKey] = agent
	return agent, nil
}

func (r *fakeAgentRepo) GetAgentByID(_ context.Context, id primitive.ObjectID) (*models.Agent, error) {
	for _, a := range r.byKey {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeAgentRepo) GetAgentByReferralKey(_ context.Context, key string) (*models.Agent, error) {
	if a, ok := r.byKey[key]; ok {
		return a, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeAgentRepo) GetAgentByEmail(_ context.Context, email string) (*models.Agent, error) {
	for _, a := range r.byKey {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeAgentRepo) GetAllAgents(_ context.Context) ([]models.Agent, error) {
	var result []models.Agent
	for _, a := range r.byKey {
		result = append(result, *a)
	}
	return result, nil
}

func (r *fakeAgentRepo) UpdateAgentFields(_ context.Context, _ primitive.ObjectID, _ bson.M) error {
	return nil
}

func (r *fakeAgentRepo) DeleteAgent(_ context.Context, id primitive.ObjectID) error {
	for key, a := range r.byKey {
		if a.ID == id {
			delete(r.byKey, key)
			return nil
		}
	}
	return nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	return u, nil
}
func (fakeUserRepo) FindUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrNotFound
}
func (fakeUserRepo) GetUserByID(_ context.Context, _ primitive.ObjectID) (*models.User, error) {
	return nil, models.ErrNotFound
}
func (fakeUserRepo) UpdateUserFields(_ context.Context, _ primitive.ObjectID, _ bson.M) error {
	return nil
}
func (fakeUserRepo) UpdatePassword(_ context.Context, _ primitive.ObjectID, _ string, _ bool) error {
	return nil
}
func (fakeUserRepo) UpdateLastLogin(_ context.Context, _ primitive.ObjectID) error { return nil }
func (fakeUserRepo) DeleteUser(_ context.Context, _ primitive.ObjectID) error      { return nil }
func (fakeUserRepo) GetByRole(_ context.Context, _ string) ([]*models.User, error) { return nil, nil }
func (fakeUserRepo) GetAllUsers(_ context.Context) ([]*models.User, error)         { return nil, nil }
func (fakeUserRepo) CountUsers(_ context.Context) (int64, error)                   { return 0, nil }

type fakeSettingsRepo struct {
	settings *models.CompanySettings
}

func (r *fakeSettingsRepo) GetSettings(_ context.Context) (*models.CompanySettings, error) {
	if r.settings == nil {
		return nil, models.ErrNotFound
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) SaveSettings(_ context.Context, s *models.CompanySettings) error {
	r.settings = s
	return nil
}

type fakeMailer struct{}

func (fakeMailer) SendTemporaryPassword(_, _ string) error      { return nil }
func (fakeMailer) SendInquiryStatusUpdate(_, _, _ string) error { return nil }
func (fakeMailer) SendNewInquiryAlert(_, _, _ string) error     { return nil }

func newTestInquiryService(inqRepo *fakeInquiryRepo, agentRepo *fakeAgentRepo) *InquiryService {
	return NewInquiryService(inqRepo, agentRepo, fakeUserRepo{}, &fakeSettingsRepo{}, fakeMailer{}, nil, metrics.Registry("test"), "")
}

// --- tests ---

func TestSubmit_DedupByEmail(t *testing.T) {
	repo := newFakeInquiryRepo()
	svc := newTestInquiryService(repo, &fakeAgentRepo{byKey: map[string]*models.Agent{}})
	ctx := context.Background()

	_, created, err := svc.Submit(ctx, &InquirySubmission{Name: "Alice", Email: "a@b.com", Message: "hello"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !created {
		t.Fatalf("first submission should create an inquiry")
	}

	_, created, err = svc.Submit(ctx, &InquirySubmission{Name: "Alice", Email: "a@b.com", Message: "again"})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Fatalf("second submission with same email should merge")
	}

	inq, err := repo.GetInquiryByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("inquiry not stored: %v", err)
	}
	if len(inq.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(inq.Messages))
	}

	_, created, err = svc.Submit(ctx, &InquirySubmission{Name: "Bob", Email: "b@c.com"})
	if err != nil || !created {
		t.Fatalf("different email should create a second inquiry (created=%v, err=%v)", created, err)
	}
	if n, _ := repo.CountInquiries(ctx); n != 2 {
		t.Fatalf("expected 2 inquiries, got %d", n)
	}
}

func TestSubmit_InvalidReferralKeyDoesNotBlock(t *testing.T) {
	repo := newFakeInquiryRepo()
	svc := newTestInquiryService(repo, &fakeAgentRepo{byKey: map[string]*models.Agent{}})

	inq, created, err := svc.Submit(context.Background(), &InquirySubmission{
		Name:        "Alice",
		Email:       "a@b.com",
		ReferralKey: "AGT-NOPE000",
	})
	if err != nil {
		t.Fatalf("submit with unknown key must succeed: %v", err)
	}
	if !created {
		t.Fatalf("expected inquiry to be created")
	}
	if inq.Messages[0].AgentInfo != nil || inq.Messages[0].AgentReferralKey != "" {
		t.Fatalf("unknown key must leave the message unattributed: %+v", inq.Messages[0])
	}
}

func TestSubmit_ReferralSnapshotOnSecondMessage(t *testing.T) {
	repo := newFakeInquiryRepo()
	agents := &fakeAgentRepo{byKey: map[string]*models.Agent{
		"AGT-RNB1234": {
			ID:          primitive.NewObjectID(),
			Name:        "Rana",
			Email:       "rana@agency.test",
			ReferralKey: "AGT-RNB1234",
			IsActive:    true,
		},
	}}
	svc := newTestInquiryService(repo, agents)
	ctx := context.Background()

	if _, _, err := svc.Submit(ctx, &InquirySubmission{Name: "Alice", Email: "a@b.com"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, _, err := svc.Submit(ctx, &InquirySubmission{Name: "Alice", Email: "a@b.com", ReferralKey: "AGT-RNB1234"}); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	inq, _ := repo.GetInquiryByEmail(ctx, "a@b.com")
	if len(inq.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(inq.Messages))
	}
	if inq.Messages[0].AgentInfo != nil {
		t.Fatalf("first message must not carry an agent snapshot")
	}
	second := inq.Messages[1]
	if second.AgentInfo == nil || second.AgentInfo.ReferralKey != "AGT-RNB1234" {
		t.Fatalf("second message must carry the agent snapshot, got %+v", second.AgentInfo)
	}
	if second.AgentReferralKey != "AGT-RNB1234" {
		t.Fatalf("second message must carry the referral key")
	}
}

func TestSubmit_TrimsReferralKey(t *testing.T) {
	repo := newFakeInquiryRepo()
	agents := &fakeAgentRepo{byKey: map[string]*models.Agent{
		"AGT-RNB1234": {ID: primitive.NewObjectID(), Name: "Rana", ReferralKey: "AGT-RNB1234"},
	}}
	svc := newTestInquiryService(repo, agents)

	inq, _, err := svc.Submit(context.Background(), &InquirySubmission{
		Name:        "Alice",
		Email:       "a@b.com",
		ReferralKey: "  AGT-RNB1234  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if inq.Messages[0].AgentReferralKey != "AGT-RNB1234" {
		t.Fatalf("referral key should be trimmed before lookup")
	}
}

func TestAlertRecipient(t *testing.T) {
	configured := &models.CompanySettings{ContactEmail: "desk@agency.test"}
	if got := alertRecipient(configured, "ops@agency.test"); got != "desk@agency.test" {
		t.Errorf("configured contact email must win, got %q", got)
	}
	if got := alertRecipient(&models.CompanySettings{}, "ops@agency.test"); got != "ops@agency.test" {
		t.Errorf("blank contact email must fall back, got %q", got)
	}
	if got := alertRecipient(nil, "ops@agency.test"); got != "ops@agency.test" {
		t.Errorf("missing settings document must fall back, got %q", got)
	}
	if got := alertRecipient(nil, ""); got != "" {
		t.Errorf("no recipient anywhere must yield empty, got %q", got)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newFakeInquiryRepo()
	svc := newTestInquiryService(repo, &fakeAgentRepo{byKey: map[string]*models.Agent{}})
	ctx := context.Background()

	inq, _, err := svc.Submit(ctx, &InquirySubmission{Name: "Alice", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.UpdateStatus(ctx, inq.ID.Hex(), "approved"); err == nil {
		t.Fatalf("unknown status must be rejected")
	}
	if err := svc.UpdateStatus(ctx, inq.ID.Hex(), models.StatusAdmitted); err != nil {
		t.Fatalf("valid status update failed: %v", err)
	}

	stored, _ := repo.GetInquiryByEmail(ctx, "a@b.com")
	if stored.Status != models.StatusAdmitted {
		t.Fatalf("status not persisted, got %s", stored.Status)
	}
}

func TestDashboard_EndToEnd(t *testing.T) {
	repo := newFakeInquiryRepo()
	agent := &models.Agent{
		ID:             primitive.NewObjectID(),
		Name:           "Rana",
		ReferralKey:    "AGT-RNB1234",
		CommissionRate: 10,
		IsActive:       true,
	}
	agents := &fakeAgentRepo{byKey: map[string]*models.Agent{"AGT-RNB1234": agent}}
	inquirySvc := newTestInquiryService(repo, agents)
	agentSvc := NewAgentService(agents, repo, &fakeSettingsRepo{}, metrics.Registry("test"))
	ctx := context.Background()

	for _, email := range []string{"a@b.com", "b@c.com", "c@d.com"} {
		if _, _, err := inquirySvc.Submit(ctx, &InquirySubmission{Name: "S", Email: email, ReferralKey: "AGT-RNB1234"}); err != nil {
			t.Fatalf("submit %s: %v", email, err)
		}
	}
	first, _ := repo.GetInquiryByEmail(ctx, "a@b.com")
	if err := inquirySvc.UpdateStatus(ctx, first.ID.Hex(), models.StatusAdmitted); err != nil {
		t.Fatalf("admit: %v", err)
	}

	dashboard, err := agentSvc.GetDashboard(ctx, agent)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Stats.TotalReferrals != 3 {
		t.Errorf("total referrals = %d, want 3", dashboard.Stats.TotalReferrals)
	}
	if dashboard.Stats.AdmittedReferrals != 1 {
		t.Errorf("admitted referrals = %d, want 1", dashboard.Stats.AdmittedReferrals)
	}
	if dashboard.Stats.TotalCommission != 10.00 {
		t.Errorf("total commission = %v, want 10.00", dashboard.Stats.TotalCommission)
	}
}
