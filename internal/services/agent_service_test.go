package services

import (
	"reflect"
	"testing"

	"github.com/arcbsr/studentadmission-backend/internal/models"
)

func referredInquiry(status models.InquiryStatus, key string) models.Inquiry {
	return models.Inquiry{
		Status:   status,
		Messages: []models.Message{{AgentReferralKey: key}},
	}
}

func TestComputeAgentStats_Scenario(t *testing.T) {
	// Agent AGT-RNB1234 at 10%: three referrals, one admitted, base 100.
	inquiries := []models.Inquiry{
		referredInquiry(models.StatusAdmitted, "AGT-RNB1234"),
		referredInquiry(models.StatusPending, "AGT-RNB1234"),
		referredInquiry(models.StatusPending, "AGT-RNB1234"),
	}

	got := ComputeAgentStats(inquiries, "AGT-RNB1234", 10, 100)
	want := AgentStats{
		TotalReferrals:    3,
		AdmittedReferrals: 1,
		PendingReferrals:  2,
		TotalCommission:   10.00,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputeAgentStats = %+v, want %+v", got, want)
	}
}

func TestComputeAgentStats_IgnoresOtherAgents(t *testing.T) {
	inquiries := []models.Inquiry{
		referredInquiry(models.StatusAdmitted, "AGT-RNB1234"),
		referredInquiry(models.StatusAdmitted, "AGT-ABC0001"),
		{Status: models.StatusAdmitted}, // direct inquiry, no referral
	}

	got := ComputeAgentStats(inquiries, "AGT-RNB1234", 50, 100)
	if got.TotalReferrals != 1 || got.AdmittedReferrals != 1 {
		t.Errorf("expected exactly one attributed inquiry, got %+v", got)
	}
}

func TestComputeAgentStats_Idempotent(t *testing.T) {
	inquiries := []models.Inquiry{
		referredInquiry(models.StatusAdmitted, "AGT-RNB1234"),
		referredInquiry(models.StatusRejected, "AGT-RNB1234"),
	}

	first := ComputeAgentStats(inquiries, "AGT-RNB1234", 25, 100)
	second := ComputeAgentStats(inquiries, "AGT-RNB1234", 25, 100)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("stats changed between identical runs: %+v vs %+v", first, second)
	}
}

func TestComputeCommission(t *testing.T) {
	cases := []struct {
		name     string
		admitted int
		rate     float64
		base     float64
		want     float64
	}{
		{"zero admitted", 0, 10, 100, 0},
		{"missing rate", 5, 0, 100, 0},
		{"negative rate", 5, -3, 100, 0},
		{"scenario", 1, 10, 100, 10},
		{"multiple admissions", 4, 12.5, 100, 50},
		{"rounding", 3, 33.333, 100, 100},
	}

	for _, tc := range cases {
		if got := ComputeCommission(tc.admitted, tc.rate, tc.base); got != tc.want {
			t.Errorf("%s: ComputeCommission(%d, %v, %v) = %v, want %v",
				tc.name, tc.admitted, tc.rate, tc.base, got, tc.want)
		}
	}
}

func TestComputeCommission_Monotonic(t *testing.T) {
	prev := 0.0
	for admitted := 0; admitted <= 10; admitted++ {
		got := ComputeCommission(admitted, 10, 100)
		if got < prev {
			t.Fatalf("commission decreased at admitted=%d: %v < %v", admitted, got, prev)
		}
		prev = got
	}

	prev = 0.0
	for rate := 0.0; rate <= 100; rate += 5 {
		got := ComputeCommission(3, rate, 100)
		if got < prev {
			t.Fatalf("commission decreased at rate=%v: %v < %v", rate, got, prev)
		}
		prev = got
	}
}
