package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPublicSettings_OmitsCommissionBase(t *testing.T) {
	settings := &CompanySettings{
		CompanyName:          "Acme Admissions",
		ContactEmail:         "hello@acme.test",
		ContactPhone:         "+880123456",
		Address:              "Dhaka",
		BaseCommissionAmount: 250,
	}

	raw, err := json.Marshal(settings.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	if strings.Contains(body, "base_commission_amount") || strings.Contains(body, "250") {
		t.Fatalf("public view must not expose the commission base: %s", body)
	}
	for _, want := range []string{"Acme Admissions", "hello@acme.test", "+880123456", "Dhaka"} {
		if !strings.Contains(body, want) {
			t.Errorf("public view missing %q: %s", want, body)
		}
	}
}

func TestBaseAmount_Fallback(t *testing.T) {
	var nilSettings *CompanySettings
	if got := nilSettings.BaseAmount(); got != DefaultBaseCommissionAmount {
		t.Errorf("nil settings: got %v, want default %v", got, DefaultBaseCommissionAmount)
	}
	if got := (&CompanySettings{}).BaseAmount(); got != DefaultBaseCommissionAmount {
		t.Errorf("unset base: got %v, want default %v", got, DefaultBaseCommissionAmount)
	}
	if got := (&CompanySettings{BaseCommissionAmount: 250}).BaseAmount(); got != 250 {
		t.Errorf("configured base: got %v, want 250", got)
	}
}
