package models

import "testing"

func TestReferredBy_MessageMatch(t *testing.T) {
	inq := Inquiry{
		Messages: []Message{
			{Text: "first"},
			{Text: "second", AgentReferralKey: "AGT-RNB1234"},
		},
	}

	if !inq.ReferredBy("AGT-RNB1234") {
		t.Fatalf("expected inquiry to be attributed via message key")
	}
	if inq.ReferredBy("AGT-XYZ0000") {
		t.Fatalf("expected no attribution for a different key")
	}
	if inq.ReferredBy("") {
		t.Fatalf("empty key must never attribute")
	}
}

func TestReferredBy_LegacyFallback(t *testing.T) {
	legacy := Inquiry{AgentReferralKey: "AGT-RNB1234"}
	if !legacy.ReferredBy("AGT-RNB1234") {
		t.Fatalf("expected legacy top-level key to attribute when messages are absent")
	}

	// Once messages exist, the top-level key is ignored.
	migrated := Inquiry{
		AgentReferralKey: "AGT-RNB1234",
		Messages:         []Message{{Text: "hello"}},
	}
	if migrated.ReferredBy("AGT-RNB1234") {
		t.Fatalf("top-level key must not attribute when messages exist without the key")
	}
}

func TestReferredBy_CaseSensitive(t *testing.T) {
	inq := Inquiry{Messages: []Message{{AgentReferralKey: "AGT-RNB1234"}}}
	if inq.ReferredBy("agt-rnb1234") {
		t.Fatalf("attribution must be case-sensitive")
	}
}
