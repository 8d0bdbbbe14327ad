package compliance

import (
	"testing"
	"time"

	"freightworks/meridian/pkg/shipment"
)

// completeShipment returns a shipment that passes every rule.
func completeShipment(id string) *shipment.Shipment {
	now := time.Now().UTC()
	s := shipment.New(id)
	s.ContainerNo = "TEST1234567"
	s.Shipper = "ACME"
	s.Consignee = "Umbrella"
	s.HSCode = "1234.56"
	s.ETA = &now
	s.Port = "Rotterdam"
	return s
}

// TestEvaluate_CleanShipment verifies no violations for a complete record.
func TestEvaluate_CleanShipment(t *testing.T) {
	ev := NewEvaluator(nil)

	violations := ev.Evaluate(completeShipment("shp-1"))
	if len(violations) != 0 {
		t.Fatalf("Expected no violations, got %v", violations)
	}
}

// TestEvaluate_BareShipment verifies the five missing-field rules fire
// together and in the fixed order.
func TestEvaluate_BareShipment(t *testing.T) {
	ev := NewEvaluator(nil)

	s := shipment.New("shp-2")
	s.ContainerNo = "TEST7654321"

	violations := ev.Evaluate(s)
	if len(violations) != 5 {
		t.Fatalf("Expected 5 violations, got %d: %v", len(violations), violations)
	}

	wantOrder := []string{RuleShipper, RuleConsignee, RuleHSCode, RuleETA, RuleDischargePort}
	for i, want := range wantOrder {
		if violations[i].Rule != want {
			t.Errorf("Violation %d: expected rule %s, got %s", i, want, violations[i].Rule)
		}
	}

	wantMessages := []string{
		"Missing shipper",
		"Missing consignee",
		"Missing HS code or commodity description",
		"Missing ETA",
		"Missing discharge port",
	}
	for i, want := range wantMessages {
		if violations[i].Message != want {
			t.Errorf("Violation %d: expected %q, got %q", i, want, violations[i].Message)
		}
	}
}

// TestEvaluate_HSCodeRules covers the generic/invalid HS code rule.
func TestEvaluate_HSCodeRules(t *testing.T) {
	ev := NewEvaluator(nil)

	tests := []struct {
		name    string
		hsCode  string
		invalid bool
	}{
		{"generic zeros", "0000", true},
		{"generic nines", "9999", true},
		{"too short", "12", true},
		{"too short after trim", "  12  ", true},
		{"valid dotted", "1234.56", false},
		{"valid plain", "847130", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := completeShipment("shp-3")
			s.HSCode = tt.hsCode

			violations := ev.Evaluate(s)
			found := false
			for _, v := range violations {
				if v.Rule == RuleHSCodeFormat {
					found = true
					if v.Message != "HS code appears invalid or generic" {
						t.Errorf("Unexpected message %q", v.Message)
					}
				}
			}
			if found != tt.invalid {
				t.Errorf("hsCode %q: expected invalid=%v, got %v", tt.hsCode, tt.invalid, found)
			}
		})
	}
}

// TestEvaluate_HighRiskRoute covers the watchlist rule on port and
// destination, case-insensitive.
func TestEvaluate_HighRiskRoute(t *testing.T) {
	ev := NewEvaluator(nil)

	tests := []struct {
		name        string
		port        string
		destination string
		flagged     bool
	}{
		{"clean port", "Rotterdam", "", false},
		{"watchlisted port", "IRAN Port", "", true},
		{"lowercase match", "bandar abbas, iran", "", true},
		{"watchlisted destination", "Rotterdam", "North Korea", true},
		{"syria substring", "Port of LATAKIA, SYRIA", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := completeShipment("shp-4")
			s.Port = tt.port
			s.Destination = tt.destination

			violations := ev.Evaluate(s)
			found := false
			for _, v := range violations {
				if v.Rule == RuleHighRiskPort {
					found = true
					if v.Message != "Route involves a high-risk port (manual review required)" {
						t.Errorf("Unexpected message %q", v.Message)
					}
				}
			}
			if found != tt.flagged {
				t.Errorf("port=%q destination=%q: expected flagged=%v, got %v",
					tt.port, tt.destination, tt.flagged, found)
			}
		})
	}
}

// TestEvaluate_CustomWatchlist verifies a configured watchlist replaces the
// default.
func TestEvaluate_CustomWatchlist(t *testing.T) {
	ev := NewEvaluator([]string{"ATLANTIS"})

	s := completeShipment("shp-5")
	s.Port = "IRAN Port"
	for _, v := range ev.Evaluate(s) {
		if v.Rule == RuleHighRiskPort {
			t.Fatal("Default watchlist should not apply with a custom watchlist")
		}
	}

	s.Port = "Atlantis Deepwater"
	found := false
	for _, v := range ev.Evaluate(s) {
		if v.Rule == RuleHighRiskPort {
			found = true
		}
	}
	if !found {
		t.Error("Expected custom watchlist entry to flag the route")
	}
}

// TestEvaluate_AlternateETAFields verifies any of the three date fields
// satisfies the ETA rule.
func TestEvaluate_AlternateETAFields(t *testing.T) {
	ev := NewEvaluator(nil)
	now := time.Now().UTC()

	s := completeShipment("shp-6")
	s.ETA = nil
	s.ArrivalDate = &now
	for _, v := range ev.Evaluate(s) {
		if v.Rule == RuleETA {
			t.Error("arrivalDate should satisfy the ETA rule")
		}
	}

	s.ArrivalDate = nil
	s.PromisedDate = &now
	for _, v := range ev.Evaluate(s) {
		if v.Rule == RuleETA {
			t.Error("promisedDate should satisfy the ETA rule")
		}
	}
}

// TestEvaluate_CommoditySatisfiesHSRule verifies the HS-or-commodity rule.
func TestEvaluate_CommoditySatisfiesHSRule(t *testing.T) {
	ev := NewEvaluator(nil)

	s := completeShipment("shp-7")
	s.HSCode = ""
	s.Commodity = "frozen poultry"

	for _, v := range ev.Evaluate(s) {
		if v.Rule == RuleHSCode {
			t.Error("Commodity description should satisfy the HS code rule")
		}
	}
}
