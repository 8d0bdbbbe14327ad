package lifecycle

import (
	"testing"
	"time"

	"freightworks/meridian/pkg/shipment"
)

func compliantShipment(id string) *shipment.Shipment {
	s := shipment.New(id)
	s.ContainerNo = "MSKU1234567"
	s.Shipper = "Acme Export Co"
	s.Consignee = "Umbrella Imports"
	s.HSCode = "8471.30"
	s.Port = "Rotterdam"
	eta := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	s.ETA = &eta
	return s
}

func mustApply(t *testing.T, m *Machine, s *shipment.Shipment, kind EventKind) *shipment.Shipment {
	t.Helper()
	res, err := m.Apply(s, NewEvent(kind, s.ID))
	if err != nil {
		t.Fatalf("%s failed: %v", kind, err)
	}
	return res.Shipment
}

func TestMachineHappyPath(t *testing.T) {
	m := NewMachine(nil, nil)
	s := compliantShipment("shp-001")

	s = mustApply(t, m, s, EventCreated)
	if s.CurrentPhase != shipment.PhaseCompliance {
		t.Fatalf("expected compliance after created, got %s", s.CurrentPhase)
	}
	if s.PhaseProgress[shipment.PhaseIntake] != shipment.ProgressDone {
		t.Errorf("intake progress should be done")
	}

	s = mustApply(t, m, s, EventComplianceCheck)
	if s.CurrentPhase != shipment.PhaseMonitoring {
		t.Fatalf("expected monitoring after clean check, got %s", s.CurrentPhase)
	}
	if s.ComplianceStatus != shipment.ComplianceOK {
		t.Errorf("expected compliance ok, got %s", s.ComplianceStatus)
	}

	s = mustApply(t, m, s, EventArrivalConfirmed)
	if s.CurrentPhase != shipment.PhaseArrival {
		t.Fatalf("expected arrival, got %s", s.CurrentPhase)
	}

	s = mustApply(t, m, s, EventBillingTriggered)
	if s.CurrentPhase != shipment.PhaseBilling {
		t.Fatalf("expected billing, got %s", s.CurrentPhase)
	}

	s = mustApply(t, m, s, EventBillingProcessed)
	if !s.Completed() {
		t.Errorf("shipment should be completed after billing processed")
	}
}

func TestMachineDoesNotMutateInput(t *testing.T) {
	m := NewMachine(nil, nil)
	s := compliantShipment("shp-002")

	res, err := m.Apply(s, NewEvent(EventCreated, s.ID))
	if err != nil {
		t.Fatalf("created failed: %v", err)
	}
	if s.CurrentPhase != shipment.PhaseIntake {
		t.Errorf("input shipment was mutated: phase %s", s.CurrentPhase)
	}
	if res.Shipment.CurrentPhase != shipment.PhaseCompliance {
		t.Errorf("result should be in compliance, got %s", res.Shipment.CurrentPhase)
	}
}

func TestMachineGuardRejections(t *testing.T) {
	m := NewMachine(nil, nil)

	tests := []struct {
		name  string
		phase shipment.Phase
		kind  EventKind
	}{
		{"created after intake", shipment.PhaseMonitoring, EventCreated},
		{"arrival from intake", shipment.PhaseIntake, EventArrivalConfirmed},
		{"arrival from billing", shipment.PhaseBilling, EventArrivalConfirmed},
		{"billing trigger from monitoring", shipment.PhaseMonitoring, EventBillingTriggered},
		{"billing processed from arrival", shipment.PhaseArrival, EventBillingProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := compliantShipment("shp-guard")
			s.CurrentPhase = tt.phase

			_, err := m.Apply(s, NewEvent(tt.kind, s.ID))
			if !shipment.IsInvalidTransition(err) {
				t.Errorf("expected InvalidTransitionError, got %v", err)
			}
		})
	}
}

func TestMachineBillingProcessedIsTerminal(t *testing.T) {
	m := NewMachine(nil, nil)
	s := compliantShipment("shp-003")
	s.CurrentPhase = shipment.PhaseBilling
	s.PhaseProgress[shipment.PhaseBilling] = shipment.ProgressInProgress

	s = mustApply(t, m, s, EventBillingProcessed)

	_, err := m.Apply(s, NewEvent(EventBillingProcessed, s.ID))
	if !shipment.IsInvalidTransition(err) {
		t.Errorf("expected second billing_processed to be rejected, got %v", err)
	}
}

func TestMachineFailedRecheckRegressesPointerOnly(t *testing.T) {
	m := NewMachine(nil, nil)
	s := compliantShipment("shp-004")
	s = mustApply(t, m, s, EventCreated)
	s = mustApply(t, m, s, EventComplianceCheck)
	if s.CurrentPhase != shipment.PhaseMonitoring {
		t.Fatalf("setup: expected monitoring, got %s", s.CurrentPhase)
	}

	s.Shipper = ""
	s = mustApply(t, m, s, EventComplianceCheck)

	if s.CurrentPhase != shipment.PhaseCompliance {
		t.Errorf("expected pointer back in compliance, got %s", s.CurrentPhase)
	}
	if s.ComplianceStatus != shipment.ComplianceIssues {
		t.Errorf("expected issues status, got %s", s.ComplianceStatus)
	}
	if s.PhaseProgress[shipment.PhaseCompliance] != shipment.ProgressDone {
		t.Errorf("compliance progress should stay done, got %s",
			s.PhaseProgress[shipment.PhaseCompliance])
	}
}

func TestMachineETAUpdateReclassifiesRisk(t *testing.T) {
	m := NewMachine(nil, nil)
	s := compliantShipment("shp-005")
	planned := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	s.ETAPlanned = &planned

	s = mustApply(t, m, s, EventCreated)
	s = mustApply(t, m, s, EventComplianceCheck)

	late := planned.Add(18 * time.Hour)
	ev := NewEvent(EventETAUpdated, s.ID)
	ev.ETACurrent = &late

	res, err := m.Apply(s, ev)
	if err != nil {
		t.Fatalf("eta_updated failed: %v", err)
	}
	if res.Shipment.MonitoringStatus != shipment.MonitoringAtRisk {
		t.Errorf("expected at_risk after 18h slip, got %s", res.Shipment.MonitoringStatus)
	}
	if !res.RiskChanged {
		t.Errorf("expected RiskChanged to be set")
	}
}

func TestMachineUnknownEventKind(t *testing.T) {
	m := NewMachine(nil, nil)
	s := compliantShipment("shp-006")

	_, err := m.Apply(s, NewEvent(EventKind("teleported"), s.ID))
	if !shipment.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
