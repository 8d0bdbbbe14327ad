package lifecycle

import (
	"freightworks/meridian/pkg/compliance"
	"freightworks/meridian/pkg/monitoring"
	"freightworks/meridian/pkg/shipment"
)

// Result describes the outcome of applying a single event. The returned
// shipment is a new value; the input is never mutated.
type Result struct {
	// Shipment is the updated record.
	Shipment *shipment.Shipment

	// From and To are the phase pointer before and after the event.
	// PhaseChanged is true when they differ.
	From         shipment.Phase
	To           shipment.Phase
	PhaseChanged bool

	// Violations holds the rule failures of a compliance check, when the
	// event ran one.
	Violations []compliance.Violation

	// RiskChanged is true when the monitoring status label changed.
	RiskChanged bool
}

// Machine applies lifecycle events to shipment values. It is pure: Apply
// operates on a clone and either returns the updated value or an error
// with the input left untouched — no partial mutation.
type Machine struct {
	checker    *compliance.Checker
	classifier *monitoring.Classifier
}

// NewMachine creates a state machine with the given compliance checker
// and risk classifier. Nil arguments fall back to defaults.
func NewMachine(checker *compliance.Checker, classifier *monitoring.Classifier) *Machine {
	if checker == nil {
		checker = compliance.NewChecker(nil)
	}
	if classifier == nil {
		classifier = monitoring.NewClassifier(0, 0)
	}
	return &Machine{checker: checker, classifier: classifier}
}

// Apply evaluates the event against the shipment's current state. Guard
// failures return an InvalidTransitionError; unknown event kinds return a
// ValidationError.
func (m *Machine) Apply(s *shipment.Shipment, ev Event) (*Result, error) {
	next := s.Clone()
	next.Normalize()

	res := &Result{From: next.CurrentPhase}
	prevRisk := next.MonitoringStatus

	switch ev.Kind {
	case EventCreated:
		if next.CurrentPhase != shipment.PhaseIntake {
			return nil, shipment.NewInvalidTransitionError(next.ID, next.CurrentPhase, string(ev.Kind),
				"shipment has already left intake")
		}
		next.PhaseProgress[shipment.PhaseIntake] = shipment.ProgressDone
		next.CurrentPhase = shipment.PhaseCompliance
		if next.PhaseProgress[shipment.PhaseCompliance] == shipment.ProgressPending {
			next.PhaseProgress[shipment.PhaseCompliance] = shipment.ProgressInProgress
		}

	case EventComplianceCheck:
		// Permitted in every phase; a failing re-check regresses only the
		// phase pointer.
		next, res.Violations = m.checker.RunCheck(next)
		m.classifier.Apply(next)

	case EventETAUpdated:
		if ev.ETACurrent != nil {
			eta := *ev.ETACurrent
			next.ETACurrent = &eta
		}
		m.classifier.Apply(next)

	case EventArrivalConfirmed:
		if next.CurrentPhase != shipment.PhaseMonitoring {
			return nil, shipment.NewInvalidTransitionError(next.ID, next.CurrentPhase, string(ev.Kind),
				"shipment is not in monitoring")
		}
		next.PhaseProgress[shipment.PhaseMonitoring] = shipment.ProgressDone
		next.PhaseProgress[shipment.PhaseArrival] = shipment.ProgressInProgress
		next.CurrentPhase = shipment.PhaseArrival

	case EventBillingTriggered:
		if next.CurrentPhase != shipment.PhaseArrival {
			return nil, shipment.NewInvalidTransitionError(next.ID, next.CurrentPhase, string(ev.Kind),
				"shipment is not in arrival")
		}
		next.PhaseProgress[shipment.PhaseArrival] = shipment.ProgressDone
		next.PhaseProgress[shipment.PhaseBilling] = shipment.ProgressInProgress
		next.CurrentPhase = shipment.PhaseBilling

	case EventBillingProcessed:
		if next.CurrentPhase != shipment.PhaseBilling {
			return nil, shipment.NewInvalidTransitionError(next.ID, next.CurrentPhase, string(ev.Kind),
				"shipment is not in billing")
		}
		if next.PhaseProgress[shipment.PhaseBilling] == shipment.ProgressDone {
			return nil, shipment.NewInvalidTransitionError(next.ID, next.CurrentPhase, string(ev.Kind),
				"shipment is already billed")
		}
		next.PhaseProgress[shipment.PhaseBilling] = shipment.ProgressDone

	default:
		return nil, shipment.NewValidationError("kind", "unknown event kind "+string(ev.Kind))
	}

	res.Shipment = next
	res.To = next.CurrentPhase
	res.PhaseChanged = res.From != res.To
	res.RiskChanged = prevRisk != next.MonitoringStatus

	return res, nil
}
