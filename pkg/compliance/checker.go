package compliance

import (
	"freightworks/meridian/pkg/shipment"
)

// Checker runs the rule evaluator against a shipment and applies the
// resulting compliance state: status, issue list, compliance-phase
// progress, and the phase pointer. It is the only component that moves
// the pointer between the intake/compliance/monitoring boundary.
type Checker struct {
	evaluator *Evaluator
}

// NewChecker creates a compliance checker backed by the given evaluator.
func NewChecker(evaluator *Evaluator) *Checker {
	if evaluator == nil {
		evaluator = NewEvaluator(nil)
	}
	return &Checker{evaluator: evaluator}
}

// RunCheck evaluates the full rule set against the shipment, mutates its
// compliance state, and returns it along with the violations found.
//
// A clean pass marks the compliance phase done and advances the phase
// pointer to monitoring when the shipment is still at intake or
// compliance; it never skips monitoring, arrival, or billing ahead of
// their own triggers. A failing pass forces the pointer back to
// compliance but never regresses progress already marked done. Re-running
// on an unchanged compliant shipment is a no-op.
//
// RunCheck cannot fail; callers must guarantee s is non-nil.
func (c *Checker) RunCheck(s *shipment.Shipment) (*shipment.Shipment, []Violation) {
	s.Normalize()

	violations := c.evaluator.Evaluate(s)
	s.ComplianceIssues = Messages(violations)

	if len(violations) == 0 {
		s.ComplianceStatus = shipment.ComplianceOK
		s.PhaseProgress[shipment.PhaseCompliance] = shipment.ProgressDone

		if s.CurrentPhase == shipment.PhaseIntake || s.CurrentPhase == shipment.PhaseCompliance {
			// Leaving intake behind implies its work is finished.
			s.PhaseProgress[shipment.PhaseIntake] = shipment.ProgressDone
			s.CurrentPhase = shipment.PhaseMonitoring
			if s.PhaseProgress[shipment.PhaseMonitoring] == shipment.ProgressPending {
				s.PhaseProgress[shipment.PhaseMonitoring] = shipment.ProgressInProgress
			}
		}
		return s, violations
	}

	s.ComplianceStatus = shipment.ComplianceIssues
	if s.PhaseProgress[shipment.PhaseCompliance] == shipment.ProgressPending {
		s.PhaseProgress[shipment.PhaseCompliance] = shipment.ProgressInProgress
	}
	// Re-checks regress only the phase pointer, never phase progress.
	s.CurrentPhase = shipment.PhaseCompliance

	return s, violations
}
