package shipment

import (
	"time"
)

// Phase represents one of the five sequential lifecycle phases a shipment
// passes through. Phases advance strictly forward; the engine never regresses
// a phase whose progress is already done.
type Phase string

const (
	// PhaseIntake is the initial phase, entered on creation.
	PhaseIntake Phase = "intake"
	// PhaseCompliance is the regulatory validation phase.
	PhaseCompliance Phase = "compliance"
	// PhaseMonitoring is the in-transit risk monitoring phase.
	PhaseMonitoring Phase = "monitoring"
	// PhaseArrival is entered on an explicit arrival confirmation.
	PhaseArrival Phase = "arrival"
	// PhaseBilling is the terminal phase.
	PhaseBilling Phase = "billing"
)

// phaseOrder is the canonical phase sequence.
var phaseOrder = []Phase{PhaseIntake, PhaseCompliance, PhaseMonitoring, PhaseArrival, PhaseBilling}

// Phases returns the five canonical phases in lifecycle order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// Index returns the position of the phase in the lifecycle order,
// or -1 for an unknown phase.
func (p Phase) Index() int {
	for i, ph := range phaseOrder {
		if ph == p {
			return i
		}
	}
	return -1
}

// Valid reports whether the phase is one of the five canonical phases.
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// Progress represents the sub-state of a single phase. Progress moves
// strictly forward: pending → in_progress → done.
type Progress string

const (
	ProgressPending    Progress = "pending"
	ProgressInProgress Progress = "in_progress"
	ProgressDone       Progress = "done"
)

// rank orders progress sub-states for forward-only enforcement.
func (p Progress) rank() int {
	switch p {
	case ProgressPending:
		return 0
	case ProgressInProgress:
		return 1
	case ProgressDone:
		return 2
	default:
		return -1
	}
}

// AtLeast reports whether the progress is at or beyond the given sub-state.
func (p Progress) AtLeast(other Progress) bool {
	return p.rank() >= other.rank()
}

// ComplianceStatus is the outcome of the most recent compliance check.
type ComplianceStatus string

const (
	CompliancePending ComplianceStatus = "pending"
	ComplianceOK      ComplianceStatus = "ok"
	ComplianceIssues  ComplianceStatus = "issues"
	ComplianceFlagged ComplianceStatus = "flagged"
)

// MonitoringStatus is the coarse delivery-risk label derived from ETA
// variance. It is unset until the shipment enters the monitoring phase.
type MonitoringStatus string

const (
	MonitoringUnset   MonitoringStatus = "unset"
	MonitoringOnTrack MonitoringStatus = "on_track"
	MonitoringEarly   MonitoringStatus = "early"
	MonitoringAtRisk  MonitoringStatus = "at_risk"
)

// Source marks the provenance of a shipment record.
type Source string

const (
	SourceEmail  Source = "email"
	SourceManual Source = "manual"
	SourceAPI    Source = "api"
)

// EmailMetadata carries the intake metadata extracted by the document
// ingestion collaborator. Present only when Source is SourceEmail.
type EmailMetadata struct {
	MessageID  string    `json:"message_id"`
	Subject    string    `json:"subject,omitempty"`
	Sender     string    `json:"sender,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Shipment is the central entity tracked by the lifecycle engine. It is
// mutated exclusively through the lifecycle engine; all other consumers
// (aggregator, exporters, HTTP handlers) operate on snapshots.
type Shipment struct {
	// Identity
	ID          string `json:"id"`                     // unique, immutable after creation
	ContainerNo string `json:"container_no,omitempty"` // display key

	// Lifecycle state
	CurrentPhase  Phase              `json:"current_phase"`
	PhaseProgress map[Phase]Progress `json:"phase_progress"` // always exactly the five canonical keys

	// Compliance
	ComplianceStatus ComplianceStatus `json:"compliance_status"`
	ComplianceIssues []string         `json:"compliance_issues"` // empty iff status is ok

	// Monitoring
	MonitoringStatus MonitoringStatus `json:"monitoring_status"`
	ETAPlanned       *time.Time       `json:"eta_planned,omitempty"`
	ETACurrent       *time.Time       `json:"eta_current,omitempty"`
	ETAVarianceHours float64          `json:"eta_variance_hours"` // etaCurrent - etaPlanned, signed hours

	// Business attributes consumed by the rule set
	Shipper      string     `json:"shipper,omitempty"`
	Consignee    string     `json:"consignee,omitempty"`
	HSCode       string     `json:"hs_code,omitempty"`
	Commodity    string     `json:"commodity,omitempty"`
	Port         string     `json:"port,omitempty"`
	Destination  string     `json:"destination,omitempty"`
	ETA          *time.Time `json:"eta,omitempty"`
	ArrivalDate  *time.Time `json:"arrival_date,omitempty"`
	PromisedDate *time.Time `json:"promised_date,omitempty"`

	// Fleet KPI inputs
	CostSaved   *float64 `json:"cost_saved,omitempty"`
	GrossMargin *float64 `json:"gross_margin,omitempty"`

	// Provenance
	Source        Source         `json:"source"`
	EmailMetadata *EmailMetadata `json:"email_metadata,omitempty"`

	// Version is bumped by the store on every write. Used for optimistic
	// conflict detection by callers that need it.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a shipment in its initial state: current phase intake, all
// five progress entries pending, compliance pending, monitoring unset.
func New(id string) *Shipment {
	now := time.Now().UTC()
	s := &Shipment{
		ID:               id,
		CurrentPhase:     PhaseIntake,
		PhaseProgress:    emptyProgress(),
		ComplianceStatus: CompliancePending,
		ComplianceIssues: []string{},
		MonitoringStatus: MonitoringUnset,
		Source:           SourceManual,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return s
}

// emptyProgress returns a progress map with all five canonical keys pending.
func emptyProgress() map[Phase]Progress {
	m := make(map[Phase]Progress, len(phaseOrder))
	for _, p := range phaseOrder {
		m[p] = ProgressPending
	}
	return m
}

// Normalize restores the structural invariants of the record: the progress
// map contains exactly the five canonical keys, status enums default to
// their zero labels, the issues slice is non-nil, and the ETA variance is
// recomputed from the current ETA pair. Safe to call repeatedly.
func (s *Shipment) Normalize() {
	if s.PhaseProgress == nil {
		s.PhaseProgress = emptyProgress()
	} else {
		for _, p := range phaseOrder {
			if _, ok := s.PhaseProgress[p]; !ok {
				s.PhaseProgress[p] = ProgressPending
			}
		}
		for k := range s.PhaseProgress {
			if !k.Valid() {
				delete(s.PhaseProgress, k)
			}
		}
	}
	if !s.CurrentPhase.Valid() {
		s.CurrentPhase = PhaseIntake
	}
	if s.ComplianceStatus == "" {
		s.ComplianceStatus = CompliancePending
	}
	if s.ComplianceIssues == nil {
		s.ComplianceIssues = []string{}
	}
	if s.MonitoringStatus == "" {
		s.MonitoringStatus = MonitoringUnset
	}
	if s.Source == "" {
		s.Source = SourceManual
	}
	s.ETAVarianceHours = s.varianceHours()
}

// varianceHours computes etaCurrent - etaPlanned in hours, or 0 when either
// timestamp is missing.
func (s *Shipment) varianceHours() float64 {
	if s.ETAPlanned == nil || s.ETACurrent == nil {
		return 0
	}
	return s.ETACurrent.Sub(*s.ETAPlanned).Hours()
}

// HasETAVariance reports whether both planned and current ETA are present.
func (s *Shipment) HasETAVariance() bool {
	return s.ETAPlanned != nil && s.ETACurrent != nil
}

// Completed reports whether the shipment has reached its terminal state:
// billing phase with billing progress done.
func (s *Shipment) Completed() bool {
	return s.CurrentPhase == PhaseBilling && s.PhaseProgress[PhaseBilling] == ProgressDone
}

// Validate checks the structural validity of an inbound record before it
// enters the lifecycle. A record with no id is rejected; unknown enum
// values are rejected rather than silently coerced.
func (s *Shipment) Validate() error {
	if s == nil {
		return NewValidationError("shipment", "record is nil")
	}
	if s.ID == "" {
		return NewValidationError("id", "missing shipment id")
	}
	if s.CurrentPhase != "" && !s.CurrentPhase.Valid() {
		return NewValidationError("current_phase", "unknown phase "+string(s.CurrentPhase))
	}
	switch s.Source {
	case "", SourceEmail, SourceManual, SourceAPI:
	default:
		return NewValidationError("source", "unknown source "+string(s.Source))
	}
	if s.Source == SourceEmail && s.EmailMetadata == nil {
		return NewValidationError("email_metadata", "email-sourced shipment is missing email metadata")
	}
	return nil
}

// Clone returns a deep copy of the shipment. Stores and the aggregator use
// clones so that readers never observe a record mid-transition.
func (s *Shipment) Clone() *Shipment {
	if s == nil {
		return nil
	}
	cp := *s

	cp.PhaseProgress = make(map[Phase]Progress, len(s.PhaseProgress))
	for k, v := range s.PhaseProgress {
		cp.PhaseProgress[k] = v
	}

	cp.ComplianceIssues = make([]string, len(s.ComplianceIssues))
	copy(cp.ComplianceIssues, s.ComplianceIssues)

	cp.ETAPlanned = cloneTime(s.ETAPlanned)
	cp.ETACurrent = cloneTime(s.ETACurrent)
	cp.ETA = cloneTime(s.ETA)
	cp.ArrivalDate = cloneTime(s.ArrivalDate)
	cp.PromisedDate = cloneTime(s.PromisedDate)
	cp.CostSaved = cloneFloat(s.CostSaved)
	cp.GrossMargin = cloneFloat(s.GrossMargin)

	if s.EmailMetadata != nil {
		meta := *s.EmailMetadata
		cp.EmailMetadata = &meta
	}

	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
