package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"freightworks/meridian/pkg/events"
	"freightworks/meridian/pkg/shipment"
	"freightworks/meridian/pkg/shipment/storage"
	"freightworks/meridian/pkg/telemetry/logging"
)

// Observer receives engine activity for metrics collection. Arguments
// are plain strings so observers stay decoupled from domain types.
type Observer interface {
	ObserveEvent(event, outcome string)
	ObserveTransition(from, to string)
	ObserveCompliance(result string, rules []string)
}

// NopObserver ignores all activity.
type NopObserver struct{}

func (NopObserver) ObserveEvent(event, outcome string)              {}
func (NopObserver) ObserveTransition(from, to string)               {}
func (NopObserver) ObserveCompliance(result string, rules []string) {}

const publishTimeout = 5 * time.Second

// Engine coordinates lifecycle event processing: it loads the shipment,
// applies the event through the state machine, persists the outcome,
// and publishes a note. Events for the same shipment are serialized;
// different shipments proceed concurrently.
type Engine struct {
	store     storage.Store
	machine   *Machine
	publisher events.Publisher
	observer  Observer
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	wg sync.WaitGroup
}

// NewEngine creates an engine over the given store. A nil publisher or
// observer falls back to a no-op implementation.
func NewEngine(store storage.Store, machine *Machine, publisher events.Publisher, observer Observer) *Engine {
	if machine == nil {
		machine = NewMachine(nil, nil)
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{
		store:     store,
		machine:   machine,
		publisher: publisher,
		observer:  observer,
		logger:    slog.Default().With("component", "lifecycle.engine"),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Create validates and persists a new shipment record in its initial
// state. The record must not already exist.
func (e *Engine) Create(ctx context.Context, record *shipment.Shipment) error {
	if record == nil {
		return shipment.NewValidationError("shipment", "missing record")
	}
	record.Normalize()
	if err := record.Validate(); err != nil {
		return err
	}

	lock := e.lockFor(record.ID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := e.store.Get(ctx, record.ID); err == nil {
		return shipment.NewValidationError("id", "shipment "+record.ID+" already exists")
	} else if !shipment.IsNotFound(err) {
		return err
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := e.store.Put(ctx, record); err != nil {
		return err
	}

	e.logger.Info("Shipment created",
		"shipment_id", record.ID,
		"source", string(record.Source))
	return nil
}

// Apply processes a single lifecycle event against the stored shipment.
// On success the updated record has been persisted and a note is
// published asynchronously.
func (e *Engine) Apply(ctx context.Context, ev Event) (*Result, error) {
	if ev.ShipmentID == "" {
		return nil, shipment.NewValidationError("shipment_id", "missing shipment id")
	}

	ctx = logging.WithShipmentID(ctx, ev.ShipmentID)

	lock := e.lockFor(ev.ShipmentID)
	lock.Lock()
	defer lock.Unlock()

	current, err := e.store.Get(ctx, ev.ShipmentID)
	if err != nil {
		e.observer.ObserveEvent(string(ev.Kind), "not_found")
		return nil, err
	}

	res, err := e.currentMachine().Apply(current, ev)
	if err != nil {
		e.observer.ObserveEvent(string(ev.Kind), "rejected")
		e.logger.Warn("Lifecycle event rejected", append([]any{
			"event", string(ev.Kind),
			"phase", string(current.CurrentPhase),
			"error", err,
		}, logging.ContextFields(ctx)...)...)
		return nil, err
	}

	res.Shipment.UpdatedAt = time.Now().UTC()
	if err := e.store.Put(ctx, res.Shipment); err != nil {
		e.observer.ObserveEvent(string(ev.Kind), "storage_error")
		return nil, err
	}

	e.observe(ev, res)
	e.publish(ev, res)

	e.logger.Info("Lifecycle event applied", append([]any{
		"event", string(ev.Kind),
		"from", string(res.From),
		"to", string(res.To),
	}, logging.ContextFields(ctx)...)...)
	return res, nil
}

// SetMachine swaps the state machine, e.g. after a config reload
// changed the watchlist or risk thresholds. In-flight events finish on
// the machine they started with.
func (e *Engine) SetMachine(m *Machine) {
	if m == nil {
		return
	}
	e.mu.Lock()
	e.machine = m
	e.mu.Unlock()
}

func (e *Engine) currentMachine() *Machine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine
}

// Get returns a copy of the stored shipment.
func (e *Engine) Get(ctx context.Context, id string) (*shipment.Shipment, error) {
	return e.store.Get(ctx, id)
}

// List returns the stored shipments matching the filter.
func (e *Engine) List(ctx context.Context, filter *storage.Filter) ([]*shipment.Shipment, error) {
	return e.store.List(ctx, filter)
}

// Close waits for in-flight publishes and closes the publisher.
func (e *Engine) Close() error {
	e.wg.Wait()
	return e.publisher.Close()
}

func (e *Engine) observe(ev Event, res *Result) {
	e.observer.ObserveEvent(string(ev.Kind), "applied")
	if res.PhaseChanged {
		e.observer.ObserveTransition(string(res.From), string(res.To))
	}
	if ev.Kind == EventComplianceCheck {
		rules := make([]string, 0, len(res.Violations))
		for _, v := range res.Violations {
			rules = append(rules, v.Rule)
		}
		e.observer.ObserveCompliance(string(res.Shipment.ComplianceStatus), rules)
	}
}

// publish emits notes without blocking the caller. A failed publish is
// logged by the publisher and dropped.
func (e *Engine) publish(ev Event, res *Result) {
	notes := e.notesFor(ev, res)
	if len(notes) == 0 {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		for _, note := range notes {
			_ = e.publisher.Publish(ctx, note)
		}
	}()
}

func (e *Engine) notesFor(ev Event, res *Result) []*events.Note {
	now := time.Now().UTC()
	var notes []*events.Note

	if res.PhaseChanged {
		notes = append(notes, &events.Note{
			Type:       events.NotePhaseChanged,
			ShipmentID: res.Shipment.ID,
			Phase:      string(res.To),
			FromPhase:  string(res.From),
			OccurredAt: now,
		})
	}
	if ev.Kind == EventComplianceCheck {
		notes = append(notes, &events.Note{
			Type:       events.NoteComplianceChecked,
			ShipmentID: res.Shipment.ID,
			Phase:      string(res.To),
			Status:     string(res.Shipment.ComplianceStatus),
			Issues:     res.Shipment.ComplianceIssues,
			OccurredAt: now,
		})
	}
	if res.RiskChanged {
		notes = append(notes, &events.Note{
			Type:       events.NoteRiskChanged,
			ShipmentID: res.Shipment.ID,
			Phase:      string(res.To),
			Status:     string(res.Shipment.MonitoringStatus),
			OccurredAt: now,
		})
	}
	return notes
}

func (e *Engine) lockFor(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[id] = lock
	}
	return lock
}
