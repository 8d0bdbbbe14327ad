package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"freightworks/meridian/pkg/ingest/dedup"
	"freightworks/meridian/pkg/lifecycle"
	"freightworks/meridian/pkg/shipment"
)

// Intake accepts inbound shipment records (parsed emails, manual entry,
// API submissions), deduplicates them, and drives them through creation
// and the first compliance check.
type Intake struct {
	engine *lifecycle.Engine
	dedup  dedup.Backend
	logger *slog.Logger
}

// NewIntake creates an intake service. A nil dedup backend disables
// deduplication.
func NewIntake(engine *lifecycle.Engine, dedupBackend dedup.Backend) *Intake {
	return &Intake{
		engine: engine,
		dedup:  dedupBackend,
		logger: slog.Default().With("component", "ingest.intake"),
	}
}

// Ingest validates and registers an inbound record. Records without an
// id get a generated one. Email records are deduplicated by message id:
// a repeated delivery returns created=false and no new shipment.
//
// On success the shipment has been created, moved out of intake, and
// run through its first compliance check.
func (i *Intake) Ingest(ctx context.Context, record *shipment.Shipment) (*shipment.Shipment, bool, error) {
	if record == nil {
		return nil, false, shipment.NewValidationError("shipment", "missing record")
	}

	record = record.Clone()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.Normalize()
	if err := record.Validate(); err != nil {
		return nil, false, err
	}

	key := i.dedupKey(record)
	if key != "" {
		seen, err := i.dedup.Seen(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if seen {
			i.logger.Info("Duplicate document skipped",
				"message_id", key,
				"shipment_id", record.ID)
			return nil, false, nil
		}
	}

	if err := i.engine.Create(ctx, record); err != nil {
		return nil, false, err
	}

	if _, err := i.engine.Apply(ctx, lifecycle.NewEvent(lifecycle.EventCreated, record.ID)); err != nil {
		return nil, false, err
	}
	res, err := i.engine.Apply(ctx, lifecycle.NewEvent(lifecycle.EventComplianceCheck, record.ID))
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if err := i.dedup.Remember(ctx, key, time.Now().UTC()); err != nil {
			// The shipment exists either way; a lost dedup entry only
			// risks a duplicate on redelivery.
			i.logger.Warn("Failed to record dedup key", "message_id", key, "error", err)
		}
	}

	i.logger.Info("Shipment ingested",
		"shipment_id", record.ID,
		"source", string(record.Source),
		"phase", string(res.Shipment.CurrentPhase),
		"compliance_status", string(res.Shipment.ComplianceStatus))
	return res.Shipment, true, nil
}

func (i *Intake) dedupKey(record *shipment.Shipment) string {
	if i.dedup == nil {
		return ""
	}
	if record.Source != shipment.SourceEmail || record.EmailMetadata == nil {
		return ""
	}
	return record.EmailMetadata.MessageID
}
