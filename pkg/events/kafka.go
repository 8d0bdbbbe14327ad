package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the publisher needs. Tests
// inject a recording implementation.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig contains configuration for the Kafka event stream.
type KafkaConfig struct {
	// Brokers lists the Kafka broker addresses.
	Brokers []string

	// Topic is the topic lifecycle notes are published to.
	// Default: shipment.lifecycle
	Topic string
}

// ApplyDefaults fills in default values for unset fields.
func (c *KafkaConfig) ApplyDefaults() {
	if c.Topic == "" {
		c.Topic = "shipment.lifecycle"
	}
}

// KafkaPublisher publishes lifecycle notes to a Kafka topic. The
// shipment id is used as the message key so notes for one shipment
// land on one partition in order.
type KafkaPublisher struct {
	writer Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to the configured
// brokers and topic.
func NewKafkaPublisher(config *KafkaConfig) (*KafkaPublisher, error) {
	if config == nil || len(config.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	config.ApplyDefaults()

	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Topic:    config.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return newKafkaPublisher(writer), nil
}

// NewKafkaPublisherWithWriter creates a publisher over an injected
// writer.
func NewKafkaPublisherWithWriter(writer Writer) *KafkaPublisher {
	return newKafkaPublisher(writer)
}

func newKafkaPublisher(writer Writer) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: slog.Default().With("component", "events.kafka"),
	}
}

// Publish marshals the note to JSON and writes it keyed by shipment id.
func (p *KafkaPublisher) Publish(ctx context.Context, note *Note) error {
	if note == nil {
		return fmt.Errorf("nil note")
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshaling note: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(note.ShipmentID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("Kafka publish failed",
			"type", note.Type,
			"shipment_id", note.ShipmentID,
			"error", err)
		return fmt.Errorf("writing kafka message: %w", err)
	}

	p.logger.Debug("Published lifecycle note",
		"type", note.Type,
		"shipment_id", note.ShipmentID)
	return nil
}

// Close shuts down the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
