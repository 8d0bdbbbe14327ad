// Package events publishes shipment lifecycle notes to downstream
// consumers. The Kafka publisher keys messages by shipment id; the nop
// publisher serves deployments without an event stream.
package events
