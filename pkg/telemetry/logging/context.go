package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ShipmentIDKey is the context key for shipment IDs.
	ShipmentIDKey contextKey = "shipment_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithShipmentID adds a shipment ID to the context.
func WithShipmentID(ctx context.Context, shipmentID string) context.Context {
	return context.WithValue(ctx, ShipmentIDKey, shipmentID)
}

// GetShipmentID retrieves the shipment ID from the context.
func GetShipmentID(ctx context.Context) string {
	if shipmentID, ok := ctx.Value(ShipmentIDKey).(string); ok {
		return shipmentID
	}
	return ""
}

// ContextFields extracts the known context fields as alternating
// key/value pairs suitable for slog calls.
func ContextFields(ctx context.Context) []any {
	var fields []any
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if shipmentID := GetShipmentID(ctx); shipmentID != "" {
		fields = append(fields, "shipment_id", shipmentID)
	}
	return fields
}
