package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// CorrelationIDKey is the context key for the request correlation id
	CorrelationIDKey contextKey = "correlation_id"
	// UserIDKey is the context key for the authenticated user's external id
	UserIDKey contextKey = "user_id"
	// GatewayAccountIDKey is the context key for the gateway account id
	GatewayAccountIDKey contextKey = "gateway_account_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithCorrelationID adds the correlation id to context and returns an
// enriched logger
func WithCorrelationID(ctx context.Context, logger *zap.Logger, correlationID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, CorrelationIDKey, correlationID)
	enriched := logger.With(zap.String("correlation_id", correlationID))
	return WithContext(ctx, enriched), enriched
}

// WithUserID adds the user's external id to context and returns an enriched
// logger
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	enriched := logger.With(zap.String("user_id", userID))
	return WithContext(ctx, enriched), enriched
}

// WithGatewayAccountID adds the gateway account id to context and returns an
// enriched logger
func WithGatewayAccountID(ctx context.Context, logger *zap.Logger, gatewayAccountID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, GatewayAccountIDKey, gatewayAccountID)
	enriched := logger.With(zap.String("gateway_account_id", gatewayAccountID))
	return WithContext(ctx, enriched), enriched
}

// GetCorrelationID retrieves the correlation id from context
func GetCorrelationID(ctx context.Context) string {
	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return correlationID
	}
	return ""
}

// GetUserID retrieves the user's external id from context
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetGatewayAccountID retrieves the gateway account id from context
func GetGatewayAccountID(ctx context.Context) string {
	if gatewayAccountID, ok := ctx.Value(GatewayAccountIDKey).(string); ok {
		return gatewayAccountID
	}
	return ""
}

// GetTraceID extracts the trace ID from the context's span.
// Returns an empty string if no active span exists or trace is invalid.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// WithTraceContext adds trace_id and span_id to the logger from the
// context's span. If no valid span exists, returns the logger unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return logger
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return logger
	}

	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
