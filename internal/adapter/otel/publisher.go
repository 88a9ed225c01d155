package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/folio-org/mod-translations/internal/domain"
)

// TracingPublisher wraps a domain.ChangePublisher with OpenTelemetry tracing.
type TracingPublisher struct {
	next   domain.ChangePublisher
	tracer trace.Tracer
}

// Compile-time check: TracingPublisher implements domain.ChangePublisher.
var _ domain.ChangePublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.ChangePublisher) *TracingPublisher {
	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *TracingPublisher) Publish(ctx context.Context, change domain.Change) error {
	ctx, span := p.tracer.Start(ctx, "ChangePublisher.Publish",
		trace.WithAttributes(
			attribute.String("change.action", string(change.Action)),
			attribute.String("tenant.id", change.Tenant),
			attribute.String("record.table", change.Table),
			attribute.String("record.id", change.RecordID),
		),
	)
	defer span.End()

	err := p.next.Publish(ctx, change)
	if err != nil {
		recordError(span, err)
	}
	return err
}
