package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/folio-org/mod-translations/internal/domain"
)

const tracerName = "github.com/folio-org/mod-translations/internal/adapter/otel"

// TracingStore wraps a domain.Store with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingStore[T any] struct {
	next   domain.Store[T]
	kind   domain.Kind[T]
	tracer trace.Tracer
}

// Compile-time check: TracingStore implements domain.Store.
var _ domain.Store[domain.Language] = (*TracingStore[domain.Language])(nil)

// NewTracingStore creates a tracing decorator around the store of kind.
func NewTracingStore[T any](kind domain.Kind[T], next domain.Store[T]) *TracingStore[T] {
	return &TracingStore[T]{
		next:   next,
		kind:   kind,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *TracingStore[T]) start(ctx context.Context, op, tenant string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("tenant.id", tenant),
		attribute.String("record.table", s.kind.Table),
	)
	return s.tracer.Start(ctx, s.kind.Name+"Store."+op, trace.WithAttributes(attrs...))
}

func (s *TracingStore[T]) List(ctx context.Context, tenant string, q domain.Query) (domain.Page[T], error) {
	ctx, span := s.start(ctx, "List", tenant,
		attribute.Int("query.limit", q.Limit),
		attribute.Int("query.offset", q.Offset),
	)
	defer span.End()

	if len(q.Predicate) > 0 {
		span.SetAttributes(attribute.String("query.predicate", q.Predicate.String()))
	}

	page, err := s.next.List(ctx, tenant, q)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(
			attribute.Int("result.count", len(page.Items)),
			attribute.Int("result.total", page.TotalRecords),
		)
	}
	return page, err
}

func (s *TracingStore[T]) Get(ctx context.Context, tenant, id string) (T, error) {
	ctx, span := s.start(ctx, "Get", tenant, attribute.String("record.id", id))
	defer span.End()

	record, err := s.next.Get(ctx, tenant, id)
	if err != nil {
		recordError(span, err)
	}
	return record, err
}

func (s *TracingStore[T]) Create(ctx context.Context, tenant string, record T) (string, error) {
	ctx, span := s.start(ctx, "Create", tenant, attribute.String("record.id", s.kind.ID(record)))
	defer span.End()

	id, err := s.next.Create(ctx, tenant, record)
	if err != nil {
		recordError(span, err)
	}
	return id, err
}

func (s *TracingStore[T]) Update(ctx context.Context, tenant, id string, record T) (int64, error) {
	ctx, span := s.start(ctx, "Update", tenant, attribute.String("record.id", id))
	defer span.End()

	n, err := s.next.Update(ctx, tenant, id, record)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int64("result.rows", n))
	}
	return n, err
}

func (s *TracingStore[T]) Delete(ctx context.Context, tenant, id string) (int64, error) {
	ctx, span := s.start(ctx, "Delete", tenant, attribute.String("record.id", id))
	defer span.End()

	n, err := s.next.Delete(ctx, tenant, id)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int64("result.rows", n))
	}
	return n, err
}

func (s *TracingStore[T]) DeleteAll(ctx context.Context, tenant string) error {
	ctx, span := s.start(ctx, "DeleteAll", tenant)
	defer span.End()

	err := s.next.DeleteAll(ctx, tenant)
	if err != nil {
		recordError(span, err)
	}
	return err
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
