package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/folio-org/mod-translations/internal/domain"
)

// ResourceService implements the tenant-scoped CRUD operations for one
// record kind. It holds no per-request state.
type ResourceService[T any] struct {
	kind      domain.Kind[T]
	store     domain.Store[T]
	compiler  domain.QueryCompiler
	publisher domain.ChangePublisher
	usage     domain.UsageChecker
}

// Option customizes a ResourceService.
type Option[T any] func(*ResourceService[T])

// WithUsageCheck gates DeleteOne on the given checker.
func WithUsageCheck[T any](checker domain.UsageChecker) Option[T] {
	return func(s *ResourceService[T]) {
		s.usage = checker
	}
}

// NewResourceService creates a service with the given adapters.
func NewResourceService[T any](
	kind domain.Kind[T],
	store domain.Store[T],
	compiler domain.QueryCompiler,
	publisher domain.ChangePublisher,
	opts ...Option[T],
) *ResourceService[T] {
	s := &ResourceService[T]{
		kind:      kind,
		store:     store,
		compiler:  compiler,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the descriptor of the records this service manages.
func (s *ResourceService[T]) Kind() domain.Kind[T] {
	return s.kind
}

// List returns the window of records matching the filter expression.
func (s *ResourceService[T]) List(ctx context.Context, tenant string, filter domain.ListFilter) (domain.Page[T], error) {
	q, err := s.compiler.Compile(filter.Query, s.kind.Table, filter.Limit, filter.Offset)
	if err != nil {
		return domain.Page[T]{}, err
	}

	return s.store.List(ctx, tenant, q)
}

// Create persists a new record, assigning a random identifier when absent.
func (s *ResourceService[T]) Create(ctx context.Context, tenant string, record T) (T, error) {
	var zero T

	if s.kind.ID(record) == "" {
		id, err := generateID()
		if err != nil {
			return zero, fmt.Errorf("generating %s id: %w", s.kind.Table, err)
		}
		record = s.kind.WithID(record, id)
	}

	id, err := s.store.Create(ctx, tenant, record)
	if err != nil {
		return zero, s.classify(domain.OpCreate, err, record)
	}
	record = s.kind.WithID(record, id)

	s.publish(ctx, tenant, domain.ActionCreated, id)
	return record, nil
}

// Get returns the record with the given identifier.
func (s *ResourceService[T]) Get(ctx context.Context, tenant, id string) (T, error) {
	record, err := s.store.Get(ctx, tenant, id)
	if err != nil {
		var zero T
		if errors.Is(err, domain.ErrRecordNotFound) {
			return zero, &domain.NotFoundError{Kind: s.kind.Name, ID: id}
		}
		return zero, fmt.Errorf("getting %s: %w", s.kind.Table, err)
	}
	return record, nil
}

// Update replaces the record with the given identifier. The identifier of
// the payload is ignored; records are never rekeyed.
func (s *ResourceService[T]) Update(ctx context.Context, tenant, id string, record T) error {
	record = s.kind.WithID(record, id)

	n, err := s.store.Update(ctx, tenant, id, record)
	if err != nil {
		return s.classify(domain.OpUpdate, err, record)
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: s.kind.Name, ID: id}
	}

	s.publish(ctx, tenant, domain.ActionUpdated, id)
	return nil
}

// Delete removes the record with the given identifier. When a usage check
// is configured the delete runs only after the check reports the record unused.
func (s *ResourceService[T]) Delete(ctx context.Context, tenant, id string) error {
	if s.usage != nil {
		inUse, err := s.usage.InUse(ctx, tenant, id)
		if err != nil {
			return fmt.Errorf("checking %s usage: %w", s.kind.Table, err)
		}
		if inUse {
			return &domain.InUseError{Kind: s.kind.Name, ID: id, Op: domain.OpDelete}
		}
	}

	n, err := s.store.Delete(ctx, tenant, id)
	if err != nil {
		var cErr *domain.ConstraintError
		if errors.As(err, &cErr) && cErr.Constraint == domain.ConstraintReference {
			return &domain.InUseError{Kind: s.kind.Name, ID: id, Op: domain.OpDelete}
		}
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: s.kind.Name, ID: id}
	}

	s.publish(ctx, tenant, domain.ActionDeleted, id)
	return nil
}

// DeleteAll removes every record of this kind for the tenant.
func (s *ResourceService[T]) DeleteAll(ctx context.Context, tenant string) error {
	slog.InfoContext(ctx, "deleting all records", "table", s.kind.Table, "tenant", tenant)

	if err := s.store.DeleteAll(ctx, tenant); err != nil {
		return err
	}

	s.publish(ctx, tenant, domain.ActionPurged, "")
	return nil
}

// classify converts store constraint failures of a write into
// client-facing errors. Other store errors already name the table and are
// returned as is.
func (s *ResourceService[T]) classify(op string, err error, record T) error {
	var cErr *domain.ConstraintError
	if !errors.As(err, &cErr) {
		return err
	}

	switch cErr.Constraint {
	case domain.ConstraintPrimaryKey:
		return &domain.UniquenessError{
			Kind: s.kind.Name,
			Key:  []domain.FieldValue{{Field: "id", Value: s.kind.ID(record)}},
		}
	case domain.ConstraintUnique:
		return &domain.UniquenessError{Kind: s.kind.Name, Key: s.kind.UniqueKey(record)}
	case domain.ConstraintReference:
		if !s.kind.HasReference() {
			// Rekeying a Language that is still referenced.
			return &domain.InUseError{Kind: s.kind.Name, ID: s.kind.ID(record), Op: op}
		}
		return &domain.ReferenceError{Kind: s.kind.Name, Field: s.kind.ReferenceField, Value: s.kind.ReferenceValue(record)}
	default:
		return err
	}
}

// publish emits a change event. The mutation is already committed, so a
// publish failure is logged rather than returned.
func (s *ResourceService[T]) publish(ctx context.Context, tenant string, action domain.Action, id string) {
	change := domain.Change{
		Tenant:   tenant,
		Table:    s.kind.Table,
		Action:   action,
		RecordID: id,
	}
	if err := s.publisher.Publish(ctx, change); err != nil {
		slog.ErrorContext(ctx, "publishing change event",
			"table", change.Table,
			"tenant", tenant,
			"action", string(action),
			"record_id", id,
			"error", err,
		)
	}
}
