package domain

import (
	"context"

	"github.com/rs/rest-layer/schema/query"
)

// Store defines the tenant-scoped persistence contract for one record kind.
// Writes report constraint violations as *ConstraintError.
type Store[T any] interface {
	List(ctx context.Context, tenant string, q Query) (Page[T], error)
	// Get returns ErrRecordNotFound when no record has the id.
	Get(ctx context.Context, tenant, id string) (T, error)
	// Create returns the identifier the store recorded.
	Create(ctx context.Context, tenant string, record T) (string, error)
	// Update replaces the document with the given id and returns the number
	// of rows it changed.
	Update(ctx context.Context, tenant, id string, record T) (int64, error)
	Delete(ctx context.Context, tenant, id string) (int64, error)
	DeleteAll(ctx context.Context, tenant string) error
}

// ListFilter holds the raw list parameters of a request.
type ListFilter struct {
	Query  string
	Offset int
	Limit  int
}

// Query is a compiled, windowed filter.
type Query struct {
	Predicate query.Predicate
	Offset    int
	Limit     int
}

// QueryCompiler turns a filter expression into a Query for a table.
// Failures are reported as *QueryError.
type QueryCompiler interface {
	Compile(expression, table string, limit, offset int) (Query, error)
}

// UsageChecker reports whether other records depend on the record with id.
type UsageChecker interface {
	InUse(ctx context.Context, tenant, id string) (bool, error)
}

// Action is the kind of change applied to a record.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionPurged  Action = "purged"
)

// Change describes a committed mutation. RecordID is empty for ActionPurged.
type Change struct {
	Tenant   string
	Table    string
	Action   Action
	RecordID string
}

// ChangePublisher defines the contract for emitting change events.
type ChangePublisher interface {
	Publish(ctx context.Context, change Change) error
}
