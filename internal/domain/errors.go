package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRecordNotFound is returned by a Store when no record has the requested id.
var ErrRecordNotFound = errors.New("record not found")

// Constraint enumerates the integrity constraints a Store can report.
type Constraint int

const (
	ConstraintPrimaryKey Constraint = iota + 1
	ConstraintUnique
	ConstraintReference
)

func (c Constraint) String() string {
	switch c {
	case ConstraintPrimaryKey:
		return "primary key"
	case ConstraintUnique:
		return "unique"
	case ConstraintReference:
		return "foreign key"
	default:
		return "unknown"
	}
}

// ConstraintError is returned by a Store when a write violates a constraint.
type ConstraintError struct {
	Constraint Constraint
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// QueryError is returned when a filter expression cannot be compiled.
type QueryError struct {
	Expression string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %v", e.Expression, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// UniquenessError is returned when a write duplicates a unique key. Key
// holds every field of the violated key.
type UniquenessError struct {
	Kind string
	Key  []FieldValue
}

func (e *UniquenessError) Error() string {
	parts := make([]string, len(e.Key))
	for i, fv := range e.Key {
		parts[i] = fmt.Sprintf("%s %q", fv.Field, fv.Value)
	}
	return fmt.Sprintf("%s with %s already exists", e.Kind, strings.Join(parts, " and "))
}

// ReferenceError is returned when a write references a missing Language.
type ReferenceError struct {
	Kind  string
	Field string
	Value string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %s %q: referenced Language does not exist", e.Kind, e.Field, e.Value)
}

// NotFoundError is returned when no record matches an id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s exists with id '%s'", e.Kind, e.ID)
}

// Write operations named in error messages.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// InUseError is returned when a record cannot be removed or rekeyed
// because other records reference it. Op is the refused operation.
type InUseError struct {
	Kind string
	ID   string
	Op   string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("Cannot %s %s, as it is in use", e.Op, e.Kind)
}

// InvalidTenantError is returned when a tenant header is malformed.
type InvalidTenantError struct {
	Tenant string
}

func (e *InvalidTenantError) Error() string {
	return fmt.Sprintf("invalid tenant %q", e.Tenant)
}
