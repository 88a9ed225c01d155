package sqlite

import (
	"errors"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/folio-org/mod-translations/internal/domain"
)

// classify wraps constraint violations in a *domain.ConstraintError and
// returns any other error unchanged.
func classify(err error) error {
	if c, ok := constraintOf(err); ok {
		return &domain.ConstraintError{Constraint: c, Err: err}
	}
	return err
}

func constraintOf(err error) (domain.Constraint, bool) {
	var sErr *moderncsqlite.Error
	if errors.As(err, &sErr) {
		switch sErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.ConstraintPrimaryKey, true
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			if isIDColumn(err.Error()) {
				return domain.ConstraintPrimaryKey, true
			}
			return domain.ConstraintUnique, true
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.ConstraintReference, true
		}
	}

	// Drivers that only report the primary result code, and errors relayed
	// as text from other stores, are recognized by their message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "is not present in table"):
		return domain.ConstraintReference, true
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key value violates unique constraint"):
		if isIDColumn(msg) {
			return domain.ConstraintPrimaryKey, true
		}
		return domain.ConstraintUnique, true
	}
	return 0, false
}

// isIDColumn reports whether a SQLite uniqueness message names only the id
// column, e.g. "UNIQUE constraint failed: language.id".
func isIDColumn(msg string) bool {
	_, columns, ok := strings.Cut(msg, "constraint failed: ")
	if !ok {
		return false
	}
	columns, _, _ = strings.Cut(columns, " (")
	return strings.HasSuffix(strings.TrimSpace(columns), ".id") && !strings.Contains(columns, ",")
}
