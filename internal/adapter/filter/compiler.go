// Package filter compiles list filter expressions with the rest-layer query
// language, e.g. {localeCode: "en", name: {$regex: "^Eng"}}.
package filter

import (
	"errors"
	"fmt"

	"github.com/rs/rest-layer/schema/query"

	"github.com/folio-org/mod-translations/internal/domain"
)

// Compile-time check: Compiler implements domain.QueryCompiler.
var _ domain.QueryCompiler = (*Compiler)(nil)

// Compiler parses filter expressions and restricts them to the fields
// registered for each table.
type Compiler struct {
	fields map[string]map[string]bool
}

// New creates a compiler with no registered tables.
func New() *Compiler {
	return &Compiler{fields: make(map[string]map[string]bool)}
}

// Register allows filtering table on the given document fields.
func (c *Compiler) Register(table string, fields ...string) *Compiler {
	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}
	c.fields[table] = allowed
	return c
}

// Compile parses expression into a windowed query against table. An empty
// expression matches every record.
func (c *Compiler) Compile(expression, table string, limit, offset int) (domain.Query, error) {
	allowed, ok := c.fields[table]
	if !ok {
		return domain.Query{}, fmt.Errorf("filter: unknown table %q", table)
	}
	if limit < 0 || offset < 0 {
		return domain.Query{}, &domain.QueryError{
			Expression: expression,
			Err:        fmt.Errorf("invalid window: offset %d, limit %d", offset, limit),
		}
	}

	pred, err := query.ParsePredicate(expression)
	if err != nil {
		return domain.Query{}, &domain.QueryError{Expression: expression, Err: err}
	}
	if err := checkFields(pred, allowed); err != nil {
		return domain.Query{}, &domain.QueryError{Expression: expression, Err: err}
	}

	return domain.Query{Predicate: pred, Offset: offset, Limit: limit}, nil
}

var errUnsupported = errors.New("unsupported operator")

func checkFields(exps []query.Expression, allowed map[string]bool) error {
	for _, exp := range exps {
		if err := checkExpression(exp, allowed); err != nil {
			return err
		}
	}
	return nil
}

func checkExpression(exp query.Expression, allowed map[string]bool) error {
	switch e := exp.(type) {
	case *query.And:
		return checkFields(*e, allowed)
	case *query.Or:
		return checkFields(*e, allowed)
	}

	field, ok := fieldOf(exp)
	if !ok {
		return fmt.Errorf("%s: %w", exp, errUnsupported)
	}
	if !allowed[field] {
		return fmt.Errorf("%s: unknown query field", field)
	}
	return nil
}

// fieldOf returns the document field a leaf expression tests.
func fieldOf(exp query.Expression) (string, bool) {
	switch e := exp.(type) {
	case *query.Equal:
		return e.Field, true
	case *query.NotEqual:
		return e.Field, true
	case *query.In:
		return e.Field, true
	case *query.NotIn:
		return e.Field, true
	case *query.Exist:
		return e.Field, true
	case *query.NotExist:
		return e.Field, true
	case *query.GreaterThan:
		return e.Field, true
	case *query.GreaterOrEqual:
		return e.Field, true
	case *query.LowerThan:
		return e.Field, true
	case *query.LowerOrEqual:
		return e.Field, true
	case *query.Regex:
		return e.Field, true
	default:
		return "", false
	}
}
