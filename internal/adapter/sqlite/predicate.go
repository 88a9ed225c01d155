package sqlite

import (
	"database/sql/driver"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/rest-layer/schema/query"
	moderncsqlite "modernc.org/sqlite"
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

func init() {
	// X REGEXP Y calls regexp(Y, X).
	moderncsqlite.MustRegisterDeterministicScalarFunction("regexp", 2, sqlRegexp)
}

// regexpCacheSize bounds the compiled patterns kept across queries.
const regexpCacheSize = 256

var regexpCache = mustRegexpCache(regexpCacheSize)

func mustRegexpCache(size int) *lru.Cache[string, *regexp.Regexp] {
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(err)
	}
	return cache
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := regexpCache.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexpCache.Add(pattern, re)
	return re, nil
}

func sqlRegexp(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("regexp: pattern must be text")
	}
	value, ok := args[1].(string)
	if !ok {
		return int64(0), nil
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("regexp: %w", err)
	}
	if re.MatchString(value) {
		return int64(1), nil
	}
	return int64(0), nil
}

// column returns the SQL expression reading a document field.
func column(field string) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("invalid field name %q", field)
	}
	if field == "id" {
		return "id", nil
	}
	return "json_extract(jsonb, '$." + field + "')", nil
}

func jsonPath(field string) string {
	return "$." + field
}

// translate turns a predicate into a WHERE clause. It returns nil for an
// empty predicate.
func translate(pred query.Predicate) (sq.Sqlizer, error) {
	if len(pred) == 0 {
		return nil, nil
	}
	return translateAll(pred, func(parts []sq.Sqlizer) sq.Sqlizer { return sq.And(parts) })
}

func translateAll(exps []query.Expression, join func([]sq.Sqlizer) sq.Sqlizer) (sq.Sqlizer, error) {
	parts := make([]sq.Sqlizer, 0, len(exps))
	for _, exp := range exps {
		part, err := translateExpression(exp)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return join(parts), nil
}

func translateExpression(exp query.Expression) (sq.Sqlizer, error) {
	switch e := exp.(type) {
	case *query.And:
		return translateAll(*e, func(parts []sq.Sqlizer) sq.Sqlizer { return sq.And(parts) })
	case *query.Or:
		return translateAll(*e, func(parts []sq.Sqlizer) sq.Sqlizer { return sq.Or(parts) })
	case *query.Equal:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.Eq{col: sqlValue(e.Value)}, nil
	case *query.NotEqual:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		if e.Value == nil {
			return sq.NotEq{col: nil}, nil
		}
		// Documents lacking the field do not equal the value either.
		return sq.Or{sq.NotEq{col: sqlValue(e.Value)}, sq.Eq{col: nil}}, nil
	case *query.In:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.Eq{col: sqlValues(e.Values)}, nil
	case *query.NotIn:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.Or{sq.NotEq{col: sqlValues(e.Values)}, sq.Eq{col: nil}}, nil
	case *query.Exist:
		if !fieldPattern.MatchString(e.Field) {
			return nil, fmt.Errorf("invalid field name %q", e.Field)
		}
		return sq.Expr("json_type(jsonb, ?) IS NOT NULL", jsonPath(e.Field)), nil
	case *query.NotExist:
		if !fieldPattern.MatchString(e.Field) {
			return nil, fmt.Errorf("invalid field name %q", e.Field)
		}
		return sq.Expr("json_type(jsonb, ?) IS NULL", jsonPath(e.Field)), nil
	case *query.GreaterThan:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.Gt{col: e.Value}, nil
	case *query.GreaterOrEqual:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.GtOrEq{col: e.Value}, nil
	case *query.LowerThan:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.Lt{col: e.Value}, nil
	case *query.LowerOrEqual:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.LtOrEq{col: e.Value}, nil
	case *query.Regex:
		col, err := column(e.Field)
		if err != nil {
			return nil, err
		}
		return sq.Expr(col+" REGEXP ?", e.Value.String()), nil
	default:
		return nil, fmt.Errorf("unsupported expression %s", exp)
	}
}

// sqlValue maps parsed JSON values onto what json_extract returns.
func sqlValue(v query.Value) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func sqlValues(values []query.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = sqlValue(v)
	}
	return out
}
