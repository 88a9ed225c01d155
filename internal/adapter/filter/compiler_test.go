package filter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-org/mod-translations/internal/adapter/filter"
	"github.com/folio-org/mod-translations/internal/domain"
)

func newCompiler() *filter.Compiler {
	return filter.New().
		Register(domain.LanguageKind.Table, domain.LanguageKind.Fields...).
		Register(domain.TranslationKind.Table, domain.TranslationKind.Fields...)
}

func TestCompile_Valid(t *testing.T) {
	cases := []string{
		``,
		`{}`,
		`{localeCode: "en"}`,
		`{localeCode: "en", name: "English"}`,
		`{$or: [{localeCode: "en"}, {localeCode: "fr"}]}`,
		`{localeCode: {$in: ["en", "fr"]}}`,
		`{name: {$regex: "^Eng"}}`,
		`{name: {$exists: true}}`,
		`{id: {$ne: "abc"}}`,
	}

	c := newCompiler()
	for _, expr := range cases {
		q, err := c.Compile(expr, "language", 10, 0)
		require.NoError(t, err, "expression %q", expr)
		assert.Equal(t, 10, q.Limit)
		assert.Equal(t, 0, q.Offset)
	}
}

func TestCompile_EmptyMatchesAll(t *testing.T) {
	q, err := newCompiler().Compile("", "language", 5, 2)
	require.NoError(t, err)

	assert.Empty(t, q.Predicate)
	assert.True(t, q.Predicate.Match(map[string]interface{}{"localeCode": "en"}))
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 2, q.Offset)
}

func TestCompile_QueryErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":           `{localeCode: `,
		"not an object":       `localeCode=en`,
		"unknown field":       `{translator: "google"}`,
		"unknown nested":      `{$and: [{localeCode: "en"}, {bogus: 1}]}`,
		"invalid regex":       `{name: {$regex: "("}}`,
		"misplaced operator":  `{$in: ["en"]}`,
		"trailing characters": `{localeCode: "en"} x`,
	}

	c := newCompiler()
	for name, expr := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Compile(expr, "language", 10, 0)
			var qErr *domain.QueryError
			require.True(t, errors.As(err, &qErr), "expected QueryError, got %v", err)
			assert.Equal(t, expr, qErr.Expression)
		})
	}
}

func TestCompile_FieldsArePerTable(t *testing.T) {
	c := newCompiler()

	_, err := c.Compile(`{key: "hello"}`, "translation", 10, 0)
	require.NoError(t, err)

	_, err = c.Compile(`{key: "hello"}`, "language", 10, 0)
	var qErr *domain.QueryError
	assert.True(t, errors.As(err, &qErr))
}

func TestCompile_NegativeWindow(t *testing.T) {
	c := newCompiler()

	_, err := c.Compile("", "language", -1, 0)
	var qErr *domain.QueryError
	assert.True(t, errors.As(err, &qErr))

	_, err = c.Compile("", "language", 10, -5)
	assert.True(t, errors.As(err, &qErr))
}

func TestCompile_UnknownTable(t *testing.T) {
	_, err := newCompiler().Compile("", "missing", 10, 0)
	require.Error(t, err)

	var qErr *domain.QueryError
	assert.False(t, errors.As(err, &qErr), "unknown table is a programming error, not a query error")
}
