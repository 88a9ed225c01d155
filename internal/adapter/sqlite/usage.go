package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/folio-org/mod-translations/internal/domain"
)

// Compile-time check: ReferenceChecker implements domain.UsageChecker.
var _ domain.UsageChecker = (*ReferenceChecker)(nil)

// ReferenceChecker reports a parent record as in use while any dependent
// table holds a row whose key column matches the parent's.
type ReferenceChecker struct {
	tenants    *Tenants
	parent     string
	key        string
	dependents []string
}

// NewLanguageUsage checks the translator and translation tables for rows
// referencing a Language's locale code.
func NewLanguageUsage(tenants *Tenants) *ReferenceChecker {
	return &ReferenceChecker{
		tenants: tenants,
		parent:  domain.LanguageKind.Table,
		key:     "locale_code",
		dependents: []string{
			domain.LanguageTranslatorKind.Table,
			domain.TranslationKind.Table,
		},
	}
}

func (c *ReferenceChecker) InUse(ctx context.Context, tenant, id string) (bool, error) {
	db, err := c.tenants.DB(ctx, tenant)
	if err != nil {
		return false, err
	}

	for _, dep := range c.dependents {
		query, args, err := sq.Select("1").
			From(c.parent + " p").
			Join(fmt.Sprintf("%s d ON d.%s = p.%s", dep, c.key, c.key)).
			Where(sq.Eq{"p.id": id}).
			Limit(1).
			ToSql()
		if err != nil {
			return false, fmt.Errorf("building usage query: %w", err)
		}

		var one int
		err = db.QueryRowContext(ctx, query, args...).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("checking %s references: %w", dep, err)
		}
		return true, nil
	}

	return false, nil
}
