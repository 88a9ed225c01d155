package domain_test

import (
	"errors"
	"testing"

	"github.com/folio-org/mod-translations/internal/domain"
)

func TestUniquenessError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *domain.UniquenessError
		want string
	}{
		{
			name: "single field",
			err:  &domain.UniquenessError{Kind: "Language", Key: []domain.FieldValue{{Field: "localeCode", Value: "en"}}},
			want: `Language with localeCode "en" already exists`,
		},
		{
			name: "composite key",
			err: &domain.UniquenessError{Kind: "Translation", Key: []domain.FieldValue{
				{Field: "localeCode", Value: "en"},
				{Field: "key", Value: "hi"},
			}},
			want: `Translation with localeCode "en" and key "hi" already exists`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotFoundError_Error(t *testing.T) {
	err := &domain.NotFoundError{Kind: "Translation", ID: "abc"}
	want := "No Translation exists with id 'abc'"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestInUseError_Error(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{domain.OpDelete, "Cannot delete Language, as it is in use"},
		{domain.OpUpdate, "Cannot update Language, as it is in use"},
	}

	for _, tt := range tests {
		err := &domain.InUseError{Kind: "Language", ID: "abc", Op: tt.op}
		if got := err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestQueryError_Unwrap(t *testing.T) {
	cause := errors.New("char 0: expected '{' got 'x'")
	err := &domain.QueryError{Expression: "x", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("QueryError should unwrap to its cause")
	}
}

func TestConstraintError_Unwrap(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: language.locale_code")
	var err error = &domain.ConstraintError{Constraint: domain.ConstraintUnique, Err: cause}

	var cErr *domain.ConstraintError
	if !errors.As(err, &cErr) {
		t.Fatal("expected ConstraintError")
	}
	if cErr.Constraint != domain.ConstraintUnique {
		t.Errorf("Constraint = %v, want %v", cErr.Constraint, domain.ConstraintUnique)
	}
	if !errors.Is(err, cause) {
		t.Error("ConstraintError should unwrap to its cause")
	}
}
