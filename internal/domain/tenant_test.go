package domain_test

import (
	"errors"
	"testing"

	"github.com/folio-org/mod-translations/internal/domain"
)

func TestResolveTenant(t *testing.T) {
	cases := []struct {
		header   string
		fallback string
		want     string
	}{
		{"diku", "folio_shared", "diku"},
		{"", "folio_shared", "folio_shared"},
		{"tenant_2", "folio_shared", "tenant_2"},
	}

	for _, tc := range cases {
		got, err := domain.ResolveTenant(tc.header, tc.fallback)
		if err != nil {
			t.Fatalf("ResolveTenant(%q, %q): unexpected error: %v", tc.header, tc.fallback, err)
		}
		if got != tc.want {
			t.Errorf("ResolveTenant(%q, %q) = %q, want %q", tc.header, tc.fallback, got, tc.want)
		}
	}
}

func TestResolveTenant_Invalid(t *testing.T) {
	invalid := []string{"../etc", "Diku", "1tenant", "a b", "tenant.db"}

	for _, header := range invalid {
		_, err := domain.ResolveTenant(header, "folio_shared")
		var tErr *domain.InvalidTenantError
		if !errors.As(err, &tErr) {
			t.Errorf("ResolveTenant(%q): expected InvalidTenantError, got %v", header, err)
		}
	}
}

func TestKinds_WithIDDoesNotMutate(t *testing.T) {
	lang := domain.Language{LocaleCode: "en", Name: "English"}
	withID := domain.LanguageKind.WithID(lang, "id-1")

	if lang.ID != "" {
		t.Errorf("original ID = %q, want empty", lang.ID)
	}
	if got := domain.LanguageKind.ID(withID); got != "id-1" {
		t.Errorf("ID = %q, want %q", got, "id-1")
	}
}

func TestKinds_References(t *testing.T) {
	if domain.LanguageKind.HasReference() {
		t.Error("Language should not reference another record")
	}
	if !domain.LanguageTranslatorKind.HasReference() {
		t.Error("LanguageTranslator should reference a Language")
	}
	if !domain.TranslationKind.HasReference() {
		t.Error("Translation should reference a Language")
	}
}

func TestKinds_UniqueKey(t *testing.T) {
	translation := domain.Translation{LocaleCode: "en", Key: "hi", Value: "Hello"}
	got := domain.TranslationKind.UniqueKey(translation)
	want := []domain.FieldValue{{Field: "localeCode", Value: "en"}, {Field: "key", Value: "hi"}}
	if len(got) != len(want) {
		t.Fatalf("UniqueKey = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueKey[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	lang := domain.LanguageKind.UniqueKey(domain.Language{LocaleCode: "de"})
	if len(lang) != 1 || lang[0] != (domain.FieldValue{Field: "localeCode", Value: "de"}) {
		t.Errorf("Language UniqueKey = %+v", lang)
	}
}

func TestKinds_ReferenceValue(t *testing.T) {
	if domain.LanguageKind.ReferenceValue != nil {
		t.Error("Language should have no reference value")
	}
	if got := domain.TranslationKind.ReferenceValue(domain.Translation{LocaleCode: "fr", Key: "hi"}); got != "fr" {
		t.Errorf("Translation ReferenceValue = %q, want %q", got, "fr")
	}
	if got := domain.LanguageTranslatorKind.ReferenceValue(domain.LanguageTranslator{LocaleCode: "de"}); got != "de" {
		t.Errorf("LanguageTranslator ReferenceValue = %q, want %q", got, "de")
	}
}
