package sqlite

import "github.com/folio-org/mod-translations/internal/domain"

// Table maps a record kind onto its tenant table. Besides the id and the
// JSON document, each table stores the key columns its constraints need.
type Table[T any] struct {
	Kind    domain.Kind[T]
	Columns []string
	Values  func(T) []any
}

var LanguageTable = Table[domain.Language]{
	Kind:    domain.LanguageKind,
	Columns: []string{"locale_code"},
	Values: func(l domain.Language) []any {
		return []any{l.LocaleCode}
	},
}

var LanguageTranslatorTable = Table[domain.LanguageTranslator]{
	Kind:    domain.LanguageTranslatorKind,
	Columns: []string{"locale_code", "translator"},
	Values: func(t domain.LanguageTranslator) []any {
		return []any{t.LocaleCode, t.Translator}
	},
}

var TranslationTable = Table[domain.Translation]{
	Kind:    domain.TranslationKind,
	Columns: []string{"locale_code", "translation_key"},
	Values: func(t domain.Translation) []any {
		return []any{t.LocaleCode, t.Key}
	},
}
