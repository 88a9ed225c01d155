package domain

// Language is a locale supported by a tenant.
type Language struct {
	ID         string `json:"id,omitempty"`
	LocaleCode string `json:"localeCode"`
	Name       string `json:"name"`
}

// LanguageTranslator configures the machine translator used for a language.
type LanguageTranslator struct {
	ID         string `json:"id,omitempty"`
	LocaleCode string `json:"localeCode"`
	Translator string `json:"translator"`
	Enabled    bool   `json:"enabled"`
}

// Translation is a single translated message in a language.
type Translation struct {
	ID         string `json:"id,omitempty"`
	LocaleCode string `json:"localeCode"`
	Key        string `json:"key"`
	Value      string `json:"value"`
}

// FieldValue names a document field and the value a write supplied for it.
type FieldValue struct {
	Field string
	Value string
}

// Kind describes a document type managed by the generic resource service.
// The three record types differ only in the values held here.
type Kind[T any] struct {
	// Table is the tenant table holding the documents.
	Table string
	// Name is used in messages, e.g. "Language".
	Name string
	// Fields lists the document fields a filter expression may reference.
	Fields []string

	// ReferenceField names the field pointing at a Language, empty if none.
	ReferenceField string

	ID     func(T) string
	WithID func(T, string) T
	// UniqueKey returns the fields of the record's unique key, in the order
	// they are reported on a uniqueness violation.
	UniqueKey func(T) []FieldValue
	// ReferenceValue returns the value of ReferenceField. Nil if the kind
	// has no reference.
	ReferenceValue func(T) string
}

// HasReference reports whether records of this kind reference a Language.
func (k Kind[T]) HasReference() bool {
	return k.ReferenceField != ""
}

var LanguageKind = Kind[Language]{
	Table:  "language",
	Name:   "Language",
	Fields: []string{"id", "localeCode", "name"},
	ID:     func(l Language) string { return l.ID },
	WithID: func(l Language, id string) Language {
		l.ID = id
		return l
	},
	UniqueKey: func(l Language) []FieldValue {
		return []FieldValue{{Field: "localeCode", Value: l.LocaleCode}}
	},
}

var LanguageTranslatorKind = Kind[LanguageTranslator]{
	Table:          "language_translator",
	Name:           "LanguageTranslator",
	Fields:         []string{"id", "localeCode", "translator", "enabled"},
	ReferenceField: "localeCode",
	ID:             func(t LanguageTranslator) string { return t.ID },
	WithID: func(t LanguageTranslator, id string) LanguageTranslator {
		t.ID = id
		return t
	},
	UniqueKey: func(t LanguageTranslator) []FieldValue {
		return []FieldValue{{Field: "localeCode", Value: t.LocaleCode}}
	},
	ReferenceValue: func(t LanguageTranslator) string { return t.LocaleCode },
}

// A translation key is unique per locale.
var TranslationKind = Kind[Translation]{
	Table:          "translation",
	Name:           "Translation",
	Fields:         []string{"id", "localeCode", "key", "value"},
	ReferenceField: "localeCode",
	ID:             func(t Translation) string { return t.ID },
	WithID: func(t Translation, id string) Translation {
		t.ID = id
		return t
	},
	UniqueKey: func(t Translation) []FieldValue {
		return []FieldValue{
			{Field: "localeCode", Value: t.LocaleCode},
			{Field: "key", Value: t.Key},
		}
	},
	ReferenceValue: func(t Translation) string { return t.LocaleCode },
}

// Page is a window of a filtered result set.
type Page[T any] struct {
	Items []T
	// TotalRecords counts every match of the filter, not just this window.
	TotalRecords int
}
