package extractor

import "regexp"

// Rules is the fixed rule table of the extraction engine: ordered pattern
// lists with first-match-wins semantics plus keyword sets. It is built once
// and never mutated; substituting a custom table in tests is the supported
// way to tweak behavior.
type Rules struct {
	// CodePatterns are tried in priority order, most specific first, so a
	// full dash-joined code ("A001-2024") beats the shorter prefix a later
	// pattern would settle for.
	CodePatterns []*regexp.Regexp

	// QuantityPatterns cover unit-suffixed amounts, case-insensitive.
	QuantityPatterns []*regexp.Regexp
	// TrailingNumber catches a bare number at the end of a line when no
	// unit survived recognition; DefaultUnit is appended to it.
	TrailingNumber *regexp.Regexp
	DefaultUnit    string

	// HeaderKeywords mark free-text lines that are table headers or section
	// titles rather than data.
	HeaderKeywords []string
	// TableHeaderKeywords detect the header row of a cell grid; a row
	// containing at least two of them wins.
	TableHeaderKeywords []string
	// ProductKeywords accept a line with neither code nor quantity when it
	// still reads like product vocabulary.
	ProductKeywords []string

	// Column probes classify header cells into roles, left to right.
	CodeColumnProbes     []string
	NameColumnProbes     []string
	QuantityColumnProbes []string
}

// DefaultRules returns the rule table for fastener/hardware catalogs with
// Russian headers and units.
func DefaultRules() Rules {
	return Rules{
		CodePatterns: []*regexp.Regexp{
			regexp.MustCompile(`[A-Za-z]{1,3}\d{2,4}[-_][A-Za-z0-9]{1,6}`), // A001-2024, B152-ST
			regexp.MustCompile(`[A-Za-z]{1,3}[-_]\d{2,4}[A-Za-z]{0,3}`),    // D-445
			regexp.MustCompile(`\d{3,6}[-_][A-Za-z]{2,6}`),                 // 001-PRO
			regexp.MustCompile(`[A-Za-z]{1,2}\d{2,4}[-_]?[A-Za-z]{0,5}`),   // C003, AB123
		},
		QuantityPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\d+\s*шт\.?`),
			regexp.MustCompile(`(?i)\d+\s*штук`),
			regexp.MustCompile(`(?i)\d+\s*единиц?`),
			regexp.MustCompile(`(?i)\d+\s*[мкгт]г`),
			regexp.MustCompile(`(?i)\d+\s*л`),
			regexp.MustCompile(`(?i)\d+\s*кг`),
			regexp.MustCompile(`(?i)\d+\s*м`),
		},
		TrailingNumber: regexp.MustCompile(`\b\d+\s*$`),
		DefaultUnit:    "шт",

		HeaderKeywords:      []string{"артикул", "наименование", "количество", "товар", "позиция"},
		TableHeaderKeywords: []string{"артикул", "наименование", "количество", "код", "название", "кол-во", "товар"},
		ProductKeywords: []string{
			"болт", "гайка", "винт", "шайба", "дюбель", "саморез", "скоба",
			"крепеж", "метиз", "деталь", "запчасть", "изделие",
		},

		CodeColumnProbes:     []string{"артикул", "код"},
		NameColumnProbes:     []string{"наименование", "название", "товар"},
		QuantityColumnProbes: []string{"количество", "кол-во", "штук"},
	}
}
