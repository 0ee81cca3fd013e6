// Package extractor turns noisy OCR text and cell grids into catalog records
// (code, name, quantity). The engine is a pure function of its input and the
// rule table: no state between calls, safe for concurrent use.
package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/util"
)

var rowNumberPrefix = regexp.MustCompile(`^\d+\s*\.?\s*`)

type Extractor struct {
	rules Rules
}

func New(rules Rules) *Extractor {
	return &Extractor{rules: rules}
}

// ExtractFromText parses a block of recognized text line by line. Each line
// yields at most one record; lines shorter than 3 runes, header lines and
// lines with no code, quantity or product vocabulary are dropped.
func (e *Extractor) ExtractFromText(text string) []internal.Record {
	out := []internal.Record{}
	for _, line := range util.SplitLines(text) {
		if utf8.RuneCountInString(line) < 3 {
			continue
		}
		if e.isHeaderLine(line) {
			continue
		}

		code := e.extractCode(line)
		quantity := e.extractQuantity(line)
		if code == "" && quantity == "" && !e.looksLikeProductLine(line) {
			continue
		}

		name := e.extractName(line, code, quantity)
		if code == "" && name == "" {
			// A quantity alone is not a position.
			continue
		}
		out = append(out, internal.Record{Code: code, Name: name, Quantity: quantity})
	}
	return out
}

// extractCode returns the first pattern match that survives the validity
// filter: at least 3 runes and not purely numeric (years and sizes are not
// codes). A filtered-out match moves on to the next pattern.
func (e *Extractor) extractCode(line string) string {
	for _, re := range e.rules.CodePatterns {
		m := re.FindString(line)
		if m == "" {
			continue
		}
		candidate := strings.TrimSpace(m)
		if utf8.RuneCountInString(candidate) >= 3 && !isAllDigits(candidate) {
			return candidate
		}
	}
	return ""
}

// extractQuantity returns the first unit-suffixed amount, or a trailing bare
// number with the default unit appended when recognition garbled the unit.
func (e *Extractor) extractQuantity(line string) string {
	for _, re := range e.rules.QuantityPatterns {
		if m := re.FindString(line); m != "" {
			return strings.TrimSpace(m)
		}
	}
	if m := e.rules.TrailingNumber.FindString(line); m != "" {
		return strings.TrimSpace(m) + " " + e.rules.DefaultUnit
	}
	return ""
}

// extractName strips the matched code and quantity substrings from the line
// and cleans up the residue. Removal is textual, not positional: a repeat of
// the code text elsewhere in the line disappears too. Residues shorter than
// 3 runes are discarded.
func (e *Extractor) extractName(line, code, quantity string) string {
	name := line
	if code != "" {
		name = strings.ReplaceAll(name, code, "")
	}
	if quantity != "" {
		name = strings.ReplaceAll(name, quantity, "")
	}

	name = util.NormalizeSpaces(name)
	name = strings.Trim(name, ".,;:-_| ")
	name = rowNumberPrefix.ReplaceAllString(name, "")

	if utf8.RuneCountInString(name) < 3 {
		return ""
	}
	return name
}

func (e *Extractor) isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range e.rules.HeaderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (e *Extractor) looksLikeProductLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range e.rules.ProductKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
