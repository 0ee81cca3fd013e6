package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

// columnRoles maps record roles to column indices; -1 means unresolved.
type columnRoles struct {
	code     int
	name     int
	quantity int
}

// ExtractFromTable parses a cell grid: the header row is located by keyword
// density, column roles are inferred from it, and every later non-blank row
// becomes at most one record. Grids shorter than two rows carry no data rows
// and yield nothing.
func (e *Extractor) ExtractFromTable(table internal.Table) []internal.Record {
	out := []internal.Record{}
	if len(table) < 2 {
		return out
	}

	headerRow := e.findHeaderRow(table)
	roles := e.resolveColumns(table[headerRow])

	for i := headerRow + 1; i < len(table); i++ {
		row := table[i]
		if isBlankRow(row) {
			continue
		}
		if rec, ok := e.rowToRecord(row, roles); ok {
			out = append(out, rec)
		}
	}
	return out
}

// findHeaderRow returns the first row where at least two table header
// keywords occur. Tables are assumed to always have a header: when no row
// qualifies, row 0 is used even if it is really data.
func (e *Extractor) findHeaderRow(table internal.Table) int {
	for i, row := range table {
		if isBlankRow(row) {
			continue
		}
		joined := strings.ToLower(joinCells(row))
		matches := 0
		for _, kw := range e.rules.TableHeaderKeywords {
			if strings.Contains(joined, kw) {
				matches++
			}
		}
		if matches >= 2 {
			return i
		}
	}
	return 0
}

// resolveColumns classifies header cells left to right; a later column
// matching an already-assigned role overwrites it.
func (e *Extractor) resolveColumns(header []string) columnRoles {
	roles := columnRoles{code: -1, name: -1, quantity: -1}
	for i, cell := range header {
		lower := strings.ToLower(strings.TrimSpace(cell))
		if lower == "" {
			continue
		}
		switch {
		case containsAny(lower, e.rules.CodeColumnProbes):
			roles.code = i
		case containsAny(lower, e.rules.NameColumnProbes):
			roles.name = i
		case containsAny(lower, e.rules.QuantityColumnProbes):
			roles.quantity = i
		}
	}
	return roles
}

// rowToRecord reads role-mapped cells directly; any role left unresolved or
// out of bounds falls back to the line heuristics over the whole row joined
// into one string.
func (e *Extractor) rowToRecord(row []string, roles columnRoles) (internal.Record, bool) {
	code := pickCell(row, roles.code)
	name := pickCell(row, roles.name)
	quantity := pickCell(row, roles.quantity)

	if code == "" {
		code = e.extractCode(joinCells(row))
	}
	if name == "" && code != "" {
		name = e.extractName(joinCells(row), code, quantity)
	}
	if quantity == "" {
		quantity = e.extractQuantity(joinCells(row))
	}

	if code == "" && utf8.RuneCountInString(strings.TrimSpace(name)) < 3 {
		return internal.Record{}, false
	}
	return internal.Record{Code: code, Name: name, Quantity: quantity}, true
}

func pickCell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// joinCells concatenates the non-empty cells of a row in column order.
func joinCells(row []string) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		c = strings.TrimSpace(c)
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func containsAny(s string, probes []string) bool {
	for _, p := range probes {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
