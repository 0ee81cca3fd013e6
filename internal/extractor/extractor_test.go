package extractor

import (
	"reflect"
	"testing"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

func TestExtractFromTextCanonicalLine(t *testing.T) {
	e := New(DefaultRules())
	records := e.ExtractFromText("A001-2024 Болт крепёжный М8х40 50 шт")
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	want := internal.Record{Code: "A001-2024", Name: "Болт крепёжный М8х40", Quantity: "50 шт"}
	if records[0] != want {
		t.Fatalf("got %+v", records[0])
	}
}

func TestExtractFromTextMultipleLines(t *testing.T) {
	e := New(DefaultRules())
	text := "A001-2024 Болт крепёжный М8х40 50 шт\nB152-ST Гайка шестигранная М10 100 шт\n"
	records := e.ExtractFromText(text)
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Code != "A001-2024" || records[1].Code != "B152-ST" {
		t.Fatalf("codes: %q %q", records[0].Code, records[1].Code)
	}
}

func TestExtractCodeRejectsPureNumber(t *testing.T) {
	e := New(DefaultRules())
	if got := e.extractCode("100500"); got != "" {
		t.Fatalf("code=%q", got)
	}
	// A bare number with a trailing-number quantity is still not a record.
	if records := e.ExtractFromText("100500"); len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
}

func TestExtractCodeSampleShapes(t *testing.T) {
	e := New(DefaultRules())
	cases := map[string]string{
		"A001-2024 Болт": "A001-2024",
		"B152-ST Гайка":  "B152-ST",
		"C003 Шайба":     "C003",
		"D-445 Винт":     "D-445",
		"E12-PRO Дюбель": "E12-PRO",
		"001-PRO":        "001-PRO",
		"AB123-XX":       "AB123-XX",
		"Болт без кода":  "",
	}
	for line, want := range cases {
		if got := e.extractCode(line); got != want {
			t.Fatalf("extractCode(%q)=%q want %q", line, got, want)
		}
	}
}

func TestProductKeywordFallback(t *testing.T) {
	e := New(DefaultRules())
	records := e.ExtractFromText("Болт без кода")
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	want := internal.Record{Code: "", Name: "Болт без кода", Quantity: ""}
	if records[0] != want {
		t.Fatalf("got %+v", records[0])
	}
}

func TestHeaderLinesSkipped(t *testing.T) {
	e := New(DefaultRules())
	text := "Артикул Наименование Количество\nПозиция 1 из 10\nТовар со склада"
	if records := e.ExtractFromText(text); len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
}

func TestShortLinesSkipped(t *testing.T) {
	e := New(DefaultRules())
	if records := e.ExtractFromText("аб\nx\n  \n"); len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
}

func TestQuantityTrailingNumberFallback(t *testing.T) {
	e := New(DefaultRules())
	records := e.ExtractFromText("Гайка оцинкованная 25")
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Quantity != "25 шт" {
		t.Fatalf("quantity=%q", records[0].Quantity)
	}
}

func TestQuantityUnits(t *testing.T) {
	e := New(DefaultRules())
	cases := map[string]string{
		"Болт 50 шт": "50 шт",
		// "шт" wins over "штук": it sits earlier in the priority list and
		// matches as a prefix, same as the legacy rule order.
		"Болт 100 штук":   "100 шт",
		"Гайка 25 единиц": "25 единиц",
		"Саморез 2 кг":    "2 кг",
	}
	for line, want := range cases {
		if got := e.extractQuantity(line); got != want {
			t.Fatalf("extractQuantity(%q)=%q want %q", line, got, want)
		}
	}
}

func TestNameRowNumberPrefixStripped(t *testing.T) {
	e := New(DefaultRules())
	records := e.ExtractFromText("1. A001-2024 Болт крепёжный 50 шт")
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Name != "Болт крепёжный" {
		t.Fatalf("name=%q", records[0].Name)
	}
}

func TestNameRemovalIsTextual(t *testing.T) {
	// Removing the matched code also removes coincidental repeats of the
	// same text elsewhere in the line. Documented behavior, not a bug.
	e := New(DefaultRules())
	records := e.ExtractFromText("C003 Шайба C003 25 шт")
	if len(records) != 1 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Name != "Шайба" {
		t.Fatalf("name=%q", records[0].Name)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := New(DefaultRules())
	text := "A001-2024 Болт крепёжный М8х40 50 шт\nБолт без кода\nГайка оцинкованная 25"
	first := e.ExtractFromText(text)
	second := e.ExtractFromText(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("first=%+v second=%+v", first, second)
	}
}

func TestSubstitutedRuleSet(t *testing.T) {
	line := "Кабель силовой медный"

	e := New(DefaultRules())
	if records := e.ExtractFromText(line); len(records) != 0 {
		t.Fatalf("default rules: len=%d", len(records))
	}

	rules := DefaultRules()
	rules.ProductKeywords = []string{"кабель"}
	e = New(rules)
	records := e.ExtractFromText(line)
	if len(records) != 1 || records[0].Name != line {
		t.Fatalf("custom rules: %+v", records)
	}
}
