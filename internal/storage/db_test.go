package storage

import (
	"path/filepath"
	"testing"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentRecordsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	doc, err := db.UpsertDocument("scan.png", "hash-1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Status != "uploaded" {
		t.Fatalf("status=%q", doc.Status)
	}

	items := []internal.ExtractedItem{
		{LineNo: 1, Source: internal.SourceImageOCR, Record: internal.Record{Code: "A001-2024", Name: "Болт крепёжный М8х40", Quantity: "50 шт"}},
		{LineNo: 2, Source: internal.SourceImageOCR, Record: internal.Record{Name: "Болт без кода"}},
	}
	if err := db.ReplaceDocumentRecords(doc.ID, items); err != nil {
		t.Fatal(err)
	}
	if err := db.UpdateDocumentStatus(doc.ID, "processed"); err != nil {
		t.Fatal(err)
	}

	records, err := db.ListRecords(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}
	if records[0].Code != "A001-2024" || records[0].LineNo != 1 {
		t.Fatalf("got %+v", records[0])
	}
	if records[1].Name != "Болт без кода" || records[1].Code != "" {
		t.Fatalf("got %+v", records[1])
	}
}

func TestUpsertDocumentSameHash(t *testing.T) {
	db := openTestDB(t)

	first, err := db.UpsertDocument("a.png", "same-hash")
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.UpsertDocument("b.png", "same-hash")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Fatalf("ids differ: %d %d", first.ID, second.ID)
	}
	if second.Filename != "b.png" {
		t.Fatalf("filename=%q", second.Filename)
	}
}

func TestReplaceDocumentRecordsOverwrites(t *testing.T) {
	db := openTestDB(t)

	doc, err := db.UpsertDocument("scan.pdf", "hash-2")
	if err != nil {
		t.Fatal(err)
	}
	old := []internal.ExtractedItem{
		{LineNo: 1, Source: internal.SourcePDFText, Record: internal.Record{Code: "OLD-100"}},
	}
	if err := db.ReplaceDocumentRecords(doc.ID, old); err != nil {
		t.Fatal(err)
	}
	fresh := []internal.ExtractedItem{
		{LineNo: 1, Source: internal.SourcePDFOCR, Record: internal.Record{Code: "B152-ST", Quantity: "100 шт"}},
	}
	if err := db.ReplaceDocumentRecords(doc.ID, fresh); err != nil {
		t.Fatal(err)
	}

	records, err := db.ListRecords(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Code != "B152-ST" {
		t.Fatalf("records=%+v", records)
	}
}

func TestUpdateRecord(t *testing.T) {
	db := openTestDB(t)

	doc, err := db.UpsertDocument("scan.png", "hash-3")
	if err != nil {
		t.Fatal(err)
	}
	items := []internal.ExtractedItem{
		{LineNo: 1, Source: internal.SourceImageOCR, Record: internal.Record{Code: "C003", Name: "Шайба"}},
	}
	if err := db.ReplaceDocumentRecords(doc.ID, items); err != nil {
		t.Fatal(err)
	}
	records, err := db.ListRecords(doc.ID)
	if err != nil {
		t.Fatal(err)
	}

	edited := internal.Record{Code: "C003-AL", Name: "Шайба алюминиевая Ø12", Quantity: "25 шт"}
	if err := db.UpdateRecord(records[0].ID, edited); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetRecord(records[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Code != "C003-AL" || got.Quantity != "25 шт" {
		t.Fatalf("got %+v", got)
	}

	if err := db.UpdateRecord(99999, edited); err == nil {
		t.Fatal("expected error for missing record")
	}
}

func TestInsertRun(t *testing.T) {
	db := openTestDB(t)

	doc, err := db.UpsertDocument("scan.png", "hash-4")
	if err != nil {
		t.Fatal(err)
	}
	err = db.InsertRun("trace-1", doc.ID,
		map[string]float64{"totalMs": 12.5},
		map[string]int{"extracted": 3})
	if err != nil {
		t.Fatal(err)
	}
}
