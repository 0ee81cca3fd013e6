// Package pipeline routes input documents (images, PDFs, XLSX, HTML) through
// the collaborators and the extraction core, and persists the resulting
// records. All fallible work lives here; the core itself never fails.
package pipeline

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/config"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/extractor"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/ocr"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/storage"
)

type ProcessingService struct {
	db        *storage.DB
	cfg       config.Config
	engine    *ocr.Engine
	extractor *extractor.Extractor
	logger    *slog.Logger
}

func NewProcessingService(db *storage.DB, cfg config.Config, engine *ocr.Engine, logger *slog.Logger) *ProcessingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessingService{
		db:        db,
		cfg:       cfg,
		engine:    engine,
		extractor: extractor.New(extractor.DefaultRules()),
		logger:    logger,
	}
}

type ProcessResult struct {
	DocumentID int    `json:"documentId"`
	Filename   string `json:"filename"`
	Records    int    `json:"records"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// ProcessBatch runs every file through ProcessFile. One file's failure is
// recorded in its result and never aborts the rest of the batch.
func (s *ProcessingService) ProcessBatch(ctx context.Context, paths []string) []ProcessResult {
	out := make([]ProcessResult, 0, len(paths))
	for _, path := range paths {
		res, err := s.ProcessFile(ctx, path)
		if err != nil {
			s.logger.Warn("file processing failed", "file", filepath.Base(path), "error", err)
			if res.Filename == "" {
				res.Filename = filepath.Base(path)
			}
			res.Status = "failed"
			res.Error = err.Error()
		}
		out = append(out, res)
	}
	return out
}

// ProcessFile extracts records from one file and replaces the document's
// stored record set with them.
func (s *ProcessingService) ProcessFile(ctx context.Context, path string) (ProcessResult, error) {
	start := time.Now()

	blob, err := os.ReadFile(path)
	if err != nil {
		return ProcessResult{}, err
	}
	sum := sha256.Sum256(blob)
	filename := filepath.Base(path)

	doc, err := s.db.UpsertDocument(filename, hex.EncodeToString(sum[:]))
	if err != nil {
		return ProcessResult{}, err
	}

	items, err := s.extractItems(ctx, path, blob)
	if err != nil {
		_ = s.db.UpdateDocumentStatus(doc.ID, "failed")
		return ProcessResult{DocumentID: doc.ID, Filename: filename}, err
	}
	for i := range items {
		items[i].LineNo = i + 1
	}

	if err := s.db.ReplaceDocumentRecords(doc.ID, items); err != nil {
		return ProcessResult{DocumentID: doc.ID, Filename: filename}, err
	}
	if err := s.db.UpdateDocumentStatus(doc.ID, "processed"); err != nil {
		return ProcessResult{DocumentID: doc.ID, Filename: filename}, err
	}

	withCode := 0
	for _, item := range items {
		if item.Record.Code != "" {
			withCode++
		}
	}
	_ = s.db.InsertRun(traceID(), doc.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"extracted": len(items), "withCode": withCode})

	return ProcessResult{DocumentID: doc.ID, Filename: filename, Records: len(items), Status: "processed"}, nil
}

func (s *ProcessingService) extractItems(ctx context.Context, path string, blob []byte) ([]internal.ExtractedItem, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		text, err := s.engine.RecognizeImage(ctx, path)
		if err != nil {
			// Recognizer failure degrades to zero records for this
			// image, it never fails the document.
			s.logger.Warn("image recognition failed", "file", filepath.Base(path), "error", err)
			text = ""
		}
		return lineItems(internal.SourceImageOCR, s.extractor.ExtractFromText(text)), nil
	case ".pdf":
		return s.extractPDFItems(ctx, path, blob), nil
	case ".xlsx", ".xlsm", ".xls":
		tables, err := tablesFromXLSX(blob)
		if err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		return s.tableItems(internal.SourceXLSX, tables), nil
	case ".html", ".htm":
		tables, err := tablesFromHTML(strings.NewReader(string(blob)))
		if err != nil {
			return nil, fmt.Errorf("html: %w", err)
		}
		return s.tableItems(internal.SourceHTMLTable, tables), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func (s *ProcessingService) tableItems(source internal.Source, tables []internal.Table) []internal.ExtractedItem {
	out := []internal.ExtractedItem{}
	for _, table := range tables {
		out = append(out, lineItems(source, s.extractor.ExtractFromTable(table))...)
	}
	return out
}

func lineItems(source internal.Source, records []internal.Record) []internal.ExtractedItem {
	out := make([]internal.ExtractedItem, 0, len(records))
	for _, rec := range records {
		out = append(out, internal.ExtractedItem{Source: source, Record: rec})
	}
	return out
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
