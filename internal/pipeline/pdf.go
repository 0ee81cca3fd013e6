package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	pdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

// extractPDFItems first tries the direct text layer of the PDF; when that
// yields too few records (scanned documents mostly do), pages are rasterized
// and recognized instead. Direct and OCR records are appended in that order.
func (s *ProcessingService) extractPDFItems(ctx context.Context, path string, blob []byte) []internal.ExtractedItem {
	items, err := s.pdfTextItems(blob)
	if err != nil {
		s.logger.Warn("pdf direct extraction failed", "file", filepath.Base(path), "error", err)
		items = nil
	}

	if len(items) < s.cfg.OCRFallbackMinRecords {
		ocrItems, err := s.pdfOCRItems(ctx, path)
		if err != nil {
			s.logger.Warn("pdf ocr fallback failed", "file", filepath.Base(path), "error", err)
		} else {
			items = append(items, ocrItems...)
		}
	}
	return items
}

func (s *ProcessingService) pdfTextItems(blob []byte) ([]internal.ExtractedItem, error) {
	// Validate the document before trusting its text layer; a malformed
	// file goes straight to the OCR path.
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(blob), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	if pctx.PageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, err
	}

	out := []internal.ExtractedItem{}
	for i := 1; i <= r.NumPage(); i++ {
		if s.cfg.PDFMaxPages > 0 && i > s.cfg.PDFMaxPages {
			break
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, lineItems(internal.SourcePDFText, s.extractor.ExtractFromText(text))...)
	}
	return out, nil
}

func (s *ProcessingService) pdfOCRItems(ctx context.Context, path string) ([]internal.ExtractedItem, error) {
	pages, err := s.engine.RecognizePDF(ctx, path)
	if err != nil {
		return nil, err
	}

	out := []internal.ExtractedItem{}
	for _, text := range pages {
		out = append(out, lineItems(internal.SourcePDFOCR, s.extractor.ExtractFromText(text))...)
	}
	return out, nil
}
