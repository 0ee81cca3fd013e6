package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
)

const (
	dataSheet  = "Данные"
	statsSheet = "Статистика"

	maxColumnWidth = 50
)

var exportHeaders = []string{"Артикул", "Наименование", "Количество"}

// ExportRecords serializes the record set into a styled workbook: a data
// sheet plus a statistics sheet.
func ExportRecords(records []internal.RecordRow) ([]byte, error) {
	f, err := buildWorkbook(records)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportRecordsToXLSX(records []internal.RecordRow, outputPath string) error {
	f, err := buildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

type workbookStyles struct {
	header int
	center int
	left   int
	label  int
}

func buildWorkbook(records []internal.RecordRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), dataSheet); err != nil {
		return nil, err
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(dataSheet, cell, h); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(dataSheet, "A1", "C1", styles.header)

	for i, rec := range records {
		r := i + 2
		set := func(col int, value string) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(dataSheet, cell, value)
		}
		set(1, rec.Code)
		set(2, rec.Name)
		set(3, rec.Quantity)
	}
	if len(records) > 0 {
		last := len(records) + 1
		_ = f.SetCellStyle(dataSheet, "A2", fmt.Sprintf("A%d", last), styles.center)
		_ = f.SetCellStyle(dataSheet, "B2", fmt.Sprintf("B%d", last), styles.left)
		_ = f.SetCellStyle(dataSheet, "C2", fmt.Sprintf("C%d", last), styles.center)
	}

	adjustColumnWidths(f, records)

	if err := addStatisticsSheet(f, records, styles); err != nil {
		return nil, err
	}
	return f, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 12, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"366092"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return workbookStyles{}, err
	}
	center, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return workbookStyles{}, err
	}
	left, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	})
	if err != nil {
		return workbookStyles{}, err
	}
	label, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: "Arial", Size: 11, Bold: true},
		Border: border,
	})
	if err != nil {
		return workbookStyles{}, err
	}

	return workbookStyles{header: header, center: center, left: left, label: label}, nil
}

func adjustColumnWidths(f *excelize.File, records []internal.RecordRow) {
	widths := make([]int, len(exportHeaders))
	for i, h := range exportHeaders {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, rec := range records {
		for i, v := range []string{rec.Code, rec.Name, rec.Quantity} {
			if n := utf8.RuneCountInString(v); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i, w := range widths {
		w += 2
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(dataSheet, col, col, float64(w))
	}
}

func addStatisticsSheet(f *excelize.File, records []internal.RecordRow, styles workbookStyles) error {
	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}

	summary := Summarize(records)
	rows := [][]any{
		{"Показатель", "Значение"},
		{"Всего позиций", summary.Total},
		{"Уникальных артикулов", summary.UniqueCodes},
		{"Позиций с артикулами", summary.WithCode},
		{"Позиций с наименованиями", summary.WithName},
		{"Позиций с количеством", summary.WithQuantity},
		{"", ""},
		{"Топ артикулы", ""},
	}
	for _, cc := range summary.TopCodes {
		rows = append(rows, []any{"  " + cc.Code, fmt.Sprintf("%d раз", cc.Count)})
	}

	maxLabel := 0
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(statsSheet, cell, value); err != nil {
				return err
			}
		}
		if s, ok := row[0].(string); ok {
			if n := utf8.RuneCountInString(s); n > maxLabel {
				maxLabel = n
			}
		}
	}

	last := len(rows)
	_ = f.SetCellStyle(statsSheet, "A1", "B1", styles.header)
	if last > 1 {
		_ = f.SetCellStyle(statsSheet, "A2", fmt.Sprintf("B%d", last), styles.left)
	}
	_ = f.SetCellStyle(statsSheet, "A8", "B8", styles.label)

	if maxLabel+2 > maxColumnWidth {
		maxLabel = maxColumnWidth - 2
	}
	_ = f.SetColWidth(statsSheet, "A", "A", float64(maxLabel+2))
	_ = f.SetColWidth(statsSheet, "B", "B", 14)
	return nil
}
