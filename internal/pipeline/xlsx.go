package pipeline

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/util"
)

// tablesFromXLSX turns every non-empty sheet of a workbook into one cell
// grid. Cell values are normalized to compact strings at the boundary so the
// core only ever handles strings.
func tablesFromXLSX(blob []byte) ([]internal.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables := []internal.Table{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		table := make(internal.Table, 0, len(rows))
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, util.NormalizeSpaces(c))
			}
			table = append(table, cells)
		}
		tables = append(tables, table)
	}
	return tables, nil
}
