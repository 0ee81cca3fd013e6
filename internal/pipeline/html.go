package pipeline

import (
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/murzak74-ops/text-recognition-ocr-app1/internal"
	"github.com/murzak74-ops/text-recognition-ocr-app1/internal/util"
)

// tablesFromHTML turns every <table> in the document into one cell grid,
// rows in document order, th and td treated alike.
func tablesFromHTML(r io.Reader) ([]internal.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	tables := []internal.Table{}
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		table := internal.Table{}
		sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if len(cells) > 0 {
				table = append(table, cells)
			}
		})
		if len(table) > 0 {
			tables = append(tables, table)
		}
	})
	return tables, nil
}
