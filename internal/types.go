package internal

type Source string

const (
	SourceImageOCR  Source = "image_ocr"
	SourcePDFText   Source = "pdf_text"
	SourcePDFOCR    Source = "pdf_ocr"
	SourceXLSX      Source = "xlsx"
	SourceHTMLTable Source = "html_table"
)

// Record is one extracted catalog position. All fields are kept as found in
// the source text; Quantity retains its unit ("50 шт") and is never parsed
// into a number.
type Record struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Table is a grid of cell values. Rows may have differing lengths;
// out-of-range cells read as empty.
type Table [][]string

type ExtractedItem struct {
	LineNo int
	Source Source
	Record Record
}

type DocumentRow struct {
	ID        int    `json:"id"`
	Filename  string `json:"filename"`
	Hash      string `json:"hash"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type RecordRow struct {
	ID         int    `json:"id"`
	DocumentID int    `json:"documentId"`
	LineNo     int    `json:"lineNo"`
	Source     string `json:"source"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	CreatedAt  string `json:"createdAt"`
}

type CodeCount struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type Summary struct {
	Total        int         `json:"total"`
	WithCode     int         `json:"withCode"`
	WithName     int         `json:"withName"`
	WithQuantity int         `json:"withQuantity"`
	UniqueCodes  int         `json:"uniqueCodes"`
	TopCodes     []CodeCount `json:"topCodes"`
}
