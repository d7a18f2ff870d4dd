package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"askmydata/domain/dataset"
	"askmydata/internal/errors"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader decodes uploaded Excel and delimited-text content into datasets
type DataReader struct{}

// NewDataReader creates a new data reader that handles both Excel and CSV content
func NewDataReader() *DataReader {
	return &DataReader{}
}

// DetectFileType picks the decoder from the file name; anything that is not
// .xlsx is treated as delimited text.
func DetectFileType(name string) FileType {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return FileTypeXLSX
	}
	return FileTypeCSV
}

// ReadBytes decodes content named name into a dataset. Malformed content
// yields a ParseError.
func (r *DataReader) ReadBytes(name string, content []byte) (*dataset.Dataset, error) {
	start := time.Now()
	fileType := DetectFileType(name)

	var (
		table *Table
		err   error
	)
	switch fileType {
	case FileTypeXLSX:
		table, err = r.readExcel(content)
	default:
		table, err = r.readCSV(content)
	}
	if err != nil {
		log.Printf("[DataReader] FAILED - %s %s: %v", strings.ToUpper(string(fileType)), name, err)
		return nil, err
	}

	ds, err := dataset.New(name, table.Headers, table.Rows)
	if err != nil {
		return nil, err
	}

	log.Printf("[DataReader] %s %s processed in %.2fms (%d columns, %d rows)",
		strings.ToUpper(string(fileType)), name, float64(time.Since(start).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return ds, nil
}

// readCSV reads delimited text; the delimiter is sniffed from the header line
func (r *DataReader) readCSV(content []byte) (*Table, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.ParseError("no columns to parse from file", nil)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = SniffDelimiter(content)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("failed to read delimited text", err)
	}
	if len(rows) == 0 {
		return nil, errors.ParseError("no columns to parse from file", nil)
	}

	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// readExcel reads the first worksheet of an .xlsx workbook. Short rows are
// padded since excelize drops trailing empty cells.
func (r *DataReader) readExcel(content []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.ParseError("failed to open Excel workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.ParseError("no columns to parse from file", nil)
	}

	width := len(rows[0])
	data := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > width {
			return nil, errors.ParseError(
				fmt.Sprintf("expected %d fields in row %d, saw %d", width, i+2, len(row)), nil)
		}
		padded := make([]string, width)
		copy(padded, row)
		data = append(data, padded)
	}

	return &Table{Headers: rows[0], Rows: data}, nil
}

// SniffDelimiter picks the most frequent of ',', ';' and tab on the first line,
// defaulting to ','.
func SniffDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
