package excel

// FileType identifies how uploaded bytes are decoded
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// Table is the raw decoded grid before it becomes a dataset
type Table struct {
	Headers []string
	Rows    [][]string
}
