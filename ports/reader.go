package ports

import (
	"askmydata/domain/dataset"
)

// DatasetReader decodes uploaded file content into a dataset
type DatasetReader interface {
	// ReadBytes returns a ParseError when content is not valid tabular data
	ReadBytes(name string, content []byte) (*dataset.Dataset, error)
}
