package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"askmydata/domain/dataset"

	"github.com/montanaflynn/stats"
)

// PreviewRows is the number of rows shown in the data preview
const PreviewRows = 10

// DtypeRow is one line of the column/data type table
type DtypeRow struct {
	Column   string `json:"column"`
	DataType string `json:"data_type"`
}

// Overview is the dataset shape plus its column types
type Overview struct {
	Name    string     `json:"name"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Dtypes  []DtypeRow `json:"dtypes"`
}

// ColumnStats are the descriptive statistics of one numeric column
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// MarshalJSON writes undefined statistics (NaN) as null
func (c ColumnStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q25    *float64 `json:"q25"`
		Median *float64 `json:"median"`
		Q75    *float64 `json:"q75"`
		Max    *float64 `json:"max"`
	}{c.Column, c.Count, finite(c.Mean), finite(c.Std), finite(c.Min), finite(c.Q25), finite(c.Median), finite(c.Q75), finite(c.Max)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Preview holds the first rows of the dataset
type Preview struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// DataType names a column type the way a dataframe would print it
func DataType(col *dataset.Column) string {
	switch col.Kind {
	case dataset.KindNumeric:
		if col.Integer {
			return "int64"
		}
		return "float64"
	case dataset.KindDatetime:
		return "datetime"
	default:
		return "object"
	}
}

// BuildOverview returns the shape and per-column types
func BuildOverview(ds *dataset.Dataset) Overview {
	ov := Overview{Name: ds.Name, Rows: ds.Len(), Columns: len(ds.Columns)}
	for _, col := range ds.Columns {
		ov.Dtypes = append(ov.Dtypes, DtypeRow{Column: col.Name, DataType: DataType(col)})
	}
	return ov
}

// Describe computes count, mean, sample std, min, quartiles and max for every
// numeric column. Quartiles interpolate linearly between order statistics.
func Describe(ds *dataset.Dataset) []ColumnStats {
	var out []ColumnStats
	for _, col := range ds.Columns {
		if col.Kind != dataset.KindNumeric {
			continue
		}
		out = append(out, describeColumn(col))
	}
	return out
}

func describeColumn(col *dataset.Column) ColumnStats {
	data := stats.Float64Data(col.Numbers())
	cs := ColumnStats{Column: col.Name, Count: data.Len()}
	if cs.Count == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Median, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	cs.Mean, _ = stats.Mean(data)
	cs.Min, _ = stats.Min(data)
	cs.Max, _ = stats.Max(data)
	cs.Std = math.NaN()
	if cs.Count > 1 {
		cs.Std, _ = stats.StandardDeviationSample(data)
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	cs.Q25 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.Q75 = quantile(sorted, 0.75)
	return cs
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// BuildPreview returns the first PreviewRows rows
func BuildPreview(ds *dataset.Dataset) Preview {
	return Preview{Headers: ds.ColumnNames(), Rows: ds.Head(PreviewRows)}
}
