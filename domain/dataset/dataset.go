package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"askmydata/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Kind is the inferred type of a column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
)

// Column holds one named column. Raw keeps the trimmed cell text; for numeric
// columns Values/Valid carry the parsed numbers, blanks being invalid.
type Column struct {
	Name    string
	Kind    Kind
	Integer bool
	Raw     []string
	Values  []float64
	Valid   []bool
}

// Dataset is an immutable rectangular table built from an upload.
type Dataset struct {
	Name    string
	Columns []*Column
	index   map[string]int
	rows    int
}

// GroupTotal is one group of a grouped sum
type GroupTotal struct {
	Group   string
	Sum     float64
	Integer bool
}

// Formatted renders the sum the way the value column's dtype prints it
func (g GroupTotal) Formatted() string {
	return formatNumber(g.Sum, g.Integer)
}

// New builds a dataset from a header row and data rows of equal width.
// Blank header cells become "Unnamed: <i>" and repeated names get a ".N" suffix.
func New(name string, headers []string, rows [][]string) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, errors.ParseError("no columns to parse from file", nil)
	}

	names := normalizeHeaders(headers)
	ds := &Dataset{
		Name:    name,
		Columns: make([]*Column, len(names)),
		index:   make(map[string]int, len(names)),
		rows:    len(rows),
	}

	for i, n := range names {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if len(row) != len(names) {
				return nil, errors.ParseError(
					fmt.Sprintf("expected %d fields in line %d, saw %d", len(names), r+2, len(row)), nil)
			}
			raw[r] = strings.TrimSpace(row[i])
		}
		ds.Columns[i] = buildColumn(n, raw)
		ds.index[n] = i
	}

	return ds, nil
}

func normalizeHeaders(headers []string) []string {
	names := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		if count, ok := seen[n]; ok {
			seen[n] = count + 1
			n = fmt.Sprintf("%s.%d", n, count+1)
		} else {
			seen[n] = 0
		}
		names[i] = n
	}
	return names
}

func buildColumn(name string, raw []string) *Column {
	col := &Column{Name: name, Raw: raw, Kind: KindCategorical}

	values := make([]float64, len(raw))
	valid := make([]bool, len(raw))
	numeric, integer, nonBlank := true, true, 0
	for i, cell := range raw {
		if cell == "" {
			integer = false
			continue
		}
		nonBlank++
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			numeric = false
			break
		}
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			integer = false
		}
		values[i] = v
		valid[i] = true
	}

	switch {
	case nonBlank > 0 && numeric:
		col.Kind = KindNumeric
		col.Integer = integer
		col.Values = values
		col.Valid = valid
	case nonBlank > 0 && allDates(raw):
		col.Kind = KindDatetime
	}
	return col
}

func allDates(raw []string) bool {
	for _, cell := range raw {
		if cell == "" {
			continue
		}
		if _, ok := ParseTime(cell); !ok {
			return false
		}
	}
	return true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "02/01/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"Jan 2, 2006", "2 Jan 2006",
}

// ParseTime parses a date-like cell against the supported layouts
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Len returns the number of data rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return d.rows
}

// Empty reports whether the dataset is absent or has no rows or no columns
func (d *Dataset) Empty() bool {
	return d == nil || d.rows == 0 || len(d.Columns) == 0
}

// ColumnNames returns the column names in file order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with exactly this name exists
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[name]
	return ok
}

// Column returns the named column or ColumnNotFound
func (d *Dataset) Column(name string) (*Column, error) {
	if !d.HasColumn(name) {
		return nil, errors.ColumnNotFound(name)
	}
	return d.Columns[d.index[name]], nil
}

// Numbers returns the parsed non-blank values of a numeric column
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for i, v := range c.Values {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Sum adds the numeric cells of a column; blanks and text are skipped
func (d *Dataset) Sum(column string) (float64, error) {
	col, err := d.Column(column)
	if err != nil {
		return 0, err
	}
	return floats.Sum(col.Numbers()), nil
}

// Mean averages the numeric cells of a column. A column without any numbers
// has a NaN mean.
func (d *Dataset) Mean(column string) (float64, error) {
	col, err := d.Column(column)
	if err != nil {
		return 0, err
	}
	nums := col.Numbers()
	if len(nums) == 0 {
		return math.NaN(), nil
	}
	return stat.Mean(nums, nil), nil
}

// FormatSum renders a sum of column the way its dtype prints: integer columns
// without a decimal point, float columns in shortest form with at least one decimal.
func (d *Dataset) FormatSum(column string, v float64) string {
	integer := false
	if col, err := d.Column(column); err == nil {
		integer = col.Integer
	}
	return formatNumber(v, integer)
}

func formatNumber(v float64, integer bool) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 0):
		if v > 0 {
			return "inf"
		}
		return "-inf"
	case integer:
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// GroupSumFirstSeen sums value per distinct group key, groups in order of first
// appearance. Rows with a blank key are dropped.
func (d *Dataset) GroupSumFirstSeen(group, value string) ([]GroupTotal, error) {
	g, err := d.Column(group)
	if err != nil {
		return nil, err
	}
	v, err := d.Column(value)
	if err != nil {
		return nil, err
	}

	pos := make(map[string]int)
	var totals []GroupTotal
	for i, key := range g.Raw {
		if key == "" {
			continue
		}
		idx, ok := pos[key]
		if !ok {
			idx = len(totals)
			pos[key] = idx
			totals = append(totals, GroupTotal{Group: key, Integer: v.Integer})
		}
		if v.Kind == KindNumeric && v.Valid[i] {
			totals[idx].Sum += v.Values[i]
		}
	}
	return totals, nil
}

// GroupSum is GroupSumFirstSeen sorted by descending sum; ties keep first-seen order.
func (d *Dataset) GroupSum(group, value string) ([]GroupTotal, error) {
	totals, err := d.GroupSumFirstSeen(group, value)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Sum > totals[j].Sum
	})
	return totals, nil
}

// GroupSumByKey is GroupSumFirstSeen ordered by ascending group key
func (d *Dataset) GroupSumByKey(group, value string) ([]GroupTotal, error) {
	totals, err := d.GroupSumFirstSeen(group, value)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Group < totals[j].Group
	})
	return totals, nil
}

// UniqueValues returns the distinct non-blank cells of a column in first-seen order
func (d *Dataset) UniqueValues(column string) ([]string, error) {
	col, err := d.Column(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, cell := range col.Raw {
		if cell == "" {
			continue
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		out = append(out, cell)
	}
	return out, nil
}

// Head returns up to n rows of raw cells
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	out := make([][]string, n)
	for r := 0; r < n; r++ {
		row := make([]string, len(d.Columns))
		for c, col := range d.Columns {
			row[c] = col.Raw[r]
		}
		out[r] = row
	}
	return out
}
