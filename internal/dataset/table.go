package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	arrowcsv "github.com/apache/arrow/go/v17/arrow/csv"
)

const TargetColumn = "price_range"

var (
	ErrEmptyTable      = errors.New("table has no rows")
	ErrColumnsMismatch = errors.New("columns do not match")
)

// Table is a numeric table read from raw data partitions. Missing cells hold NaN.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// ParseCSV reads a headered CSV partition where every column is numeric
func ParseCSV(data []byte) (*Table, error) {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	reader := arrowcsv.NewReader(bytes.NewReader(data), schema,
		arrowcsv.WithHeader(true),
		arrowcsv.WithChunk(1024),
		arrowcsv.WithNullReader(true, "", "NA", "null"),
	)
	defer reader.Release()

	table := &Table{Columns: header, Rows: make([][]float64, 0)}
	for reader.Next() {
		rec := reader.Record()
		columns := make([]*array.Float64, rec.NumCols())
		for j := range columns {
			columns[j] = rec.Column(j).(*array.Float64)
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			row := make([]float64, len(columns))
			for j, col := range columns {
				if col.IsNull(i) {
					row[j] = math.NaN()
					continue
				}
				row[j] = col.Value(i)
			}
			table.Rows = append(table.Rows, row)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return table, nil
}

// Concat appends tables sharing the same columns, in order
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrEmptyTable
	}
	out := &Table{Columns: tables[0].Columns, Rows: make([][]float64, 0)}
	for i, t := range tables {
		if !sameColumns(out.Columns, t.Columns) {
			return nil, fmt.Errorf("%w: table %d has %v, expected %v", ErrColumnsMismatch, i, t.Columns, out.Columns)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// FillMissingWithMean replaces NaN cells with the mean of the column's present values.
// A column with no values at all is filled with 0.
func (t *Table) FillMissingWithMean() {
	for j := range t.Columns {
		sum, n := 0.0, 0
		for _, row := range t.Rows {
			if !math.IsNaN(row[j]) {
				sum += row[j]
				n++
			}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		for _, row := range t.Rows {
			if math.IsNaN(row[j]) {
				row[j] = mean
			}
		}
	}
}

// SplitTarget separates the feature matrix from the integer class column
func (t *Table) SplitTarget(target string) (x [][]float64, y []int, features []string, err error) {
	if len(t.Rows) == 0 {
		return nil, nil, nil, ErrEmptyTable
	}
	ti := t.ColumnIndex(target)
	if ti < 0 {
		return nil, nil, nil, fmt.Errorf("target column %q not found", target)
	}
	features = make([]string, 0, len(t.Columns)-1)
	for j, c := range t.Columns {
		if j != ti {
			features = append(features, c)
		}
	}
	x = make([][]float64, len(t.Rows))
	y = make([]int, len(t.Rows))
	for i, row := range t.Rows {
		if math.IsNaN(row[ti]) {
			return nil, nil, nil, fmt.Errorf("row %d has no %s", i, target)
		}
		y[i] = int(math.Round(row[ti]))
		x[i] = make([]float64, 0, len(features))
		for j, v := range row {
			if j != ti {
				x[i] = append(x[i], v)
			}
		}
	}
	return x, y, features, nil
}
