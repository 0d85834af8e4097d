package table

import (
	"errors"
	"fmt"

	"github.com/tuannm99/strata/internal/record"
)

var (
	ErrInvalidColumn  = errors.New("table: invalid column")
	ErrSchemaMismatch = errors.New("table: schema mismatch")
	ErrRowOutOfRange  = errors.New("table: row index out of range")
)

// Table is an in-memory rectangular dataset. Rows are positionally aligned
// with Schema.Cols. Operations never mutate the receiver; anything that
// derives rows returns a new Table holding its own copies.
type Table struct {
	Schema record.Schema
	rows   [][]any
}

// New validates every row against the schema and takes ownership of rows.
// NaN floats are stored as missing.
func New(schema record.Schema, rows [][]any) (*Table, error) {
	for i, r := range rows {
		if err := record.CheckRow(schema, r); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for c, v := range r {
			if v != nil && record.IsNull(v) {
				r[c] = nil
			}
		}
	}
	return &Table{Schema: schema, rows: rows}, nil
}

// Empty returns a table with the given schema and no rows.
func Empty(schema record.Schema) *Table {
	return &Table{Schema: schema, rows: [][]any{}}
}

func (t *Table) NumRows() int { return len(t.rows) }
func (t *Table) NumCols() int { return t.Schema.NumCols() }

// Column resolves a column name to its position.
func (t *Table) Column(name string) (int, error) {
	idx := t.Schema.Index(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q (have %v)", ErrInvalidColumn, name, t.Schema.Names())
	}
	return idx, nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Value returns the cell at row i, column col.
func (t *Table) Value(i, col int) any { return t.rows[i][col] }

// Select builds a new table from the rows at the given positions, in that
// order. A position may repeat.
func (t *Table) Select(indices []int) (*Table, error) {
	rows := make([][]any, len(indices))
	for k, i := range indices {
		if i < 0 || i >= len(t.rows) {
			return nil, fmt.Errorf("%w: %d (rows=%d)", ErrRowOutOfRange, i, len(t.rows))
		}
		rows[k] = t.Row(i)
	}
	return &Table{Schema: t.Schema, rows: rows}, nil
}

// Where returns the rows of column col satisfying keep, in source order.
func (t *Table) Where(col int, keep func(v any) bool) *Table {
	rows := make([][]any, 0, len(t.rows))
	for i, r := range t.rows {
		if keep(r[col]) {
			rows = append(rows, t.Row(i))
		}
	}
	return &Table{Schema: t.Schema, rows: rows}
}

// Concat returns the rows of a followed by the rows of b.
func Concat(a, b *Table) (*Table, error) {
	if !a.Schema.Equal(b.Schema) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrSchemaMismatch, a.Schema.Names(), b.Schema.Names())
	}
	rows := make([][]any, 0, a.NumRows()+b.NumRows())
	for i := range a.rows {
		rows = append(rows, a.Row(i))
	}
	for i := range b.rows {
		rows = append(rows, b.Row(i))
	}
	schema := a.Schema
	schema.Cols = make([]record.Column, len(a.Schema.Cols))
	copy(schema.Cols, a.Schema.Cols)
	for i := range schema.Cols {
		schema.Cols[i].Nullable = a.Schema.Cols[i].Nullable || b.Schema.Cols[i].Nullable
	}
	return &Table{Schema: schema, rows: rows}, nil
}

// Rows returns a deep copy of all rows.
func (t *Table) Rows() [][]any {
	out := make([][]any, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}
