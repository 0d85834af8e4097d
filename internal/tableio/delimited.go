package tableio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

var ErrNoHeader = errors.New("tableio: missing header row")

func readDelimitedFile(path string, comma rune) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDelimited(f, comma)
}

// ReadDelimited reads a header row and data rows, then types every column
// from all of its cells.
func ReadDelimited(r io.Reader, comma rune) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	raw := make([][]string, len(header))
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++
		for c := range header {
			raw[c] = append(raw[c], rec[c])
		}
	}
	nrows := line - 1

	schema := record.Schema{Cols: make([]record.Column, len(header))}
	cols := make([][]any, len(header))
	for c, name := range header {
		typ, nullable, cells := record.InferColumn(raw[c])
		schema.Cols[c] = record.Column{Name: name, Type: typ, Nullable: nullable}
		cols[c] = cells
	}

	rows := make([][]any, nrows)
	for i := range rows {
		rows[i] = make([]any, len(header))
		for c := range header {
			rows[i][c] = cols[c][i]
		}
	}
	return table.New(schema, rows)
}

func writeDelimitedFile(t *table.Table, path string, comma rune) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDelimited(f, t, comma); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteDelimited writes a header row and one line per row. Missing cells
// are empty fields.
func WriteDelimited(w io.Writer, t *table.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(t.Schema.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for c := range rec {
			rec[c] = record.FormatValue(t.Value(i, c))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
