package tableio

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

func readParquetFile(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	pf, err := file.NewParquetReader(f, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("arrow reader: %w", err)
	}
	at, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet data: %w", err)
	}
	defer at.Release()

	return fromArrow(at)
}

// fromArrow copies an arrow table cell by cell and settles each column's
// type with record.UnifyColumn.
func fromArrow(at arrow.Table) (*table.Table, error) {
	schema := at.Schema()
	ncols := int(at.NumCols())
	cols := make([][]any, ncols)

	tr := array.NewTableReader(at, max(at.NumRows(), 1))
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for c := 0; c < ncols; c++ {
			arr := rec.Column(c)
			for i := 0; i < arr.Len(); i++ {
				v, err := arrowValue(arr, i)
				if err != nil {
					return nil, fmt.Errorf("column %q: %w", schema.Field(c).Name, err)
				}
				cols[c] = append(cols[c], v)
			}
		}
	}
	if err := tr.Err(); err != nil {
		return nil, err
	}

	nrows := int(at.NumRows())
	out := record.Schema{Cols: make([]record.Column, ncols)}
	for c := 0; c < ncols; c++ {
		if cols[c] == nil {
			cols[c] = make([]any, nrows)
		}
		typ, nullable, cells := record.UnifyColumn(cols[c], false)
		if !hasValue(cells) {
			// nothing to infer from; trust the stored schema
			typ = columnType(schema.Field(c).Type)
		}
		out.Cols[c] = record.Column{Name: schema.Field(c).Name, Type: typ, Nullable: nullable}
		cols[c] = cells
	}

	rows := make([][]any, nrows)
	for i := range rows {
		rows[i] = make([]any, ncols)
		for c := 0; c < ncols; c++ {
			rows[i][c] = cols[c][i]
		}
	}
	return table.New(out, rows)
}

func hasValue(cells []any) bool {
	for _, v := range cells {
		if v != nil {
			return true
		}
	}
	return false
}

func columnType(dt arrow.DataType) record.ColumnType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32:
		return record.ColInt64
	case arrow.FLOAT32, arrow.FLOAT64:
		return record.ColFloat64
	case arrow.BOOL:
		return record.ColBool
	default:
		return record.ColText
	}
}

func arrowValue(col arrow.Array, pos int) (any, error) {
	if col.IsNull(pos) {
		return nil, nil
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(pos), nil
	case *array.LargeString:
		return a.Value(pos), nil
	case *array.Binary:
		return string(a.Value(pos)), nil
	case *array.Boolean:
		return a.Value(pos), nil
	case *array.Int8:
		return int64(a.Value(pos)), nil
	case *array.Int16:
		return int64(a.Value(pos)), nil
	case *array.Int32:
		return int64(a.Value(pos)), nil
	case *array.Int64:
		return a.Value(pos), nil
	case *array.Uint8:
		return record.Normalize(a.Value(pos))
	case *array.Uint16:
		return record.Normalize(a.Value(pos))
	case *array.Uint32:
		return record.Normalize(a.Value(pos))
	case *array.Uint64:
		return record.Normalize(a.Value(pos))
	case *array.Float32:
		return record.Normalize(a.Value(pos))
	case *array.Float64:
		return record.Normalize(a.Value(pos))
	default:
		// dates, timestamps, decimals and the rest travel as text
		return col.ValueStr(pos), nil
	}
}

func arrowType(t record.ColumnType) arrow.DataType {
	switch t {
	case record.ColInt64:
		return arrow.PrimitiveTypes.Int64
	case record.ColFloat64:
		return arrow.PrimitiveTypes.Float64
	case record.ColBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// toArrow builds a single-chunk arrow table. The caller releases it.
func toArrow(t *table.Table) arrow.Table {
	mem := memory.NewGoAllocator()

	fields := make([]arrow.Field, t.NumCols())
	for c, col := range t.Schema.Cols {
		fields[c] = arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	columns := make([]arrow.Column, t.NumCols())
	for c, field := range fields {
		b := array.NewBuilder(mem, field.Type)
		for i := 0; i < t.NumRows(); i++ {
			appendCell(b, t.Value(i, c))
		}
		arr := b.NewArray()
		b.Release()

		chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
		arr.Release()
		columns[c] = *arrow.NewColumn(field, chunked)
		chunked.Release()
	}
	at := array.NewTable(schema, columns, int64(t.NumRows()))
	for i := range columns {
		columns[i].Release()
	}
	return at
}

func appendCell(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch bb := b.(type) {
	case *array.Int64Builder:
		bb.Append(v.(int64))
	case *array.Float64Builder:
		bb.Append(v.(float64))
	case *array.BooleanBuilder:
		bb.Append(v.(bool))
	case *array.StringBuilder:
		bb.Append(record.FormatValue(v))
	}
}

func writeParquetFile(t *table.Table, path string) error {
	at := toArrow(t)
	defer at.Release()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	w, err := pqarrow.NewFileWriter(at.Schema(), f, props, arrowProps)
	if err != nil {
		return fmt.Errorf("parquet writer: %w", err)
	}
	if err := w.WriteTable(at, max(at.NumRows(), 1)); err != nil {
		_ = w.Close()
		return fmt.Errorf("write parquet: %w", err)
	}
	return w.Close()
}
