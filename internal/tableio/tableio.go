// Package tableio moves tables in and out of files and databases.
//
// Sources and destinations are plain paths, whose extension picks the
// format, or SQL URLs:
//
//	data.tsv, data.txt              tab separated, header row
//	data.csv (or anything else)     comma separated, header row
//	data.parquet                    Apache Parquet
//	sqlite://path/to/db?table=t     SQLite table
//	mysql://user:pw@tcp(h:3306)/db?table=t
package tableio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tuannm99/strata/internal/table"
)

var (
	ErrLoad  = errors.New("tableio: load failed")
	ErrWrite = errors.New("tableio: write failed")
)

type Format uint8

const (
	FormatCSV Format = iota
	FormatTSV
	FormatParquet
	FormatSQLite
	FormatMySQL
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatParquet:
		return "parquet"
	case FormatSQLite:
		return "sqlite"
	case FormatMySQL:
		return "mysql"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// DetectFormat picks a format from a source's scheme or extension. Unknown
// extensions are read as comma separated.
func DetectFormat(source string) Format {
	switch {
	case strings.HasPrefix(source, sqliteScheme):
		return FormatSQLite
	case strings.HasPrefix(source, mysqlScheme):
		return FormatMySQL
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".tsv", ".txt":
		return FormatTSV
	case ".parquet":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// EnsureExtension appends ".tsv" to file paths that carry no extension.
// SQL destinations are returned unchanged.
func EnsureExtension(dest string) string {
	if f := DetectFormat(dest); f == FormatSQLite || f == FormatMySQL {
		return dest
	}
	if filepath.Ext(dest) == "" {
		return dest + ".tsv"
	}
	return dest
}

// Load reads a whole table from source.
func Load(ctx context.Context, source string) (*table.Table, error) {
	var (
		t   *table.Table
		err error
	)
	switch DetectFormat(source) {
	case FormatTSV:
		t, err = readDelimitedFile(source, '\t')
	case FormatParquet:
		t, err = readParquetFile(ctx, source)
	case FormatSQLite, FormatMySQL:
		t, err = readSQL(ctx, source)
	default:
		t, err = readDelimitedFile(source, ',')
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, source, err)
	}
	return t, nil
}

// Write stores t at dest, replacing whatever was there.
func Write(ctx context.Context, t *table.Table, dest string) error {
	var err error
	switch DetectFormat(dest) {
	case FormatTSV:
		err = writeDelimitedFile(t, dest, '\t')
	case FormatParquet:
		err = writeParquetFile(t, dest)
	case FormatSQLite, FormatMySQL:
		err = writeSQL(ctx, t, dest)
	default:
		err = writeDelimitedFile(t, dest, ',')
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, dest, err)
	}
	return nil
}
