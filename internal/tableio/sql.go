package tableio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

const (
	sqliteScheme = "sqlite://"
	mysqlScheme  = "mysql://"
)

var (
	ErrBadSource = errors.New("tableio: malformed SQL source")

	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// sqlSource is a parsed sqlite:// or mysql:// location.
type sqlSource struct {
	driver  string
	dsn     string
	table   string
	dialect dialect
}

type dialect struct {
	quote     func(string) string
	colType   map[record.ColumnType]string
	reinfer   bool
	boolAsInt bool
}

var (
	sqliteDialect = dialect{
		quote: func(s string) string { return `"` + s + `"` },
		colType: map[record.ColumnType]string{
			record.ColInt64:   "INTEGER",
			record.ColFloat64: "REAL",
			record.ColBool:    "INTEGER",
			record.ColText:    "TEXT",
		},
		boolAsInt: true,
	}
	// the text protocol hands most values back as bytes, so text is
	// re-inferred
	mysqlDialect = dialect{
		quote: func(s string) string { return "`" + s + "`" },
		colType: map[record.ColumnType]string{
			record.ColInt64:   "BIGINT",
			record.ColFloat64: "DOUBLE",
			record.ColBool:    "BOOLEAN",
			record.ColText:    "TEXT",
		},
		reinfer: true,
	}
)

func parseSQLSource(source string) (sqlSource, error) {
	var (
		src  sqlSource
		rest string
	)
	switch {
	case strings.HasPrefix(source, sqliteScheme):
		src.driver, src.dialect = "sqlite", sqliteDialect
		rest = strings.TrimPrefix(source, sqliteScheme)
	case strings.HasPrefix(source, mysqlScheme):
		src.driver, src.dialect = "mysql", mysqlDialect
		rest = strings.TrimPrefix(source, mysqlScheme)
	default:
		return src, fmt.Errorf("%w: %q", ErrBadSource, source)
	}

	base, rawQuery, _ := strings.Cut(rest, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return src, fmt.Errorf("%w: %v", ErrBadSource, err)
	}
	src.table = q.Get("table")
	if !identRe.MatchString(src.table) {
		return src, fmt.Errorf("%w: table %q is not a plain identifier", ErrBadSource, src.table)
	}
	q.Del("table")
	if base == "" {
		return src, fmt.Errorf("%w: empty location", ErrBadSource)
	}

	src.dsn = base
	if enc := q.Encode(); enc != "" {
		src.dsn += "?" + enc
	}
	return src, nil
}

func readSQL(ctx context.Context, source string) (*table.Table, error) {
	src, err := parseSQLSource(source)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(src.driver, src.dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readSQLTable(ctx, db, src)
}

func readSQLTable(ctx context.Context, db *sql.DB, src sqlSource) (*table.Table, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+src.dialect.quote(src.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	cols := make([][]any, len(names))
	dest := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for c, v := range dest {
			cell, err := record.Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", names[c], err)
			}
			cols[c] = append(cols[c], cell)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schema := record.Schema{Cols: make([]record.Column, len(names))}
	for c, name := range names {
		if cols[c] == nil {
			cols[c] = []any{}
		}
		typ, nullable, cells := record.UnifyColumn(cols[c], src.dialect.reinfer)
		schema.Cols[c] = record.Column{Name: name, Type: typ, Nullable: nullable}
		cols[c] = cells
	}

	out := make([][]any, n)
	for i := range out {
		out[i] = make([]any, len(names))
		for c := range names {
			out[i][c] = cols[c][i]
		}
	}
	return table.New(schema, out)
}

func writeSQL(ctx context.Context, t *table.Table, dest string) error {
	src, err := parseSQLSource(dest)
	if err != nil {
		return err
	}
	db, err := sql.Open(src.driver, src.dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return writeSQLTable(ctx, db, src, t)
}

// writeSQLTable replaces the destination table in a single transaction.
func writeSQLTable(ctx context.Context, db *sql.DB, src sqlSource, t *table.Table) error {
	d := src.dialect
	name := d.quote(src.table)

	defs := make([]string, t.NumCols())
	marks := make([]string, t.NumCols())
	for c, col := range t.Schema.Cols {
		if !identRe.MatchString(col.Name) {
			return fmt.Errorf("%w: column %q is not a plain identifier", ErrBadSource, col.Name)
		}
		defs[c] = d.quote(col.Name) + " " + d.colType[col.Type]
		marks[c] = "?"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for c := range args {
			v := t.Value(i, c)
			if b, ok := v.(bool); ok && d.boolAsInt {
				if b {
					v = int64(1)
				} else {
					v = int64(0)
				}
			}
			args[c] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}
