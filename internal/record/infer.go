package record

import (
	"strconv"
	"strings"
)

// InferColumn picks the narrowest type that parses every non-missing raw
// cell, trying int64, then float64, then bool, falling back to text. It
// returns the type, whether any cell was missing, and the parsed cells.
// A column with no values at all is text.
func InferColumn(raw []string) (ColumnType, bool, []any) {
	isInt, isFloat, isBool := true, true, true
	present := 0
	nullable := false

	for _, r := range raw {
		if IsMissing(r) {
			nullable = true
			continue
		}
		present++
		s := strings.TrimSpace(r)
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(s); !ok {
				isBool = false
			}
		}
	}

	typ := ColText
	switch {
	case present == 0:
		typ = ColText
	case isInt:
		typ = ColInt64
	case isFloat:
		typ = ColFloat64
	case isBool:
		typ = ColBool
	}

	out := make([]any, len(raw))
	for i, r := range raw {
		if typ == ColText {
			if IsMissing(r) {
				out[i] = nil
			} else {
				out[i] = r
			}
			continue
		}
		// every present cell already parsed once above
		v, _ := ParseValue(typ, r)
		if v == nil {
			nullable = true
		}
		out[i] = v
	}
	return typ, nullable, out
}

// UnifyColumn settles a type for cells that arrived already typed (from a
// database or a columnar file). Mixed int64/float64 widens to float64 and
// anything else mixed becomes text. With reinferText an all-text column is
// re-inferred from its text. The returned cells fit the returned type.
func UnifyColumn(cells []any, reinferText bool) (ColumnType, bool, []any) {
	var (
		seen     = map[ColumnType]bool{}
		nullable bool
	)
	for _, c := range cells {
		if c == nil {
			nullable = true
			continue
		}
		if t, ok := TypeOf(c); ok {
			seen[t] = true
		}
	}

	switch {
	case len(seen) == 0:
		return ColText, nullable, cells
	case len(seen) == 1 && seen[ColText] && reinferText:
		raw := make([]string, len(cells))
		for i, c := range cells {
			raw[i] = FormatValue(c)
		}
		return InferColumn(raw)
	case len(seen) == 1:
		for t := range seen {
			return t, nullable, cells
		}
	case len(seen) == 2 && seen[ColInt64] && seen[ColFloat64]:
		out := make([]any, len(cells))
		for i, c := range cells {
			if n, ok := c.(int64); ok {
				out[i] = float64(n)
			} else {
				out[i] = c
			}
		}
		return ColFloat64, nullable, out
	}

	out := make([]any, len(cells))
	for i, c := range cells {
		if c == nil {
			continue
		}
		out[i] = FormatValue(c)
	}
	return ColText, nullable, out
}
