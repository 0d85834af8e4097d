package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrSchemaMismatch  = errors.New("record: schema/values mismatch")
	ErrNotNullable     = errors.New("record: null value in non-nullable column")
	ErrWrongType       = errors.New("record: value does not match column type")
	ErrUnsupportedType = errors.New("record: unsupported value type")
	ErrParse           = errors.New("record: cannot parse value")
)

// CheckRow validates that values fit the schema: same width, every cell of the
// column's Go type, nil only where the column is nullable.
func CheckRow(s Schema, values []any) error {
	if len(values) != s.NumCols() {
		return fmt.Errorf("%w: got %d values for %d columns", ErrSchemaMismatch, len(values), s.NumCols())
	}
	for i, col := range s.Cols {
		v := values[i]
		if IsNull(v) {
			if !col.Nullable {
				return fmt.Errorf("%w: %q", ErrNotNullable, col.Name)
			}
			continue
		}
		if !fits(col.Type, v) {
			return fmt.Errorf("%w: column %q (%s) got %T", ErrWrongType, col.Name, col.Type, v)
		}
	}
	return nil
}

func fits(t ColumnType, v any) bool {
	switch t {
	case ColInt64:
		_, ok := v.(int64)
		return ok
	case ColFloat64:
		_, ok := v.(float64)
		return ok
	case ColBool:
		_, ok := v.(bool)
		return ok
	case ColText:
		_, ok := v.(string)
		return ok
	default:
		return false
	}
}

// IsNull reports whether a cell is missing: nil or a NaN float.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

// Equal compares two cells without coercion. Missing never equals anything.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	switch x := a.(type) {
	case int64:
		y, ok := b.(int64)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	default:
		return false
	}
}

// TypeOf reports the column type of a normalized cell.
func TypeOf(v any) (ColumnType, bool) {
	switch v.(type) {
	case int64:
		return ColInt64, true
	case float64:
		return ColFloat64, true
	case bool:
		return ColBool, true
	case string:
		return ColText, true
	default:
		return 0, false
	}
}

// Normalize folds the value kinds produced by database drivers and arrow
// arrays onto the four cell kinds. NaN floats become missing.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64, bool, string:
		return x, nil
	case float64:
		if math.IsNaN(x) {
			return nil, nil
		}
		return x, nil
	case float32:
		if math.IsNaN(float64(x)) {
			return nil, nil
		}
		return float64(x), nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return strconv.FormatUint(x, 10), nil
		}
		return int64(x), nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

var missingMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// IsMissing reports whether a raw text cell denotes a missing value.
func IsMissing(raw string) bool {
	_, ok := missingMarkers[strings.TrimSpace(raw)]
	return ok
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// ParseValue converts raw text into a cell of the given type. Missing markers
// parse to nil.
func ParseValue(t ColumnType, raw string) (any, error) {
	if IsMissing(raw) {
		return nil, nil
	}
	s := strings.TrimSpace(raw)
	switch t {
	case ColInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrParse, raw)
		}
		return n, nil
	case ColFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrParse, raw)
		}
		if math.IsNaN(f) {
			// spellings like "NAN" that are not missing markers
			return nil, nil
		}
		return f, nil
	case ColBool:
		b, ok := parseBool(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrParse, raw)
		}
		return b, nil
	case ColText:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// FormatValue renders a cell as text. Missing renders as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eInfNa") {
			// keep integral floats distinguishable from integers
			s += ".0"
		}
		return s
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
