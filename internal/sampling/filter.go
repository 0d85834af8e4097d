package sampling

import (
	"math"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

// Filter returns the rows whose column equals value, or differs from it when
// negate is set. Source order and all columns are preserved. Missing cells
// never equal value, so they always land in the negated side. Go integer
// and float kinds are widened to int64/float64 before comparing; nothing
// else is converted.
func Filter(t *table.Table, column string, value any, negate bool) (*table.Table, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	value = widenNumeric(value)
	return t.Where(col, func(v any) bool {
		return record.Equal(v, value) != negate
	}), nil
}

func widenNumeric(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x)
		}
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
	case float32:
		return float64(x)
	}
	return v
}
