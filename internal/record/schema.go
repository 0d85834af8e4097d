package record

import "fmt"

type ColumnType uint8

const (
	ColInt64 ColumnType = iota
	ColFloat64
	ColBool
	ColText // UTF-8
)

func (t ColumnType) String() string {
	switch t {
	case ColInt64:
		return "int64"
	case ColFloat64:
		return "float64"
	case ColBool:
		return "bool"
	case ColText:
		return "text"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

type Schema struct {
	Cols []Column
}

func (s Schema) NumCols() int { return len(s.Cols) }

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) Names() []string {
	out := make([]string, len(s.Cols))
	for i, c := range s.Cols {
		out[i] = c.Name
	}
	return out
}

// Equal reports whether both schemas have the same column names and types in
// the same order. Nullability is ignored.
func (s Schema) Equal(o Schema) bool {
	if len(s.Cols) != len(o.Cols) {
		return false
	}
	for i := range s.Cols {
		if s.Cols[i].Name != o.Cols[i].Name || s.Cols[i].Type != o.Cols[i].Type {
			return false
		}
	}
	return true
}
