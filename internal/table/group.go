package table

import "github.com/tuannm99/strata/internal/record"

// Distinct returns the non-missing distinct values of a column in first-seen
// order.
func (t *Table) Distinct(name string) ([]any, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[any]struct{})
	out := make([]any, 0)
	for _, r := range t.rows {
		v := r[col]
		if record.IsNull(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// GroupIndex maps every non-missing value of a column to the positions of
// the rows holding it, in source order.
func (t *Table) GroupIndex(name string) (map[any][]int, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	idx := make(map[any][]int)
	for i, r := range t.rows {
		v := r[col]
		if record.IsNull(v) {
			continue
		}
		idx[v] = append(idx[v], i)
	}
	return idx, nil
}

// ColumnInfo summarises one column for discovery output.
type ColumnInfo struct {
	Name     string
	Type     record.ColumnType
	Distinct int
	Missing  int
}

// Describe returns a summary of every column in schema order.
func (t *Table) Describe() []ColumnInfo {
	out := make([]ColumnInfo, len(t.Schema.Cols))
	for c, col := range t.Schema.Cols {
		seen := make(map[any]struct{})
		missing := 0
		for _, r := range t.rows {
			if record.IsNull(r[c]) {
				missing++
				continue
			}
			seen[r[c]] = struct{}{}
		}
		out[c] = ColumnInfo{Name: col.Name, Type: col.Type, Distinct: len(seen), Missing: missing}
	}
	return out
}
