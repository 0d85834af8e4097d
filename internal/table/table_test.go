package table

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/strata/internal/record"
)

func animals(t *testing.T) *Table {
	t.Helper()
	schema := record.Schema{Cols: []record.Column{
		{Name: "Class", Type: record.ColText},
		{Name: "Order", Type: record.ColText, Nullable: true},
		{Name: "Legs", Type: record.ColInt64},
	}}
	tbl, err := New(schema, [][]any{
		{"Mammal", "Carnivora", int64(4)},
		{"Mammal", "Primates", int64(2)},
		{"Bird", "Passeriformes", int64(2)},
		{"Bird", nil, int64(2)},
		{"Reptile", "Squamata", int64(0)},
		{"Mammal", "Carnivora", int64(4)},
	})
	require.NoError(t, err)
	return tbl
}

func TestNew_RejectsBadRow(t *testing.T) {
	schema := record.Schema{Cols: []record.Column{{Name: "a", Type: record.ColInt64}}}
	_, err := New(schema, [][]any{{int64(1)}, {"x"}})
	require.ErrorIs(t, err, record.ErrWrongType)
	require.Contains(t, err.Error(), "row 1")
}

func TestColumn_Invalid(t *testing.T) {
	tbl := animals(t)
	idx, err := tbl.Column("Order")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	_, err = tbl.Column("Family")
	require.ErrorIs(t, err, ErrInvalidColumn)
}

func TestRow_ReturnsCopy(t *testing.T) {
	tbl := animals(t)
	r := tbl.Row(0)
	r[0] = "Changed"
	require.Equal(t, "Mammal", tbl.Value(0, 0))
}

func TestSelect_RepeatsAndOrder(t *testing.T) {
	tbl := animals(t)
	out, err := tbl.Select([]int{4, 0, 4})
	require.NoError(t, err)
	require.Equal(t, 3, out.NumRows())

	want := [][]any{
		{"Reptile", "Squamata", int64(0)},
		{"Mammal", "Carnivora", int64(4)},
		{"Reptile", "Squamata", int64(0)},
	}
	if diff := cmp.Diff(want, out.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	_, err = tbl.Select([]int{6})
	require.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestWhere_PreservesOrder(t *testing.T) {
	tbl := animals(t)
	out := tbl.Where(0, func(v any) bool { return v == "Mammal" })
	require.Equal(t, 3, out.NumRows())
	require.Equal(t, "Primates", out.Value(1, 1))
	require.Equal(t, 6, tbl.NumRows())
}

func TestConcat(t *testing.T) {
	tbl := animals(t)
	a, err := tbl.Select([]int{0})
	require.NoError(t, err)
	b, err := tbl.Select([]int{2, 3})
	require.NoError(t, err)

	out, err := Concat(a, b)
	require.NoError(t, err)
	require.Equal(t, 3, out.NumRows())
	require.Equal(t, "Mammal", out.Value(0, 0))
	require.Equal(t, "Bird", out.Value(2, 0))

	other := Empty(record.Schema{Cols: []record.Column{{Name: "x", Type: record.ColText}}})
	_, err = Concat(a, other)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDistinct_SkipsMissingKeepsFirstSeenOrder(t *testing.T) {
	tbl := animals(t)
	vals, err := tbl.Distinct("Order")
	require.NoError(t, err)
	require.Equal(t, []any{"Carnivora", "Primates", "Passeriformes", "Squamata"}, vals)

	_, err = tbl.Distinct("nope")
	require.ErrorIs(t, err, ErrInvalidColumn)
}

func TestGroupIndex(t *testing.T) {
	tbl := animals(t)
	idx, err := tbl.GroupIndex("Order")
	require.NoError(t, err)
	require.Equal(t, []int{0, 5}, idx["Carnivora"])
	require.Len(t, idx, 4)
}

func TestDescribe(t *testing.T) {
	tbl := animals(t)
	info := tbl.Describe()
	require.Len(t, info, 3)
	require.Equal(t, ColumnInfo{Name: "Class", Type: record.ColText, Distinct: 3}, info[0])
	require.Equal(t, 1, info[1].Missing)
	require.Equal(t, 3, info[2].Distinct)
}

func TestRender(t *testing.T) {
	tbl := animals(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tbl, 2))

	out := buf.String()
	require.Contains(t, out, "Mammal | Carnivora")
	require.Contains(t, out, "... 4 more")
	require.Contains(t, out, "(6 rows)")
	require.NotContains(t, out, "Reptile")
}

func TestNew_NaNIsMissing(t *testing.T) {
	schema := record.Schema{Cols: []record.Column{
		{Name: "Class", Type: record.ColText},
		{Name: "Score", Type: record.ColFloat64, Nullable: true},
	}}
	tbl, err := New(schema, [][]any{
		{"a", 1.5},
		{"b", math.NaN()},
		{"c", math.NaN()},
	})
	require.NoError(t, err)
	require.Nil(t, tbl.Value(1, 1))

	vals, err := tbl.Distinct("Score")
	require.NoError(t, err)
	require.Equal(t, []any{1.5}, vals)

	idx, err := tbl.GroupIndex("Score")
	require.NoError(t, err)
	require.Len(t, idx, 1)

	info := tbl.Describe()
	require.Equal(t, 1, info[1].Distinct)
	require.Equal(t, 2, info[1].Missing)

	schema.Cols[1].Nullable = false
	_, err = New(schema, [][]any{{"a", math.NaN()}})
	require.ErrorIs(t, err, record.ErrNotNullable)
}

func TestRender_AlignsMultiByteValues(t *testing.T) {
	schema := record.Schema{Cols: []record.Column{
		{Name: "Name", Type: record.ColText},
		{Name: "N", Type: record.ColInt64},
	}}
	tbl, err := New(schema, [][]any{
		{"Bär", int64(1)},
		{"Elch", int64(2)},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tbl, 0))
	out := buf.String()
	require.Contains(t, out, "Bär  | 1")
	require.Contains(t, out, "Elch | 2")
}
