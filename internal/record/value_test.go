package record

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeTestSchema builds a simple schema used across tests.
func makeTestSchema() Schema {
	return Schema{
		Cols: []Column{
			{Name: "id", Type: ColInt64, Nullable: false},
			{Name: "active", Type: ColBool, Nullable: false},
			{Name: "score", Type: ColFloat64, Nullable: true},
			{Name: "name", Type: ColText, Nullable: true},
		},
	}
}

func TestSchema_IndexAndNames(t *testing.T) {
	s := makeTestSchema()
	require.Equal(t, 4, s.NumCols())
	require.Equal(t, 2, s.Index("score"))
	require.Equal(t, -1, s.Index("missing"))
	require.Equal(t, []string{"id", "active", "score", "name"}, s.Names())
}

func TestSchema_EqualIgnoresNullability(t *testing.T) {
	a := makeTestSchema()
	b := makeTestSchema()
	b.Cols[0].Nullable = true
	require.True(t, a.Equal(b))

	b.Cols[2].Type = ColText
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(Schema{}))
}

func TestCheckRow(t *testing.T) {
	s := makeTestSchema()

	require.NoError(t, CheckRow(s, []any{int64(1), true, 1.5, "x"}))
	require.NoError(t, CheckRow(s, []any{int64(1), false, nil, nil}))

	t.Run("wrong number of values", func(t *testing.T) {
		err := CheckRow(s, []any{int64(1)})
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("non-nullable column is nil", func(t *testing.T) {
		err := CheckRow(s, []any{nil, true, 1.0, "x"})
		require.ErrorIs(t, err, ErrNotNullable)
	})

	t.Run("wrong type for column", func(t *testing.T) {
		err := CheckRow(s, []any{"1", true, 1.0, "x"})
		require.ErrorIs(t, err, ErrWrongType)
	})
}

func TestEqual_NoCrossTypeCoercion(t *testing.T) {
	require.True(t, Equal(int64(1), int64(1)))
	require.True(t, Equal("Mammal", "Mammal"))
	require.True(t, Equal(true, true))
	require.True(t, Equal(2.5, 2.5))

	require.False(t, Equal(int64(1), 1.0))
	require.False(t, Equal("1", int64(1)))
	require.False(t, Equal(true, "True"))
	require.False(t, Equal(nil, nil))
	require.False(t, Equal(nil, "x"))
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{int32(7), int64(7)},
		{uint8(3), int64(3)},
		{float32(1.5), 1.5},
		{[]byte("abc"), "abc"},
		{math.NaN(), nil},
		{nil, nil},
		{"s", "s"},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}

	_, err := Normalize(struct{}{})
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestIsNull(t *testing.T) {
	require.True(t, IsNull(nil))
	require.True(t, IsNull(math.NaN()))
	require.False(t, IsNull(0.0))
	require.False(t, IsNull(""))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(ColInt64, "42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	v, err = ParseValue(ColFloat64, "2.5")
	require.NoError(t, err)
	require.Equal(t, 2.5, v)

	v, err = ParseValue(ColBool, "True")
	require.NoError(t, err)
	require.Equal(t, true, v)

	v, err = ParseValue(ColText, "Mammal")
	require.NoError(t, err)
	require.Equal(t, "Mammal", v)

	v, err = ParseValue(ColInt64, "NA")
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = ParseValue(ColFloat64, "NAN")
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = ParseValue(ColInt64, "abc")
	require.ErrorIs(t, err, ErrParse)
	_, err = ParseValue(ColBool, "yes")
	require.ErrorIs(t, err, ErrParse)
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "", FormatValue(nil))
	require.Equal(t, "12", FormatValue(int64(12)))
	require.Equal(t, "0.25", FormatValue(0.25))
	require.Equal(t, "2.0", FormatValue(2.0))
	require.Equal(t, "True", FormatValue(true))
	require.Equal(t, "Reptile", FormatValue("Reptile"))
}
