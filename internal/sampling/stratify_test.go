package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func scenarioRequest() Request {
	return Request{
		LabelColumn:        "Class",
		LabelValue:         "Mammal",
		GroupColumn:        "Order",
		RowQuotaEach:       4,
		GroupCountSelected: 2,
		GroupCountOther:    2,
		Mode:               ModeStrict,
	}
}

func TestStratify_Scenario(t *testing.T) {
	tbl := testData(t)
	for seed := uint64(0); seed < 10; seed++ {
		s := New(WithSeed(seed), WithOversampling())
		res, err := s.Stratify(tbl, scenarioRequest())
		require.NoError(t, err)

		out := res.Table
		require.Equal(t, 8, out.NumRows())
		require.True(t, out.Schema.Equal(tbl.Schema))

		classes := column(t, out, "Class")
		orders := column(t, out, "Order")
		for i := 0; i < 4; i++ {
			require.Equal(t, "Mammal", classes[i])
			require.Contains(t, []any{"Carnivora", "Primates"}, orders[i])
		}
		otherOrders := set(orders[4:])
		require.Len(t, otherOrders, 2)
		for i := 4; i < 8; i++ {
			require.NotEqual(t, "Mammal", classes[i])
		}

		require.ElementsMatch(t, []any{"Carnivora", "Primates"}, res.SelectedRoster)
		require.Len(t, res.OtherRoster, 2)
		require.Equal(t, set(res.OtherRoster), otherOrders)
	}
}

func TestStratify_RowCountIsTwiceQuota(t *testing.T) {
	tbl := wideData(t)
	s := New(WithSeed(4))
	req := Request{
		LabelColumn:        "Class",
		LabelValue:         "Bird",
		GroupColumn:        "Order",
		RowQuotaEach:       3,
		GroupCountSelected: 2,
		GroupCountOther:    3,
		Mode:               ModeStrict,
	}
	res, err := s.Stratify(tbl, req)
	require.NoError(t, err)
	require.Equal(t, 6, res.Table.NumRows())
}

func TestStratify_EmptyPartition(t *testing.T) {
	req := scenarioRequest()
	req.LabelValue = "Fish"
	for _, mode := range []Mode{ModeStrict, ModeLenient} {
		req.Mode = mode
		_, err := New(WithSeed(1), WithOversampling()).Stratify(testData(t), req)
		require.ErrorIs(t, err, ErrEmptyPartition)
	}
}

func TestStratify_InvalidColumns(t *testing.T) {
	s := New(WithSeed(1))

	req := scenarioRequest()
	req.LabelColumn = "Kingdom"
	_, err := s.Stratify(testData(t), req)
	require.ErrorIs(t, err, ErrInvalidColumn)

	req = scenarioRequest()
	req.GroupColumn = "Family"
	req.Other = OtherAll
	_, err = s.Stratify(testData(t), req)
	require.ErrorIs(t, err, ErrInvalidColumn)
}

func TestStratify_StrictPropagatesGroupShortfall(t *testing.T) {
	req := scenarioRequest()
	req.GroupCountSelected = 5
	_, err := New(WithSeed(1), WithOversampling()).Stratify(testData(t), req)
	require.ErrorIs(t, err, ErrInsufficientGroups)

	req = scenarioRequest()
	req.GroupCountOther = 10
	_, err = New(WithSeed(1), WithOversampling()).Stratify(testData(t), req)
	require.ErrorIs(t, err, ErrInsufficientGroups)
	require.Contains(t, err.Error(), "other partition")
}

func TestStratify_LenientClampsBothPartitions(t *testing.T) {
	req := scenarioRequest()
	req.Mode = ModeLenient
	req.GroupCountSelected = 5
	req.GroupCountOther = 10

	res, err := New(WithSeed(7), WithOversampling()).Stratify(testData(t), req)
	require.NoError(t, err)
	require.Equal(t, 8, res.Table.NumRows())
	require.Len(t, res.SelectedRoster, 2)
	require.Len(t, res.OtherRoster, 4)
}

func TestStratify_LenientStillFailsOnRows(t *testing.T) {
	req := scenarioRequest()
	req.Mode = ModeLenient
	req.GroupCountSelected = 5
	_, err := New(WithSeed(7)).Stratify(testData(t), req)
	require.ErrorIs(t, err, ErrInsufficientRows)
	require.NotErrorIs(t, err, ErrInsufficientGroups)
}

func TestStratify_OtherStrategies(t *testing.T) {
	tbl := wideData(t)
	req := Request{
		LabelColumn:        "Class",
		LabelValue:         "Reptile",
		GroupColumn:        "Order",
		RowQuotaEach:       3,
		GroupCountSelected: 2,
		Mode:               ModeStrict,
	}

	t.Run("all", func(t *testing.T) {
		req := req
		req.Other = OtherAll
		res, err := New(WithSeed(1)).Stratify(tbl, req)
		require.NoError(t, err)
		require.Equal(t, 3+tbl.NumRows()-4, res.Table.NumRows())
		require.Nil(t, res.OtherRoster)
		// unsampled partition keeps source order after the selected rows
		ids := column(t, res.Table, "ID")
		require.Equal(t, int64(1), ids[3])
	})

	t.Run("flat", func(t *testing.T) {
		req := req
		req.Other = OtherFlat
		res, err := New(WithSeed(1)).Stratify(tbl, req)
		require.NoError(t, err)
		require.Equal(t, 6, res.Table.NumRows())
		for _, c := range column(t, res.Table, "Class")[3:] {
			require.NotEqual(t, "Reptile", c)
		}
	})
}

func TestStratify_LogsRun(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(WithSeed(2), WithOversampling(), WithLogger(zap.New(core)))

	_, err := s.Stratify(testData(t), scenarioRequest())
	require.NoError(t, err)

	entries := logs.FilterMessage("stratified sample drawn").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.NotEmpty(t, fields["run_id"])
	require.Equal(t, int64(8), fields["rows"])
	require.Equal(t, "strict", fields["mode"])
}

func TestParseOtherStrategy(t *testing.T) {
	for in, want := range map[string]OtherStrategy{"": OtherGrouped, "Grouped": OtherGrouped, "flat": OtherFlat, "ALL": OtherAll} {
		got, err := ParseOtherStrategy(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseOtherStrategy("some")
	require.Error(t, err)
}
