package sampling

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

// SampleByGroup picks groupCount distinct values of groupColumn from subset
// and fills rowQuota rows by cycling over them, drawing one row per turn with
// replacement. Output order is draw order.
func (s *Sampler) SampleByGroup(subset *table.Table, groupColumn string, groupCount, rowQuota int, mode Mode) (*table.Table, error) {
	out, _, err := s.sampleByGroup(subset, groupColumn, groupCount, rowQuota, mode)
	return out, err
}

func (s *Sampler) sampleByGroup(
	subset *table.Table,
	groupColumn string,
	groupCount, rowQuota int,
	mode Mode,
) (*table.Table, []any, error) {
	if rowQuota < 0 {
		return nil, nil, fmt.Errorf("%w: row quota %d", ErrInvalidCount, rowQuota)
	}
	groups, err := subset.GroupIndex(groupColumn)
	if err != nil {
		return nil, nil, err
	}
	if rowQuota == 0 {
		return table.Empty(subset.Schema), nil, nil
	}
	if groupCount < 1 {
		return nil, nil, fmt.Errorf("%w: group count %d", ErrInvalidCount, groupCount)
	}

	roster, err := s.pickRoster(subset, groupColumn, groupCount, mode)
	if err != nil {
		return nil, nil, err
	}

	out, err := s.fill(subset, groups, roster, rowQuota)
	if err != nil {
		return nil, nil, err
	}
	return out, roster, nil
}

// pickRoster draws the active groups uniformly without replacement.
func (s *Sampler) pickRoster(subset *table.Table, groupColumn string, groupCount int, mode Mode) ([]any, error) {
	distinct, err := subset.Distinct(groupColumn)
	if err != nil {
		return nil, err
	}

	if groupCount > len(distinct) {
		if mode == ModeStrict {
			return nil, fmt.Errorf("%w: requested %d from %q, %d available",
				ErrInsufficientGroups, groupCount, groupColumn, len(distinct))
		}
		s.logger.Debug("clamping group count",
			zap.String("column", groupColumn),
			zap.Int("requested", groupCount),
			zap.Int("available", len(distinct)))
		groupCount = len(distinct)
	}

	picks := chooseDistinct(s.rng, len(distinct), groupCount)
	roster := make([]any, len(picks))
	for i, p := range picks {
		roster[i] = distinct[p]
	}
	return roster, nil
}

// FillQuota runs the cyclic fill over an explicit roster. Roster values that
// do not occur in subset are skipped on every turn.
func (s *Sampler) FillQuota(subset *table.Table, groupColumn string, roster []any, rowQuota int) (*table.Table, error) {
	if rowQuota < 0 {
		return nil, fmt.Errorf("%w: row quota %d", ErrInvalidCount, rowQuota)
	}
	groups, err := subset.GroupIndex(groupColumn)
	if err != nil {
		return nil, err
	}
	if rowQuota == 0 {
		return table.Empty(subset.Schema), nil
	}
	return s.fill(subset, groups, roster, rowQuota)
}

func (s *Sampler) fill(subset *table.Table, groups map[any][]int, roster []any, rowQuota int) (*table.Table, error) {
	population := 0
	for _, g := range roster {
		population += len(rowsOf(groups, g))
	}
	if err := s.guardRows(population, rowQuota); err != nil {
		return nil, fmt.Errorf("%w (roster %v)", err, roster)
	}

	picks, err := cycle(s.rng, groups, roster, rowQuota)
	if err != nil {
		return nil, err
	}
	return subset.Select(picks)
}

func (s *Sampler) guardRows(population, rowQuota int) error {
	if population == 0 || (!s.oversample && population < rowQuota) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientRows, rowQuota, population)
	}
	return nil
}

// cycle visits the roster round-robin and takes one random row from each
// non-empty group until quota positions are collected.
func cycle(r Rand, groups map[any][]int, roster []any, quota int) ([]int, error) {
	picks := make([]int, quota)
	if len(roster) == 0 && quota > 0 {
		return nil, ErrExhaustedGroups
	}
	misses := 0
	for n, turn := 0, 0; n < quota; turn++ {
		rows := rowsOf(groups, roster[turn%len(roster)])
		if len(rows) == 0 {
			misses++
			if misses >= len(roster) {
				return nil, fmt.Errorf("%w: %d of %d drawn", ErrExhaustedGroups, n, quota)
			}
			continue
		}
		misses = 0
		picks[n] = chooseOne(r, rows)
		n++
	}
	return picks, nil
}

// rowsOf looks a roster value up. Values that are not cell kinds (and so may
// not be hashable) have no rows.
func rowsOf(groups map[any][]int, g any) []int {
	if _, ok := record.TypeOf(g); !ok {
		return nil
	}
	return groups[g]
}

// SampleFlat draws rowQuota rows uniformly with replacement, ignoring groups.
func (s *Sampler) SampleFlat(subset *table.Table, rowQuota int) (*table.Table, error) {
	if rowQuota < 0 {
		return nil, fmt.Errorf("%w: row quota %d", ErrInvalidCount, rowQuota)
	}
	if rowQuota == 0 {
		return table.Empty(subset.Schema), nil
	}
	n := subset.NumRows()
	if err := s.guardRows(n, rowQuota); err != nil {
		return nil, err
	}
	picks := make([]int, rowQuota)
	for i := range picks {
		picks[i] = s.rng.IntN(n)
	}
	return subset.Select(picks)
}
