package sampling

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/table"
)

// OtherStrategy says how the complementary partition is drawn.
type OtherStrategy uint8

const (
	// OtherGrouped samples the complementary partition exactly like the
	// selected one, with GroupCountOther groups.
	OtherGrouped OtherStrategy = iota
	// OtherFlat draws RowQuotaEach rows ignoring groups.
	OtherFlat
	// OtherAll keeps the whole complementary partition unsampled.
	OtherAll
)

func (o OtherStrategy) String() string {
	switch o {
	case OtherGrouped:
		return "grouped"
	case OtherFlat:
		return "flat"
	case OtherAll:
		return "all"
	default:
		return fmt.Sprintf("OtherStrategy(%d)", uint8(o))
	}
}

func ParseOtherStrategy(s string) (OtherStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "grouped":
		return OtherGrouped, nil
	case "flat":
		return OtherFlat, nil
	case "all":
		return OtherAll, nil
	default:
		return 0, fmt.Errorf("sampling: unknown other strategy %q (want grouped|flat|all)", s)
	}
}

// Request describes one stratified draw.
type Request struct {
	LabelColumn        string
	LabelValue         any
	GroupColumn        string
	RowQuotaEach       int
	GroupCountSelected int
	GroupCountOther    int
	Mode               Mode
	Other              OtherStrategy
}

// Outcome is the merged sample plus the rosters that produced it. A roster
// is nil when its partition was not drawn by group.
type Outcome struct {
	Table          *table.Table
	SelectedRoster []any
	OtherRoster    []any
}

// Stratify samples the rows matching LabelValue and the rows that do not,
// each organised around GroupColumn, and concatenates them selected-first.
func (s *Sampler) Stratify(t *table.Table, req Request) (*Outcome, error) {
	log := s.logger.With(zap.String("run_id", uuid.NewString()))

	selected, err := Filter(t, req.LabelColumn, req.LabelValue, false)
	if err != nil {
		return nil, err
	}
	// checked here too since OtherAll never reads the group column
	if _, err := t.Column(req.GroupColumn); err != nil {
		return nil, err
	}
	if selected.NumRows() == 0 {
		return nil, fmt.Errorf("%w: no rows with %s = %s",
			ErrEmptyPartition, req.LabelColumn, record.FormatValue(req.LabelValue))
	}
	other, err := Filter(t, req.LabelColumn, req.LabelValue, true)
	if err != nil {
		return nil, err
	}

	log.Debug("partitioned",
		zap.String("label_column", req.LabelColumn),
		zap.Int("selected_rows", selected.NumRows()),
		zap.Int("other_rows", other.NumRows()))

	selSample, selRoster, err := s.sampleByGroup(selected, req.GroupColumn, req.GroupCountSelected, req.RowQuotaEach, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("selected partition: %w", err)
	}

	var (
		otherSample *table.Table
		otherRoster []any
	)
	switch req.Other {
	case OtherGrouped:
		otherSample, otherRoster, err = s.sampleByGroup(other, req.GroupColumn, req.GroupCountOther, req.RowQuotaEach, req.Mode)
	case OtherFlat:
		otherSample, err = s.SampleFlat(other, req.RowQuotaEach)
	case OtherAll:
		otherSample = other
	default:
		err = fmt.Errorf("unknown strategy %s", req.Other)
	}
	if err != nil {
		return nil, fmt.Errorf("other partition: %w", err)
	}

	merged, err := table.Concat(selSample, otherSample)
	if err != nil {
		return nil, err
	}

	log.Info("stratified sample drawn",
		zap.String("label", record.FormatValue(req.LabelValue)),
		zap.String("group_column", req.GroupColumn),
		zap.Stringer("mode", req.Mode),
		zap.Stringer("other", req.Other),
		zap.Any("selected_roster", selRoster),
		zap.Any("other_roster", otherRoster),
		zap.Int("rows", merged.NumRows()))

	return &Outcome{Table: merged, SelectedRoster: selRoster, OtherRoster: otherRoster}, nil
}
