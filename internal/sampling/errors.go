package sampling

import (
	"errors"

	"github.com/tuannm99/strata/internal/table"
)

var (
	// ErrInvalidColumn is returned when a referenced column is absent.
	ErrInvalidColumn = table.ErrInvalidColumn

	ErrEmptyPartition     = errors.New("sampling: selected partition is empty")
	ErrInsufficientGroups = errors.New("sampling: not enough distinct groups")
	ErrInsufficientRows   = errors.New("sampling: not enough rows in roster")
	ErrInvalidCount       = errors.New("sampling: invalid count")

	// ErrExhaustedGroups means the cyclic fill went a whole cycle without a
	// non-empty group. The row guard makes this unreachable from
	// SampleByGroup; it can only surface from FillQuota with a foreign roster.
	ErrExhaustedGroups = errors.New("sampling: roster exhausted before quota")
)
