package sampling

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Mode decides what happens when a requested group count exceeds the
// distinct groups available.
type Mode uint8

const (
	// ModeStrict fails with ErrInsufficientGroups.
	ModeStrict Mode = iota
	// ModeLenient clamps the group count to what is available.
	ModeLenient
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLenient:
		return "lenient"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return ModeStrict, nil
	case "lenient", "clamp":
		return ModeLenient, nil
	default:
		return 0, fmt.Errorf("sampling: unknown mode %q (want strict|lenient)", s)
	}
}

// Sampler draws grouped samples from tables. It holds no reference to any
// table between calls.
type Sampler struct {
	rng        Rand
	logger     *zap.Logger
	oversample bool
}

type Option func(*Sampler)

// WithRand injects the random source.
func WithRand(r Rand) Option {
	return func(s *Sampler) { s.rng = r }
}

// WithSeed makes every draw reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) { s.rng = newRand(seed) }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOversampling relaxes the row guard: a quota larger than the roster's
// physical row count is filled by drawing rows again, and only an empty
// roster fails with ErrInsufficientRows.
func WithOversampling() Option {
	return func(s *Sampler) { s.oversample = true }
}

func New(opts ...Option) *Sampler {
	s := &Sampler{logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = newRand(clockSeed())
	}
	return s
}
