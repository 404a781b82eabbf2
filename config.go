package tally

import (
	"github.com/denismitr/tally/internal/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"math"
)

var ErrInvalidConfig = errors.New("invalid config")

const InMemory = ":memory:"

// DefaultDensity is the tissue density in g/cm³ used to estimate weight.
const DefaultDensity = 1.05

const defaultBinWidth = 1.0

var (
	defaultDiameterBounds = Bounds{Min: 1, Max: 10}
	defaultLengthBounds   = Bounds{Min: 2, Max: 30}
)

type Driver = storage.Driver

const (
	JSON   = storage.JSON
	SQLite = storage.SQLite
	Memory = storage.Memory
)

// Bounds is an inclusive range.
type Bounds struct {
	Min, Max float64
}

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// valid rejects NaN as well as empty or non positive ranges.
func (b Bounds) valid() bool {
	return b.Min > 0 && b.Max >= b.Min && !math.IsInf(b.Max, 1)
}

func (b Bounds) isZero() bool {
	return b.Min == 0 && b.Max == 0
}

type Config struct {
	Driver          Driver
	Density         float64
	DiameterBounds  Bounds
	LengthBounds    Bounds
	BinWidth        float64
	DetectConflicts bool
	Logger          *zap.Logger
}

// applyTo validates a copy of cfg with defaults filled in; the caller's
// Config is left as given.
func (cfg *Config) applyTo(s *Survey) error {
	c := *cfg

	if c.Driver == "" {
		c.Driver = JSON
	}

	if c.Density == 0 {
		c.Density = DefaultDensity
	}

	if !(c.Density > 0) || math.IsInf(c.Density, 1) {
		return errors.Wrapf(ErrInvalidConfig, "density %v must be positive", c.Density)
	}

	if c.DiameterBounds.isZero() {
		c.DiameterBounds = defaultDiameterBounds
	}

	if c.LengthBounds.isZero() {
		c.LengthBounds = defaultLengthBounds
	}

	if !c.DiameterBounds.valid() {
		return errors.Wrapf(ErrInvalidConfig, "diameter bounds %+v", c.DiameterBounds)
	}

	if !c.LengthBounds.valid() {
		return errors.Wrapf(ErrInvalidConfig, "length bounds %+v", c.LengthBounds)
	}

	if c.BinWidth == 0 {
		c.BinWidth = defaultBinWidth
	}

	if !(c.BinWidth > 0) || math.IsInf(c.BinWidth, 1) {
		return errors.Wrapf(ErrInvalidConfig, "bin width %v must be positive", c.BinWidth)
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	s.cfg = &c
	s.deriver = Deriver{
		Density:        c.Density,
		DiameterBounds: c.DiameterBounds,
		LengthBounds:   c.LengthBounds,
	}
	s.log = c.Logger

	return nil
}
