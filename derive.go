package tally

import (
	"github.com/pkg/errors"
	"math"
)

var ErrMeasurementOutOfRange = errors.New("measurement out of range")
var ErrUnknownCategory = errors.New("unknown category")

// Volume treats the measurement as a right circular cylinder.
func Volume(diameter, length float64) float64 {
	radius := diameter / 2
	return math.Pi * radius * radius * length
}

// Deriver validates measurements and computes the derived fields of a record.
// Both the public and the administrative insertion paths go through it.
type Deriver struct {
	Density        float64
	DiameterBounds Bounds
	LengthBounds   Bounds
}

func DefaultDeriver() Deriver {
	return Deriver{
		Density:        DefaultDensity,
		DiameterBounds: defaultDiameterBounds,
		LengthBounds:   defaultLengthBounds,
	}
}

func (d Deriver) Weight(volume float64) float64 {
	return volume * d.Density
}

func (d Deriver) Validate(m Measurement) error {
	if !(m.Diameter > 0) || !d.DiameterBounds.Contains(m.Diameter) {
		return errors.Wrapf(
			ErrMeasurementOutOfRange,
			"diameter %v not within [%v, %v]",
			m.Diameter, d.DiameterBounds.Min, d.DiameterBounds.Max,
		)
	}

	if !(m.Length > 0) || !d.LengthBounds.Contains(m.Length) {
		return errors.Wrapf(
			ErrMeasurementOutOfRange,
			"length %v not within [%v, %v]",
			m.Length, d.LengthBounds.Min, d.LengthBounds.Max,
		)
	}

	if !m.Category.Valid() {
		return errors.Wrapf(ErrUnknownCategory, "%q", m.Category)
	}

	return nil
}

func (d Deriver) Derive(m Measurement) (Record, error) {
	if err := d.Validate(m); err != nil {
		return Record{}, err
	}

	volume := Volume(m.Diameter, m.Length)

	return Record{
		Diameter: m.Diameter,
		Length:   m.Length,
		Volume:   volume,
		Weight:   d.Weight(volume),
		Category: m.Category,
	}, nil
}
