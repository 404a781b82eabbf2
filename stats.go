package tally

import (
	"github.com/pkg/errors"
	"math"
)

var ErrEmptyInput = errors.New("no records to aggregate")
var ErrInsufficientData = errors.New("not enough records to aggregate")

// FilterByCategory keeps records of the given category in their original order.
// AllCategories returns rs as is.
func FilterByCategory(rs []Record, selector Category) []Record {
	if selector == AllCategories {
		return rs
	}

	filtered := make([]Record, 0, len(rs))
	for i := range rs {
		if rs[i].Category == selector {
			filtered = append(filtered, rs[i])
		}
	}

	return filtered
}

// MaxByVolume returns the record with the greatest volume, first one wins ties.
func MaxByVolume(rs []Record) (Record, error) {
	if len(rs) == 0 {
		return Record{}, errors.Wrap(ErrEmptyInput, "max by volume")
	}

	best := 0
	for i := 1; i < len(rs); i++ {
		if rs[i].Volume > rs[best].Volume {
			best = i
		}
	}

	return rs[best], nil
}

// MinByVolume returns the record with the smallest volume, first one wins ties.
func MinByVolume(rs []Record) (Record, error) {
	if len(rs) == 0 {
		return Record{}, errors.Wrap(ErrEmptyInput, "min by volume")
	}

	best := 0
	for i := 1; i < len(rs); i++ {
		if rs[i].Volume < rs[best].Volume {
			best = i
		}
	}

	return rs[best], nil
}

func MeanWeight(rs []Record) (float64, error) {
	if len(rs) == 0 {
		return 0, errors.Wrap(ErrEmptyInput, "mean weight")
	}

	return mean(rs, weightOf), nil
}

func StdDevVolume(rs []Record) (float64, error) {
	if len(rs) < 2 {
		return 0, errors.Wrapf(ErrInsufficientData, "volume deviation needs 2 records, got %d", len(rs))
	}

	return sampleStdDev(rs, volumeOf), nil
}

func StdDevWeight(rs []Record) (float64, error) {
	if len(rs) < 2 {
		return 0, errors.Wrapf(ErrInsufficientData, "weight deviation needs 2 records, got %d", len(rs))
	}

	return sampleStdDev(rs, weightOf), nil
}

// Lengths extracts record lengths in order, ready for HistogramBins.
func Lengths(rs []Record) []float64 {
	ls := make([]float64, len(rs))
	for i := range rs {
		ls[i] = rs[i].Length
	}
	return ls
}

// CategoriesOf returns the distinct categories present in rs in first seen order.
func CategoriesOf(rs []Record) []Category {
	seen := make(map[Category]bool)
	var cs []Category
	for i := range rs {
		if !seen[rs[i].Category] {
			seen[rs[i].Category] = true
			cs = append(cs, rs[i].Category)
		}
	}
	return cs
}

type measure func(r *Record) float64

func volumeOf(r *Record) float64 { return r.Volume }
func weightOf(r *Record) float64 { return r.Weight }

func mean(rs []Record, m measure) float64 {
	var sum float64
	for i := range rs {
		sum += m(&rs[i])
	}
	return sum / float64(len(rs))
}

// sampleStdDev uses the n-1 divisor.
func sampleStdDev(rs []Record, m measure) float64 {
	avg := mean(rs, m)

	var sq float64
	for i := range rs {
		d := m(&rs[i]) - avg
		sq += d * d
	}

	return math.Sqrt(sq / float64(len(rs)-1))
}
