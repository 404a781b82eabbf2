package tally

import (
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
	"math"
)

var ErrInvalidBinWidth = errors.New("bin width must be positive")
var ErrInvalidLength = errors.New("length must be finite")

// binEpsilon absorbs float error when a value sits on a bin boundary.
const binEpsilon = 1e-9

const maxBins = 10000

type Bin struct {
	Start float64
	Count int
}

type binSlot struct {
	idx   int
	count int
}

func byBinIndex(a, b interface{}) bool {
	return a.(*binSlot).idx < b.(*binSlot).idx
}

// HistogramBins lays bins from floor(min) through ceil(max)+1 inclusive,
// binWidth apart. The top bin is always one step past the data and stays
// empty. Each value is counted in the bin whose start is nearest to it,
// halfway values going to the upper bin.
func HistogramBins(lengths []float64, binWidth float64) ([]Bin, error) {
	if len(lengths) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "histogram")
	}

	if !(binWidth > 0) || math.IsInf(binWidth, 1) {
		return nil, errors.Wrapf(ErrInvalidBinWidth, "got %v", binWidth)
	}

	for i, l := range lengths {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return nil, errors.Wrapf(ErrInvalidLength, "length %d is %v", i, l)
		}
	}

	lo, hi := lengths[0], lengths[0]
	for _, l := range lengths[1:] {
		if l < lo {
			lo = l
		}
		if l > hi {
			hi = l
		}
	}

	start := math.Floor(lo)
	top := math.Ceil(hi) + 1
	steps := math.Floor((top-start)/binWidth + binEpsilon)
	if steps >= maxBins {
		return nil, errors.Wrapf(ErrInvalidBinWidth, "%v yields more than %d bins", binWidth, maxBins)
	}
	n := int(steps) + 1

	tr := btree.NewNonConcurrent(byBinIndex)
	for i := 0; i < n; i++ {
		tr.Set(&binSlot{idx: i})
	}

	for _, l := range lengths {
		idx := int(math.Floor((l-start)/binWidth + 0.5 + binEpsilon))
		if idx >= n {
			idx = n - 1
		}

		slot, ok := tr.Get(&binSlot{idx: idx}).(*binSlot)
		if !ok {
			return nil, errors.Errorf("no histogram bin %d for length %v", idx, l)
		}
		slot.count++
	}

	bins := make([]Bin, 0, n)
	tr.Ascend(nil, func(item interface{}) bool {
		s := item.(*binSlot)
		bins = append(bins, Bin{Start: start + float64(s.idx)*binWidth, Count: s.count})
		return true
	})

	return bins, nil
}
