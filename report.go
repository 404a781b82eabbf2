package tally

import (
	"github.com/denismitr/tally/options"
	"github.com/pkg/errors"
)

// Stats are the descriptive statistics of one sequence of records.
// Spreads are only meaningful when HasSpread is true.
type Stats struct {
	Count        int
	Largest      Record
	Smallest     Record
	MeanWeight   float64
	StdDevVolume float64
	StdDevWeight float64
	HasSpread    bool
}

type Report struct {
	Overall     Stats
	Category    Category
	Selected    Stats
	Histogram   []Bin
	BinWidth    float64
	Categories  []Category
	Fingerprint uint64
}

func Summarize(rs []Record) (Stats, error) {
	largest, err := MaxByVolume(rs)
	if err != nil {
		return Stats{}, err
	}

	smallest, err := MinByVolume(rs)
	if err != nil {
		return Stats{}, err
	}

	meanWeight, err := MeanWeight(rs)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Count:      len(rs),
		Largest:    largest,
		Smallest:   smallest,
		MeanWeight: meanWeight,
	}

	sdVolume, err := StdDevVolume(rs)
	if errors.Is(err, ErrInsufficientData) {
		return st, nil
	} else if err != nil {
		return Stats{}, err
	}

	sdWeight, err := StdDevWeight(rs)
	if err != nil {
		return Stats{}, err
	}

	st.StdDevVolume = sdVolume
	st.StdDevWeight = sdWeight
	st.HasSpread = true

	return st, nil
}

// BuildReport computes overall statistics over rs, plus statistics and the
// length histogram of the category picked in opts.
func BuildReport(rs []Record, opts *options.ReportOptions) (*Report, error) {
	if opts == nil {
		opts = options.Report()
	}

	selector := opts.Category
	if selector == "" {
		selector = AllCategories
	}

	if selector != AllCategories && !selector.Valid() {
		return nil, errors.Wrapf(ErrUnknownCategory, "%q", selector)
	}

	binWidth := opts.BinWidth
	if binWidth == 0 {
		binWidth = defaultBinWidth
	}

	overall, err := Summarize(rs)
	if err != nil {
		return nil, errors.Wrap(err, "awaiting data")
	}

	filtered := FilterByCategory(rs, selector)
	selected, err := Summarize(filtered)
	if err != nil {
		return nil, errors.Wrapf(err, "awaiting data for category %s", selector)
	}

	bins, err := HistogramBins(Lengths(filtered), binWidth)
	if err != nil {
		return nil, err
	}

	return &Report{
		Overall:     overall,
		Category:    selector,
		Selected:    selected,
		Histogram:   bins,
		BinWidth:    binWidth,
		Categories:  CategoriesOf(rs),
		Fingerprint: Fingerprint(rs),
	}, nil
}
