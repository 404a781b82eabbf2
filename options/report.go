package options

import "github.com/denismitr/tally/internal/data"

type ReportOptions struct {
	Category data.Category
	BinWidth float64
}

func (ro *ReportOptions) SetCategory(c data.Category) *ReportOptions {
	ro.Category = c
	return ro
}

// SetBinWidth overrides the configured histogram bin width, 0 keeps it.
func (ro *ReportOptions) SetBinWidth(w float64) *ReportOptions {
	ro.BinWidth = w
	return ro
}

func Report() *ReportOptions {
	return &ReportOptions{Category: data.All}
}
