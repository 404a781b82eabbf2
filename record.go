package tally

import "github.com/denismitr/tally/internal/data"

type (
	Record      = data.Record
	Measurement = data.Measurement
	Category    = data.Category
)

const (
	Caucasian     = data.Caucasian
	African       = data.African
	Asian         = data.Asian
	Latin         = data.Latin
	MiddleEastern = data.MiddleEastern
	Other         = data.Other

	AllCategories = data.All
)

// Categories lists every label a record may carry.
func Categories() []Category {
	return data.Categories()
}
