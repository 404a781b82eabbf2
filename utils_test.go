package tally_test

import (
	"github.com/denismitr/tally"
	"math"
	"math/rand"
	"time"
)

var seeded *rand.Rand

func init() {
	seeded = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RandomMeasurement returns a valid measurement rounded to one decimal,
// the way the survey form collects them.
func RandomMeasurement() tally.Measurement {
	cs := tally.Categories()

	return tally.Measurement{
		Diameter: oneDecimal(1 + seeded.Float64()*9),
		Length:   oneDecimal(2 + seeded.Float64()*28),
		Category: cs[seeded.Intn(len(cs))],
	}
}

func RandomMeasurements(n int) []tally.Measurement {
	ms := make([]tally.Measurement, n)
	for i := range ms {
		ms[i] = RandomMeasurement()
	}
	return ms
}

func oneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
