package tally_test

import (
	"context"
	"github.com/denismitr/tally"
	"path/filepath"
	"testing"
)

var seedMeasurements = []tally.Measurement{
	{Diameter: 3.0, Length: 12.0, Category: tally.Latin},
	{Diameter: 4.0, Length: 15.0, Category: tally.Asian},
	{Diameter: 3.5, Length: 13.2, Category: tally.Caucasian},
	{Diameter: 4.2, Length: 16.8, Category: tally.African},
	{Diameter: 2.8, Length: 11.1, Category: tally.Asian},
}

func tempPath(t *testing.T, name string) string {
	t.Helper()

	return filepath.Join(t.TempDir(), name)
}

func openSurvey(t *testing.T, path string, cfg *tally.Config) *tally.Survey {
	t.Helper()

	sv, closer, err := tally.Open(path, cfg)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := closer(); err != nil && err != tally.ErrSurveyClosed {
			t.Errorf("ERROR: %v", err)
		}
	})

	return sv
}

func seedSurvey(t *testing.T, sv *tally.Survey, ms []tally.Measurement) []tally.Record {
	t.Helper()

	var rs []tally.Record
	for _, m := range ms {
		r, err := sv.Submit(context.Background(), m)
		if err != nil {
			t.Fatal(err)
		}
		rs = append(rs, r)
	}

	return rs
}
