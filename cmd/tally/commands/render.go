package commands

import (
	"encoding/json"
	"fmt"
	"github.com/denismitr/tally"
	"io"
	"strings"
	"text/tabwriter"
)

const notAvailable = "n/a"

func renderAwaiting(w io.Writer, category tally.Category, asJSON bool) error {
	msg := "awaiting data"
	if category != "" && category != tally.AllCategories {
		msg = fmt.Sprintf("awaiting data for category %s", category)
	}

	if asJSON {
		return json.NewEncoder(w).Encode(map[string]string{"status": msg})
	}

	_, err := fmt.Fprintln(w, msg)
	return err
}

func renderReport(w io.Writer, r *tally.Report) {
	fmt.Fprintln(w, "General statistics")
	renderStats(w, r.Overall)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Category: %s\n", r.Category)
	renderStats(w, r.Selected)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Length distribution (bin %g cm)\n", r.BinWidth)
	renderHistogram(w, r.Histogram)
}

func renderStats(w io.Writer, st tally.Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "  Records\t%d\n", st.Count)
	fmt.Fprintf(tw, "  Largest volume\t%s\n", describe(st.Largest))
	fmt.Fprintf(tw, "  Smallest volume\t%s\n", describe(st.Smallest))
	fmt.Fprintf(tw, "  Mean weight\t%.2f g\n", st.MeanWeight)
	fmt.Fprintf(tw, "  Volume std dev\t%s\n", spread(st.HasSpread, st.StdDevVolume, "cm³"))
	fmt.Fprintf(tw, "  Weight std dev\t%s\n", spread(st.HasSpread, st.StdDevWeight, "g"))

	_ = tw.Flush()
}

func renderHistogram(w io.Writer, bins []tally.Bin) {
	for _, b := range bins {
		fmt.Fprintf(w, "  %6.1f | %s %d\n", b.Start, strings.Repeat("#", b.Count), b.Count)
	}
}

func describe(r tally.Record) string {
	return fmt.Sprintf("%.2f cm³ (%s, diameter %g cm, length %g cm)", r.Volume, r.Category, r.Diameter, r.Length)
}

func spread(ok bool, v float64, unit string) string {
	if !ok {
		return notAvailable
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}

type recordView struct {
	Diameter float64 `json:"diametro"`
	Length   float64 `json:"lunghezza"`
	Volume   float64 `json:"volume"`
	Weight   float64 `json:"peso"`
	Category string  `json:"etnia"`
}

type statsView struct {
	Count        int        `json:"count"`
	Largest      recordView `json:"largest"`
	Smallest     recordView `json:"smallest"`
	MeanWeight   float64    `json:"mean_weight"`
	StdDevVolume *float64   `json:"stddev_volume"`
	StdDevWeight *float64   `json:"stddev_weight"`
}

type binView struct {
	Start float64 `json:"start"`
	Count int     `json:"count"`
}

type reportView struct {
	Overall     statsView `json:"overall"`
	Category    string    `json:"category"`
	Selected    statsView `json:"selected"`
	BinWidth    float64   `json:"bin_width"`
	Histogram   []binView `json:"histogram"`
	Categories  []string  `json:"categories"`
	Fingerprint string    `json:"fingerprint"`
}

func newRecordView(r tally.Record) recordView {
	return recordView{
		Diameter: r.Diameter,
		Length:   r.Length,
		Volume:   r.Volume,
		Weight:   r.Weight,
		Category: string(r.Category),
	}
}

// undefined spreads encode as null
func newStatsView(st tally.Stats) statsView {
	v := statsView{
		Count:      st.Count,
		Largest:    newRecordView(st.Largest),
		Smallest:   newRecordView(st.Smallest),
		MeanWeight: st.MeanWeight,
	}

	if st.HasSpread {
		sdVolume, sdWeight := st.StdDevVolume, st.StdDevWeight
		v.StdDevVolume = &sdVolume
		v.StdDevWeight = &sdWeight
	}

	return v
}

func newReportView(r *tally.Report) reportView {
	v := reportView{
		Overall:     newStatsView(r.Overall),
		Category:    string(r.Category),
		Selected:    newStatsView(r.Selected),
		BinWidth:    r.BinWidth,
		Histogram:   make([]binView, 0, len(r.Histogram)),
		Categories:  make([]string, 0, len(r.Categories)),
		Fingerprint: fmt.Sprintf("%016x", r.Fingerprint),
	}

	for _, b := range r.Histogram {
		v.Histogram = append(v.Histogram, binView{Start: b.Start, Count: b.Count})
	}

	for _, c := range r.Categories {
		v.Categories = append(v.Categories, string(c))
	}

	return v
}
