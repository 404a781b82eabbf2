package data

// Category is a demographic label attached to every record.
type Category string

const (
	Caucasian     Category = "Caucasica"
	African       Category = "Africana"
	Asian         Category = "Asiatica"
	Latin         Category = "Latina"
	MiddleEastern Category = "Mediorientale"
	Other         Category = "Altro"

	// All selects every record when filtering; it is never stored.
	All Category = "all"
)

var categories = []Category{Caucasian, African, Asian, Latin, MiddleEastern, Other}

// Categories returns the closed set of labels in presentation order.
func Categories() []Category {
	cs := make([]Category, len(categories))
	copy(cs, categories)
	return cs
}

func (c Category) Valid() bool {
	for i := range categories {
		if categories[i] == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// Measurement is what a submitter provides.
type Measurement struct {
	Diameter float64
	Length   float64
	Category Category
}

// Record field names are the on-disk contract shared with existing documents.
type Record struct {
	Diameter float64  `json:"diametro"`
	Length   float64  `json:"lunghezza"`
	Volume   float64  `json:"volume"`
	Weight   float64  `json:"peso"`
	Category Category `json:"etnia"`
}
