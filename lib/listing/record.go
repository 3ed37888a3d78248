// Package listing holds the data model shared by the extraction,
// scoring and storage layers.
package listing

// Record is the structured view of one business-for-sale page.
// An empty string means the field could not be located; the record is
// immutable once returned by the extractor.
type Record struct {
	Site        string `json:"site"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Revenue     string `json:"revenue"`
	Employees   string `json:"employees"`
	Description string `json:"description"`
}

// Fields enumerates the extractable fields, in presentation order.
var Fields = []string{
	"title",
	"location",
	"price",
	"revenue",
	"employees",
	"description",
}

func (r Record) field(name string) string {
	switch name {
	case "title":
		return r.Title
	case "location":
		return r.Location
	case "price":
		return r.Price
	case "revenue":
		return r.Revenue
	case "employees":
		return r.Employees
	case "description":
		return r.Description
	}
	return ""
}

// MissingFields returns the names of every field that could not be
// extracted, in presentation order.
func (r Record) MissingFields() []string {
	var missing []string
	for _, name := range Fields {
		if r.field(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Complete reports whether every field holds a non-empty value.
// Only complete records may be submitted for scoring.
func (r Record) Complete() bool {
	return len(r.MissingFields()) == 0
}
