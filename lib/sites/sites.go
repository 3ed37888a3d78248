// Package sites maps listing sites to the declarative locators used to
// pull structured fields out of their pages. Registration is static:
// the registry is built once at startup and never mutated afterwards.
package sites

import (
	"errors"

	"bizscout-backend/lib/textutil"
)

var ErrUnsupportedSite = errors.New("site is not supported")

// Locator describes how to find one field's value in a document.
// Either Selector is set (direct lookup, first match wins) or Label is
// set (scan the elements matched by LabelSelector in document order and
// take the immediately following sibling of the first label whose text
// contains Label, case-sensitive).
type Locator struct {
	Selector      string `json:"selector"`
	Label         string `json:"label"`
	LabelSelector string `json:"label_selector"`
}

func (l Locator) IsZero() bool {
	return l.Selector == "" && l.Label == ""
}

func (l Locator) IsLabel() bool {
	return l.Label != ""
}

// Adapter is the full locator set for one site. Immutable.
type Adapter struct {
	Site     string
	Locators map[string]Locator
}

func (a Adapter) definedLocators() int {
	count := 0
	for _, l := range a.Locators {
		if !l.IsZero() {
			count++
		}
	}
	return count
}

// SiteConfig is the declarative per-site descriptor read from
// configuration. Selector fields locate direct values, label fields
// locate label/value pairs under LabelSelector (defaults to "dl dt").
type SiteConfig struct {
	Hostnames           []string `json:"hostnames"`
	LabelSelector       string   `json:"label_selector"`
	TitleSelector       string   `json:"title_selector"`
	LocationSelector    string   `json:"location_selector"`
	PriceLabel          string   `json:"price_label"`
	RevenueLabel        string   `json:"revenue_label"`
	EmployeesLabel      string   `json:"employees_label"`
	DescriptionSelector string   `json:"description_selector"`
}

const defaultLabelSelector = "dl dt"

func (c SiteConfig) adapter(site string) Adapter {
	labelSelector := c.LabelSelector
	if labelSelector == "" {
		labelSelector = defaultLabelSelector
	}

	locators := map[string]Locator{}
	direct := map[string]string{
		"title":       c.TitleSelector,
		"location":    c.LocationSelector,
		"description": c.DescriptionSelector,
	}
	for field, selector := range direct {
		if selector != "" {
			locators[field] = Locator{Selector: selector}
		}
	}
	labeled := map[string]string{
		"price":     c.PriceLabel,
		"revenue":   c.RevenueLabel,
		"employees": c.EmployeesLabel,
	}
	for field, label := range labeled {
		if label != "" {
			locators[field] = Locator{
				Label:         label,
				LabelSelector: labelSelector,
			}
		}
	}

	return Adapter{Site: site, Locators: locators}
}

type Registry struct {
	adapters map[string]Adapter
	hosts    map[string]string
}

// NewRegistry resolves per-site configuration into a closed registry.
// A configured site whose descriptor defines no locators at all is
// registered but will never resolve: an adapter that cannot extract
// anything is indistinguishable from an unsupported site.
func NewRegistry(config map[string]SiteConfig) *Registry {
	r := &Registry{
		adapters: map[string]Adapter{},
		hosts:    map[string]string{},
	}
	for site, c := range config {
		id := textutil.NormalizeName(site)
		r.adapters[id] = c.adapter(site)
		for _, host := range c.Hostnames {
			r.hosts[textutil.NormalizeName(host)] = id
		}
	}
	return r
}

// Resolve returns the adapter for a hostname or a bare site id.
// Lookups are pure: the same input always yields the same adapter or
// consistently ErrUnsupportedSite.
func (r *Registry) Resolve(hostnameOrId string) (Adapter, error) {
	key := textutil.NormalizeName(hostnameOrId)

	site, ok := r.hosts[key]
	if !ok {
		site = key
	}

	adapter, ok := r.adapters[site]
	if !ok || adapter.definedLocators() == 0 {
		return Adapter{}, ErrUnsupportedSite
	}
	return adapter, nil
}

// Sites lists every configured site id, supported or not.
func (r *Registry) Sites() []string {
	var out []string
	for site := range r.adapters {
		out = append(out, site)
	}
	return out
}
