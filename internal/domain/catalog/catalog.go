package catalog

import "strings"

// Location is a pickup/return point with its delivery surcharge.
type Location struct {
	Name           string `json:"name"`
	SurchargeCents int64  `json:"surcharge_cents"`
}

// Extra is an optional add-on item offered with a unit price and billing unit
// (per rental, per day, per item).
type Extra struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	BillingUnit    string `json:"billing_unit"`
}

// Catalog is the read-only location and add-on reference data supplied by the
// catalog provider. Lookups are case-insensitive on name.
type Catalog struct {
	locations []Location
	extras    []Extra

	locationIdx map[string]int
	extraIdx    map[string]int
}

func New(locations []Location, extras []Extra) Catalog {
	c := Catalog{
		locations:   locations,
		extras:      extras,
		locationIdx: make(map[string]int, len(locations)),
		extraIdx:    make(map[string]int, len(extras)),
	}
	for i, l := range locations {
		c.locationIdx[normalize(l.Name)] = i
	}
	for i, e := range extras {
		c.extraIdx[normalize(e.Name)] = i
	}
	return c
}

func (c Catalog) Locations() []Location { return c.locations }
func (c Catalog) Extras() []Extra       { return c.extras }

// SurchargeCents returns the surcharge for a location name; unknown names
// cost nothing rather than failing the quote.
func (c Catalog) SurchargeCents(name string) int64 {
	if i, ok := c.locationIdx[normalize(name)]; ok {
		return c.locations[i].SurchargeCents
	}
	return 0
}

// ExtrasSubtotalCents sums quantity times unit price over the catalog.
// Selections naming items outside the catalog are ignored, and catalog items
// missing from the selection count as zero.
func (c Catalog) ExtrasSubtotalCents(selection map[string]int) int64 {
	var total int64
	for name, qty := range selection {
		if qty <= 0 {
			continue
		}
		if i, ok := c.extraIdx[normalize(name)]; ok {
			total += int64(qty) * c.extras[i].UnitPriceCents
		}
	}
	return total
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
