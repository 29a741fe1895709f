package catalog

// Option is one selectable filter value with its display label.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Facets lists the values a shopper can pick for each filter dimension.
type Facets struct {
	Sizes   []string `json:"sizes"`
	Fabrics []string `json:"fabrics"`
	Colors  []string `json:"colors"`
	Prices  []Option `json:"prices"`
}

// PriceBands are the predefined browse bands, cheapest first.
var PriceBands = []Option{
	{Label: "Under ₹5000", Value: "0-5000"},
	{Label: "₹5000 - ₹10000", Value: "5000-10000"},
	{Label: "₹10000 - ₹20000", Value: "10000-20000"},
	{Label: "Above ₹20000", Value: "20000-"},
}

// Facets collects distinct sizes, fabrics and colors in first-seen order.
func (c *Catalog) Facets() Facets {
	f := Facets{
		Sizes:   []string{},
		Fabrics: []string{},
		Colors:  []string{},
		Prices:  append([]Option(nil), PriceBands...),
	}
	seen := map[string]map[string]bool{"size": {}, "fabric": {}, "color": {}}
	add := func(dim, v string, dst *[]string) {
		if v == "" || seen[dim][v] {
			return
		}
		seen[dim][v] = true
		*dst = append(*dst, v)
	}
	for _, p := range c.products {
		add("size", p.Size, &f.Sizes)
		add("fabric", p.Fabric, &f.Fabrics)
		add("color", p.Color, &f.Colors)
	}
	return f
}
