package catalog

import "strings"

// Search returns products whose title contains query, ignoring case, in catalog
// order. A blank query yields no results rather than the whole catalog.
func Search(products []Product, query string) []Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []Product{}
	}
	out := make([]Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Search runs the title search over the whole catalog.
func (c *Catalog) Search(query string) []Product {
	return Search(c.products, query)
}
