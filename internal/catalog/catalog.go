// Package catalog holds the read-only product list and the pure predicates the
// storefront uses to browse it: the filter selection and the title search.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
)

//go:embed seed/products.json
var seedProducts []byte

var validate = validator.New()

// Catalog is an immutable, ordered list of products shared by reference.
type Catalog struct {
	products []Product
	byID     map[int]int
}

// New builds a catalog from records in display order. Records are validated and ids
// must be unique.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("product at index %d: %w", i, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		p.Images = append([]string(nil), p.Images...)
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Load decodes a JSON array of products.
func Load(r io.Reader) (*Catalog, error) {
	var products []Product
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return New(products)
}

// LoadFile reads the catalog at path, or the embedded seed catalog when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Load(bytes.NewReader(seedProducts))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// All returns the products in catalog order. The slice is a copy.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// FindByID looks a product up by its primary key.
func (c *Catalog) FindByID(id int) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}
