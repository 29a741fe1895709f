package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterSelection is the shopper's active browse constraints. An empty field
// places no constraint on that dimension.
type FilterSelection struct {
	Size   string `json:"size"`
	Price  string `json:"price"`
	Fabric string `json:"fabric"`
	Color  string `json:"color"`
}

// IsEmpty reports whether no dimension is constrained.
func (s FilterSelection) IsEmpty() bool {
	return s.Size == "" && s.Price == "" && s.Fabric == "" && s.Color == ""
}

// PriceBand is an inclusive price range. Max is math.MaxInt when unbounded.
type PriceBand struct {
	Min int
	Max int
}

var ErrInvalidPriceBand = errors.New("invalid price band")

// Unbounded reports whether the band has no upper limit.
func (b PriceBand) Unbounded() bool {
	return b.Max == math.MaxInt
}

// Contains reports whether price falls in [Min, Max].
func (b PriceBand) Contains(price int) bool {
	return price >= b.Min && price <= b.Max
}

// ParsePriceBand accepts "min-max", "min-" and "min". A missing or zero max means
// unbounded; a missing min means zero.
func ParsePriceBand(raw string) (PriceBand, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PriceBand{}, fmt.Errorf("%w: empty", ErrInvalidPriceBand)
	}

	minPart, maxPart, _ := strings.Cut(raw, "-")
	band := PriceBand{Max: math.MaxInt}

	if minPart = strings.TrimSpace(minPart); minPart != "" {
		v, err := strconv.Atoi(minPart)
		if err != nil || v < 0 {
			return PriceBand{}, fmt.Errorf("%w: min %q", ErrInvalidPriceBand, minPart)
		}
		band.Min = v
	}

	if maxPart = strings.TrimSpace(maxPart); maxPart != "" {
		v, err := strconv.Atoi(maxPart)
		if err != nil || v < 0 {
			return PriceBand{}, fmt.Errorf("%w: max %q", ErrInvalidPriceBand, maxPart)
		}
		if v != 0 {
			band.Max = v
		}
	}

	if band.Max < band.Min {
		return PriceBand{}, fmt.Errorf("%w: max %d below min %d", ErrInvalidPriceBand, band.Max, band.Min)
	}
	return band, nil
}

// Validate checks the parts of a selection that can be malformed.
func (s FilterSelection) Validate() error {
	if s.Price == "" {
		return nil
	}
	_, err := ParsePriceBand(s.Price)
	return err
}

// Matches reports whether p satisfies every constrained dimension of sel.
// Size, fabric and color compare exactly. An unparsable price band matches nothing.
func Matches(p Product, sel FilterSelection) bool {
	return newMatcher(sel).match(p)
}

// Filter returns the ordered subsequence of products matching sel.
func Filter(products []Product, sel FilterSelection) []Product {
	m := newMatcher(sel)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Filter applies sel to the whole catalog.
func (c *Catalog) Filter(sel FilterSelection) []Product {
	return Filter(c.products, sel)
}

type matcher struct {
	sel     FilterSelection
	band    PriceBand
	badBand bool
}

func newMatcher(sel FilterSelection) matcher {
	m := matcher{sel: sel}
	if sel.Price != "" {
		band, err := ParsePriceBand(sel.Price)
		if err != nil {
			m.badBand = true
		}
		m.band = band
	}
	return m
}

func (m matcher) match(p Product) bool {
	if m.sel.Size != "" && p.Size != m.sel.Size {
		return false
	}
	if m.sel.Price != "" && (m.badBand || !m.band.Contains(p.Price)) {
		return false
	}
	if m.sel.Fabric != "" && p.Fabric != m.sel.Fabric {
		return false
	}
	if m.sel.Color != "" && p.Color != m.sel.Color {
		return false
	}
	return true
}
