package catalog

import (
	"math"
	"testing"
)

func ids(products []Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParsePriceBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    PriceBand
		wantErr bool
	}{
		{raw: "5000-10000", want: PriceBand{Min: 5000, Max: 10000}},
		{raw: "0-5000", want: PriceBand{Min: 0, Max: 5000}},
		{raw: "20000-", want: PriceBand{Min: 20000, Max: math.MaxInt}},
		{raw: "20000", want: PriceBand{Min: 20000, Max: math.MaxInt}},
		{raw: "100-0", want: PriceBand{Min: 100, Max: math.MaxInt}},
		{raw: "-300", want: PriceBand{Min: 0, Max: 300}},
		{raw: " 10 - 20 ", want: PriceBand{Min: 10, Max: 20}},
		{raw: "", wantErr: true},
		{raw: "cheap", wantErr: true},
		{raw: "10-abc", wantErr: true},
		{raw: "500-100", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePriceBand(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %+v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %+v, got %+v", tt.raw, tt.want, got)
		}
	}
}

func TestFilterScenario(t *testing.T) {
	t.Parallel()

	c := scenarioCatalog(t)
	got := ids(c.Filter(FilterSelection{Price: "5000-10000"}))
	if !equalIDs(got, []int{1}) {
		t.Fatalf("expected [1], got %v", got)
	}
}

func TestEmptySelectionYieldsFullCatalog(t *testing.T) {
	t.Parallel()

	c := scenarioCatalog(t)
	sel := FilterSelection{}
	if !sel.IsEmpty() {
		t.Fatal("zero selection should be empty")
	}
	if got := ids(c.Filter(sel)); !equalIDs(got, []int{1, 2}) {
		t.Fatalf("expected full catalog, got %v", got)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	t.Parallel()

	c, err := LoadFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sel := FilterSelection{Fabric: "silk", Price: "5000-20000"}
	first := ids(c.Filter(sel))
	second := ids(c.Filter(sel))
	if !equalIDs(first, second) {
		t.Fatalf("filter not idempotent: %v vs %v", first, second)
	}
	if again := ids(Filter(c.Filter(sel), sel)); !equalIDs(first, again) {
		t.Fatalf("filtering a filtered list changed it: %v vs %v", first, again)
	}
}

func TestPriceBandBoundariesInclusive(t *testing.T) {
	t.Parallel()

	sel := FilterSelection{Price: "5000-10000"}
	cases := map[int]bool{
		4999:  false,
		5000:  true,
		7500:  true,
		10000: true,
		10001: false,
	}
	for price, want := range cases {
		if got := Matches(Product{ID: 1, Title: "x", Price: price}, sel); got != want {
			t.Fatalf("price %d: expected %v, got %v", price, want, got)
		}
	}

	open := FilterSelection{Price: "20000-"}
	if !Matches(Product{Price: math.MaxInt32}, open) {
		t.Fatal("unbounded band should include large prices")
	}
	if Matches(Product{Price: 19999}, open) {
		t.Fatal("unbounded band should exclude prices below min")
	}
}

func TestMatchesEachDimension(t *testing.T) {
	t.Parallel()

	p := Product{ID: 1, Title: "Red Silk Lehenga", Price: 6000, Size: "M", Fabric: "silk", Color: "red"}
	tests := []struct {
		name string
		sel  FilterSelection
		want bool
	}{
		{name: "size match", sel: FilterSelection{Size: "M"}, want: true},
		{name: "size mismatch", sel: FilterSelection{Size: "L"}, want: false},
		{name: "fabric is case sensitive", sel: FilterSelection{Fabric: "Silk"}, want: false},
		{name: "color match", sel: FilterSelection{Color: "red"}, want: true},
		{name: "all dimensions", sel: FilterSelection{Size: "M", Price: "5000-10000", Fabric: "silk", Color: "red"}, want: true},
		{name: "one failing dimension", sel: FilterSelection{Size: "M", Price: "0-5000", Fabric: "silk", Color: "red"}, want: false},
		{name: "invalid band matches nothing", sel: FilterSelection{Price: "cheap"}, want: false},
	}
	for _, tt := range tests {
		if got := Matches(p, tt.sel); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSelectionValidate(t *testing.T) {
	t.Parallel()

	if err := (FilterSelection{}).Validate(); err != nil {
		t.Fatalf("empty selection should validate: %v", err)
	}
	if err := (FilterSelection{Price: "1-x"}).Validate(); err == nil {
		t.Fatal("expected invalid price band")
	}
}
