package catalog

import "testing"

func TestSearchScenario(t *testing.T) {
	t.Parallel()

	c := scenarioCatalog(t)
	if got := ids(c.Search("kurta")); !equalIDs(got, []int{2}) {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestSearchCaseInsensitiveAndOrdered(t *testing.T) {
	t.Parallel()

	c := scenarioCatalog(t)
	if got := ids(c.Search("  SILK ")); !equalIDs(got, []int{1}) {
		t.Fatalf("expected [1], got %v", got)
	}
	if got := ids(c.Search("l")); !equalIDs(got, []int{1, 2}) {
		t.Fatalf("expected catalog order [1 2], got %v", got)
	}
}

func TestSearchBlankQueryIsEmpty(t *testing.T) {
	t.Parallel()

	c := scenarioCatalog(t)
	for _, q := range []string{"", "   "} {
		got := c.Search(q)
		if got == nil || len(got) != 0 {
			t.Fatalf("query %q: expected empty non-nil result, got %v", q, got)
		}
	}
	if got := c.Search("sherwani"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}
