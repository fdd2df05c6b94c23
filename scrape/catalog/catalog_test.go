package catalog

import "testing"

func discoveredCatalog() *Catalog {
	return New(DefaultBaseURL, []Link{
		{Text: "OLED TVs", Href: "https://www.lg.com/us/oled-tvs"},
		{Text: "Refrigerators", Href: "https://www.lg.com/us/refrigerators"},
		{Text: "Washers & Dryers", Href: "https://www.lg.com/us/washers-dryers"},
		{Text: "Support Home", Href: "https://www.lg.com/us/support"},
		{Text: "Business Monitors", Href: "https://www.lg.com/us/business/monitors"},
		{Text: "Global", Href: "https://www.lg.com/global"},
	})
}

func TestNew_FiltersNonCategoryLinks(t *testing.T) {
	c := discoveredCatalog()
	if c.Len() != 3 {
		t.Errorf("Len: got %d, want 3 (support/business/global filtered)", c.Len())
	}
}

func TestResolve_Exact(t *testing.T) {
	c := discoveredCatalog()
	u, known := c.Resolve("OLED TVs")
	if !known || u != "https://www.lg.com/us/oled-tvs" {
		t.Errorf("exact: got %q known=%v", u, known)
	}
}

func TestResolve_Fuzzy(t *testing.T) {
	c := discoveredCatalog()

	// Query is a substring of the category name.
	u, known := c.Resolve("oled tv")
	if !known || u != "https://www.lg.com/us/oled-tvs" {
		t.Errorf("fuzzy substring: got %q known=%v", u, known)
	}

	// Category name is a substring of the query.
	u, known = c.Resolve("lg refrigerators on sale")
	if !known || u != "https://www.lg.com/us/refrigerators" {
		t.Errorf("fuzzy superstring: got %q known=%v", u, known)
	}
}

func TestResolve_SlugFallback(t *testing.T) {
	c := discoveredCatalog()
	u, known := c.Resolve("air purifiers")
	if known {
		t.Error("unmatched query must report known=false")
	}
	if u != "https://www.lg.com/us/air-purifiers" {
		t.Errorf("slug: got %q", u)
	}
}

func TestNew_SeedsWhenDiscoveryEmpty(t *testing.T) {
	c := New(DefaultBaseURL, nil)
	if c.Len() == 0 {
		t.Fatal("empty discovery must fall back to seeds")
	}
	u, known := c.Resolve("speakers")
	if !known || u != "https://www.lg.com/us/speakers" {
		t.Errorf("seed resolve: got %q known=%v", u, known)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("OLED TVs"); got != "oled_tvs" {
		t.Errorf("Slug: got %q, want %q", got, "oled_tvs")
	}
}
