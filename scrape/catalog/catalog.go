// Package catalog resolves a product-type query to an LG category
// listing URL.
//
// Candidate categories are harvested from homepage links at run start;
// when discovery fails the built-in seed set keeps common queries working.
// Resolution is pure and ordered: exact match, substring fuzzy match,
// then slug construction as a last resort.
package catalog

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultBaseURL is the site root categories hang off.
const DefaultBaseURL = "https://www.lg.com/us/"

// Link is one candidate category harvested from the homepage.
type Link struct {
	Text string
	Href string
}

// seeds keep the catalog usable when homepage discovery fails.
var seeds = map[string]string{
	"oled tvs":      "https://www.lg.com/us/oled-tvs",
	"refrigerators": "https://www.lg.com/us/refrigerators",
	"washers":       "https://www.lg.com/us/washers-dryers",
	"speakers":      "https://www.lg.com/us/speakers",
}

// Catalog maps lowercase category names to listing URLs.
type Catalog struct {
	baseURL    string
	categories map[string]string
}

// New builds a Catalog from discovered links, keeping only plausible
// category links (site-internal, not support/business pages). An empty
// link set falls back to the seeds.
func New(baseURL string, links []Link) *Catalog {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Catalog{baseURL: baseURL, categories: map[string]string{}}

	for _, l := range links {
		name := strings.ToLower(strings.TrimSpace(l.Text))
		if name == "" || l.Href == "" {
			continue
		}
		if !strings.Contains(l.Href, "/us/") ||
			strings.Contains(l.Href, "/support") ||
			strings.Contains(l.Href, "/business") {
			continue
		}
		if _, dup := c.categories[name]; !dup {
			c.categories[name] = l.Href
		}
	}

	if len(c.categories) == 0 {
		for name, href := range seeds {
			c.categories[name] = href
		}
	}
	return c
}

// Len reports how many categories the catalog holds.
func (c *Catalog) Len() int { return len(c.categories) }

// Resolve maps a user query to a listing URL. The boolean reports whether
// the URL came from a known category; false means the slug fallback was
// constructed and may not exist.
func (c *Catalog) Resolve(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.baseURL, false
	}

	if u, ok := c.categories[q]; ok {
		return u, true
	}

	// Fuzzy pass over sorted names so resolution is deterministic.
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return c.categories[name], true
		}
	}

	return c.slugURL(q), false
}

func (c *Catalog) slugURL(q string) string {
	slug := strings.ReplaceAll(q, " ", "-")
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + slug
	}
	ref, err := base.Parse(slug)
	if err != nil {
		return c.baseURL + slug
	}
	return ref.String()
}

// Slug renders a query as a filesystem-friendly token for output names.
func Slug(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.ReplaceAll(q, " ", "_")
}
