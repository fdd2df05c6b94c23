package reveal

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

// ParseListing harvests product items from a fully revealed listing page.
//
// Cards are <div> elements whose class contains "mh-product-card", falling
// back to div[role=group][aria-label]. The item URL comes from the first
// descendant anchor, or the nearest ancestor anchor when the whole card is
// wrapped in a link. Results are deduplicated by URL, order preserved.
func ParseListing(pageHTML []byte, baseURL string) ([]product.ListItem, error) {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var items []product.ListItem
	seen := map[string]bool{}

	add := func(name, href string) {
		if href == "" {
			return
		}
		ref, err := base.Parse(href)
		if err != nil {
			return
		}
		abs := ref.String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		items = append(items, product.ListItem{Name: strings.TrimSpace(name), URL: abs})
	}

	cards := findCards(doc)
	for _, c := range cards {
		name := attrVal(c.node, "aria-label")
		if name == "" {
			name = headingText(c.node)
		}
		href := anchorHref(c.node)
		if href == "" {
			href = c.ancestorHref
		}
		add(name, href)
	}

	return items, nil
}

type card struct {
	node         *html.Node
	ancestorHref string
}

func findCards(doc *html.Node) []card {
	var primary, fallback []card
	var f func(n *html.Node, ancestorHref string)
	f = func(n *html.Node, ancestorHref string) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if h := attrVal(n, "href"); h != "" {
				ancestorHref = h
			}
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Div {
			if strings.Contains(attrVal(n, "class"), "mh-product-card") {
				primary = append(primary, card{node: n, ancestorHref: ancestorHref})
			} else if attrVal(n, "role") == "group" && attrVal(n, "aria-label") != "" {
				fallback = append(fallback, card{node: n, ancestorHref: ancestorHref})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c, ancestorHref)
		}
	}
	f(doc, "")

	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// anchorHref returns the href of the first descendant anchor.
func anchorHref(n *html.Node) string {
	var href string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if href != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if h := attrVal(n, "href"); h != "" {
				href = h
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f(c)
	}
	return href
}

// headingText returns the text of the first h2/h3/h4 under the card.
func headingText(n *html.Node) string {
	var text string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if text != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H2, atom.H3, atom.H4:
				text = strings.TrimSpace(collectText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return text
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return sb.String()
}
