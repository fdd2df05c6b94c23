package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ScriptByID finds a <script> element with the given id attribute and
// returns its text content.
func ScriptByID(pageHTML []byte, id string) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	var body string
	var found bool
	var f func(*html.Node)
	f = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val == id {
					var sb strings.Builder
					for c := n.FirstChild; c != nil; c = c.NextSibling {
						if c.Type == html.TextNode {
							sb.WriteString(c.Data)
						}
					}
					body = sb.String()
					found = true
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return body, found
}

// VisibleText extracts all rendered text from the page, skipping script,
// style and noscript subtrees. This is the input to the text heuristics.
func VisibleText(pageHTML []byte) string {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return sb.String()
}
