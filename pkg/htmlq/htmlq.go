// Package htmlq is a small query layer over golang.org/x/net/html trees.
//
// It only offers what the conjugation extractor needs: finding nodes by
// predicate, reading their text, and walking the rows and cells of a
// table without descending into nested tables.
package htmlq

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Predicate reports whether a node matches.
type Predicate func(n *html.Node) bool

// Walk visits root and its descendants in document order. Returning false
// from fn skips the children of the current node.
func Walk(root *html.Node, fn func(n *html.Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Find returns the first node in document order matching pred, or nil.
func Find(root *html.Node, pred Predicate) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node matching pred, in document order.
func FindAll(root *html.Node, pred Predicate) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// IsElement matches element nodes with one of the given tag atoms.
func IsElement(tags ...atom.Atom) Predicate {
	return func(n *html.Node) bool {
		if n == nil || n.Type != html.ElementNode {
			return false
		}
		for _, t := range tags {
			if n.DataAtom == t {
				return true
			}
		}
		return false
	}
}

// Text returns the raw concatenated text of n and its descendants.
// Whitespace is preserved as it appears in the document.
func Text(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			switch c.DataAtom {
			case atom.Script, atom.Style:
				return false
			case atom.Br:
				b.WriteByte(' ')
			}
		}
		return true
	})
	return b.String()
}

// CleanText returns the NFC-normalized text of n with runs of whitespace
// collapsed to a single space and the ends trimmed.
func CleanText(n *html.Node) string {
	return Collapse(Text(n))
}

// Collapse NFC-normalizes s, collapses whitespace runs (including
// non-breaking spaces) and trims it.
func Collapse(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v', '\u00a0', '\u202f', '\u2009':
		return true
	}
	return false
}

// HeadingLevel returns 1-6 for h1-h6 elements and 0 otherwise.
func HeadingLevel(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// Rows returns the tr elements belonging to table, whether direct children
// or inside thead/tbody/tfoot. Rows of nested tables are not included.
func Rows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.DataAtom == atom.Tr {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

// Cells returns the td and th children of a row.
func Cells(row *html.Node) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}
	return cells
}
