// Package parser converts Ed's XML-like document bodies to plain text.
//
// Ed represents a post body as a nested markup tree (<document>,
// <paragraph>, <bold>, <figure>, ...). html.Parse reads that markup
// leniently, so malformed or truncated documents still yield a tree
// instead of an error, and a recursive walk flattens it to text.
package parser

import (
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// maxDepth bounds the recursion over untrusted markup. It sits below
// html.Parse's own limit of 512 open elements so the truncation path is
// reachable: documents nested past maxDepth but within the parser's limit
// get the marker, anything deeper fails to parse at all and degrades like
// any other unparseable body. Real Ed documents nest a handful of levels.
const maxDepth = 500

// TruncationMarker is appended when a document exceeds maxDepth.
const TruncationMarker = "[content truncated: nesting too deep]"

// blockElements end with a paragraph break after their children's text.
var blockElements = map[string]bool{
	"paragraph":  true,
	"p":          true,
	"heading":    true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"callout":    true,
	"list-item":  true,
	"li":         true,
	"pre":        true,
	"snippet":    true,
	"blockquote": true,
}

// passElements contribute no markup of their own but their children are
// still rendered. html.Parse wraps everything in html/head/body, so those
// are pass-throughs too.
var passElements = map[string]bool{
	"html":       true,
	"head":       true,
	"body":       true,
	"document":   true,
	"list":       true,
	"ul":         true,
	"ol":         true,
	"bold":       true,
	"b":          true,
	"strong":     true,
	"italic":     true,
	"i":          true,
	"em":         true,
	"underline":  true,
	"u":          true,
	"strike":     true,
	"s":          true,
	"code":       true,
	"link":       true,
	"a":          true,
	"mention":    true,
	"math":       true,
	"spoiler":    true,
	"table":      true,
	"table-row":  true,
	"table-cell": true,
	"tr":         true,
	"td":         true,
	"th":         true,
}

// DocumentToText renders the markup tree to plain text. Pure function:
// deterministic for a given input, no global state. Unknown element types
// are skipped silently, subtree included, so unexpected markup never
// aborts an otherwise valid post.
func DocumentToText(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	truncated := false

	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		if depth > maxDepth {
			truncated = true
			return
		}

		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.DocumentNode:
			// children handled below
		case html.ElementNode:
			name := strings.ToLower(n.Data)
			switch {
			case name == "break" || name == "br":
				// html.Parse does not treat break as a void element, so
				// the rest of the paragraph ends up as its children and
				// must still be walked.
				b.WriteString("\n")
			case blockElements[name] || passElements[name]:
				// render children
			default:
				// unknown element: no content from it or its subtree
				return
			}
		default:
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth+1)
		}

		if n.Type == html.ElementNode && blockElements[strings.ToLower(n.Data)] {
			b.WriteString("\n\n")
		}
	}

	walk(doc, 0)

	text := normalize(b.String())
	if truncated {
		if text != "" {
			text += "\n\n"
		}
		text += TruncationMarker
	}
	return text, nil
}

// PostBody degrades gracefully: structured walk first, readability text
// extraction when the walk yields nothing, empty string as the last
// resort. A bad body never fails the run, only this post.
func PostBody(raw string) string {
	text, err := DocumentToText(raw)
	if err == nil && text != "" {
		return text
	}
	return extractWithReadability(raw)
}

func extractWithReadability(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// normalize collapses runs of blank lines left by nested block elements
// and trims surrounding whitespace.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			blank++
			if blank > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blank = 0
		out = append(out, trimmed)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
