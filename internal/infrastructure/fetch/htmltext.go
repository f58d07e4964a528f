package fetch

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements never contribute visible text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"iframe":   true,
	"svg":      true,
	"nav":      true,
	"footer":   true,
}

// blockElements get a line break between them so extracted text keeps
// paragraph boundaries.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"article": true, "section": true, "blockquote": true, "table": true,
}

// HTMLToText extracts the visible text of an HTML document. Malformed input
// degrades gracefully: the tokenizer-based parser never fails, it just
// yields whatever text it can find.
func HTMLToText(doc []byte) string {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		// html.Parse only errors on reader failure, which bytes.Reader
		// never produces; keep the fallback anyway.
		return ""
	}

	var b strings.Builder
	walk(root, &b)
	return collapseWhitespace(b.String())
}

func walk(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, b)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] {
		b.WriteByte('\n')
	}
}

// collapseWhitespace squeezes runs of spaces and blank lines while keeping
// single line breaks.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
