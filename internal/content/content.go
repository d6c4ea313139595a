// Package content converts chapter bodies between the stored HTML and the
// formats served to readers, and normalizes user-entered text.
package content

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Format is a chapter content representation.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat resolves a format name. The empty string selects HTML.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported content format %q", raw)
	}
}

// htmlTagPattern matches the tags chapter bodies are written with.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|hr)[\s>/]`)

// ContainsHTML reports whether s appears to contain HTML markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// Render returns body in the requested format. Bodies without markup are
// returned unchanged, and so is a body the converter rejects.
func Render(body string, f Format) string {
	switch f {
	case FormatMarkdown:
		return ToMarkdown(body)
	case FormatText:
		return ToText(body)
	default:
		return body
	}
}

// ToMarkdown converts HTML to Markdown.
func ToMarkdown(body string) string {
	if body == "" || !ContainsHTML(body) {
		return body
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return body
	}

	return strings.TrimSpace(markdown)
}

// ToText strips markup from an HTML body. Block elements become paragraphs
// separated by a blank line and <br> becomes a line break.
func ToText(body string) string {
	if body == "" || !ContainsHTML(body) {
		return body
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var buf strings.Builder
	extractText(doc, &buf)

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text := strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

func extractText(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(whitespace.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if n.Data == "br" {
			buf.WriteString("\n")
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6", "hr":
			buf.WriteString("\n\n")
		}
	}
}

// NormalizeText trims surrounding whitespace and puts s in Unicode NFC, so
// that visually identical input is stored identically.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
