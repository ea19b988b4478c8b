// Package editor holds article bodies as markdown while they are edited and
// produces the HTML the API stores.
package editor

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Kind names a formatting operation.
type Kind string

const (
	Bold     Kind = "bold"
	Italic   Kind = "italic"
	Code     Kind = "code"
	Heading  Kind = "heading"
	Quote    Kind = "quote"
	Bullet   Kind = "bullet"
	Numbered Kind = "numbered"
)

// Kinds lists every supported kind in toolbar order.
var Kinds = []Kind{Bold, Italic, Code, Heading, Quote, Bullet, Numbered}

// Formatter is what a form needs from a rich-text editor.
type Formatter interface {
	ApplyFormatting(kind Kind) error
	Content() (string, error)
}

var (
	inline = map[Kind]string{
		Bold:   "**",
		Italic: "_",
		Code:   "`",
	}
	block = map[Kind]string{
		Heading:  "## ",
		Quote:    "> ",
		Bullet:   "- ",
		Numbered: "1. ",
	}
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Document is a markdown buffer with a current line that formatting applies
// to.
type Document struct {
	lines []string
	row   int
}

var _ Formatter = (*Document)(nil)

func New(markdown string) *Document {
	d := &Document{}
	d.SetMarkdown(markdown)
	return d
}

// FromHTML loads a stored article body.
func FromHTML(body string) (*Document, error) {
	if strings.TrimSpace(body) == "" {
		return New(""), nil
	}
	text, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return New(strings.TrimSpace(text)), nil
}

func (d *Document) SetMarkdown(markdown string) {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	d.lines = strings.Split(markdown, "\n")
	d.SetLine(d.row)
}

func (d *Document) Markdown() string { return strings.Join(d.lines, "\n") }
func (d *Document) Line() int        { return d.row }
func (d *Document) LineCount() int   { return len(d.lines) }

// SetLine moves the current line, clamped to the document.
func (d *Document) SetLine(row int) {
	if row < 0 {
		row = 0
	}
	if row >= len(d.lines) {
		row = len(d.lines) - 1
	}
	d.row = row
}

// ApplyFormatting toggles kind on the current line. Inline kinds wrap the
// line's text, block kinds set or clear its prefix. Blank lines are left
// alone.
func (d *Document) ApplyFormatting(kind Kind) error {
	line := d.lines[d.row]
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if marker, ok := inline[kind]; ok {
		d.lines[d.row] = toggleInline(line, marker)
		return nil
	}
	if prefix, ok := block[kind]; ok {
		d.lines[d.row] = toggleBlock(line, prefix)
		return nil
	}
	return fmt.Errorf("unknown formatting %q", kind)
}

// Content renders the document to HTML.
func (d *Document) Content() (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(d.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("rendering content: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func toggleInline(line, marker string) string {
	indent, rest := splitPrefix(line)
	text := strings.TrimSpace(rest)
	if len(text) > 2*len(marker) && strings.HasPrefix(text, marker) && strings.HasSuffix(text, marker) {
		return indent + text[len(marker):len(text)-len(marker)]
	}
	return indent + marker + text + marker
}

func toggleBlock(line, prefix string) string {
	current, rest := splitPrefix(line)
	if current == prefix {
		return rest
	}
	return prefix + rest
}

// splitPrefix separates a recognised block prefix from the line's text.
func splitPrefix(line string) (string, string) {
	for _, k := range Kinds {
		p, ok := block[k]
		if ok && strings.HasPrefix(line, p) {
			return p, strings.TrimPrefix(line, p)
		}
	}
	return "", line
}
