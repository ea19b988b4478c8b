// Package render turns the HTML bodies the API stores into terminal output.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
)

// Style names accepted by Options.Style besides "auto".
const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
	StyleDark  = "dark"
	StyleLight = "light"
)

type Options struct {
	Style   string
	MaxWrap int
	MinWrap int
}

// Renderer converts article HTML to markdown and renders it with glamour.
// The glamour renderer is rebuilt only when the wrap width moves noticeably.
type Renderer struct {
	opts Options

	mu     sync.Mutex
	term   *glamour.TermRenderer
	wrapAt int

	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func New(opts Options) *Renderer {
	if opts.Style == "" {
		opts.Style = StyleAuto
	}
	if opts.MaxWrap <= 0 {
		opts.MaxWrap = 120
	}
	if opts.MinWrap <= 0 {
		opts.MinWrap = 40
	}
	return &Renderer{
		opts:   opts,
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

// WrapWidth picks a readable wrap width for a terminal of the given width.
func (r *Renderer) WrapWidth(width int) int {
	wrap := (width * 9) / 10
	if wrap > r.opts.MaxWrap {
		wrap = r.opts.MaxWrap
	}
	if wrap < r.opts.MinWrap {
		wrap = r.opts.MinWrap
	}
	if width < 50 {
		wrap = width - 4
		if wrap < 20 {
			wrap = 20
		}
	}
	return wrap
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	wrap := r.WrapWidth(width)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.term != nil && abs(r.wrapAt-wrap) <= 10 {
		return r.term, nil
	}

	styleOpt := glamour.WithAutoStyle()
	if r.opts.Style != StyleAuto {
		styleOpt = glamour.WithStandardStyle(r.opts.Style)
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	r.term = term
	r.wrapAt = wrap
	return term, nil
}

// Markdown sanitizes untrusted HTML and converts it to markdown.
func (r *Renderer) Markdown(html string) (string, error) {
	clean := r.ugc.Sanitize(html)
	md, err := htmltomarkdown.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("converting html: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// Article renders a full article body for a terminal of the given width.
func (r *Renderer) Article(html string, width int) (string, error) {
	md, err := r.Markdown(html)
	if err != nil {
		return "", err
	}
	return r.Document(md, width)
}

// Document renders already-built markdown.
func (r *Renderer) Document(md string, width int) (string, error) {
	term, err := r.termRenderer(width)
	if err != nil {
		return "", err
	}
	out, err := term.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

var spaceRun = regexp.MustCompile(`\s+`)

// PlainText strips every tag and collapses whitespace.
func (r *Renderer) PlainText(html string) string {
	// Tag boundaries often separate words.
	spaced := strings.ReplaceAll(html, "<", " <")
	text := r.strict.Sanitize(spaced)
	text = unescape(text)
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// Excerpt returns at most n runes of plain text, cut at a word boundary when
// one is close enough.
func (r *Renderer) Excerpt(html string, n int) string {
	text := r.PlainText(html)
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#34;", `"`,
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

func unescape(s string) string { return entities.Replace(s) }

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
