package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *Renderer {
	return New(Options{Style: StyleNoTTY})
}

func TestMarkdown(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name string
		html string
		want []string
		not  []string
	}{
		{
			name: "heading and paragraph",
			html: "<h2>Intro</h2><p>Hello <strong>world</strong></p>",
			want: []string{"## Intro", "**world**"},
		},
		{
			name: "script removed",
			html: "<p>safe</p><script>alert(1)</script>",
			want: []string{"safe"},
			not:  []string{"alert", "script"},
		},
		{
			name: "list",
			html: "<ul><li>one</li><li>two</li></ul>",
			want: []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Markdown(tt.html)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, got, n)
			}
		})
	}
}

func TestArticle(t *testing.T) {
	r := newTestRenderer()
	out, err := r.Article("<p>The quick brown fox</p>", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "quick brown fox")
}

func TestRendererCachedByWidth(t *testing.T) {
	r := newTestRenderer()

	first, err := r.termRenderer(100)
	require.NoError(t, err)
	same, err := r.termRenderer(104)
	require.NoError(t, err)
	assert.Same(t, first, same)

	other, err := r.termRenderer(200)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestWrapWidth(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		width int
		want  int
	}{
		{200, 120},
		{100, 90},
		{60, 54},
		{52, 46},
		{45, 41},
		{10, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.WrapWidth(tt.width), "width %d", tt.width)
	}
}

func TestPlainText(t *testing.T) {
	r := newTestRenderer()

	got := r.PlainText("<p>Tom &amp; Jerry</p><p>run</p>\n\n<br>away")
	assert.Equal(t, "Tom & Jerry run away", got)
}

func TestExcerpt(t *testing.T) {
	r := newTestRenderer()

	short := r.Excerpt("<p>short text</p>", 50)
	assert.Equal(t, "short text", short)

	long := r.Excerpt("<p>"+strings.Repeat("word ", 40)+"</p>", 22)
	assert.True(t, strings.HasSuffix(long, "…"))
	assert.LessOrEqual(t, len([]rune(long)), 23)
	assert.NotContains(t, long, "wor…")
}
