package dashboard

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// markdownCache keeps glamour renderers per width and the rendered output
// per description, since rendering runs on every frame of the detail modal.
type markdownCache struct {
	mu        sync.Mutex
	renderers map[string]*glamour.TermRenderer
	rendered  map[string]string
}

func newMarkdownCache() *markdownCache {
	return &markdownCache{
		renderers: map[string]*glamour.TermRenderer{},
		rendered:  map[string]string{},
	}
}

// markdownStyle avoids glamour's auto style, which queries the terminal
func markdownStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	return "dark"
}

// render returns md rendered for width columns. Rendering errors fall back
// to the raw text.
func (c *markdownCache) render(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	width = max(10, width)
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	c.mu.Lock()
	defer c.mu.Unlock()
	if out, ok := c.rendered[key+":"+md]; ok {
		return out
	}
	r := c.renderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		c.renderers[key] = r
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	out = strings.Trim(out, "\n")
	c.rendered[key+":"+md] = out
	return out
}
