package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/catalog/internal/models"
)

// ChartType selects how category counts are drawn
type ChartType string

const (
	ChartBar ChartType = "bar"
	ChartPie ChartType = "pie"
)

// Toggle switches between bar and pie
func (t ChartType) Toggle() ChartType {
	if t == ChartPie {
		return ChartBar
	}
	return ChartPie
}

// ParseChartType maps a config value to a ChartType, defaulting to bar
func ParseChartType(s string) ChartType {
	if ChartType(s) == ChartPie {
		return ChartPie
	}
	return ChartBar
}

// Chart renders category counts and tracks the selected category. It is
// replaced wholesale on every stats load.
type Chart struct {
	Type     ChartType
	stats    models.Stats
	selected int
}

// NewChart creates a chart of the given type with no data
func NewChart(t ChartType) Chart {
	return Chart{Type: t}
}

// SetStats replaces the data. The selection is kept on the same label when it
// still exists.
func (c *Chart) SetStats(s models.Stats) {
	prev, hadPrev := c.Selected()
	c.stats = s
	c.selected = 0
	if !hadPrev {
		return
	}
	for i, cc := range s {
		if cc.Category == prev {
			c.selected = i
			return
		}
	}
}

// Stats returns the charted data
func (c Chart) Stats() models.Stats { return c.stats }

// Empty reports whether there is nothing to chart
func (c Chart) Empty() bool { return len(c.stats) == 0 }

// Move shifts the selection by delta, wrapping around
func (c *Chart) Move(delta int) {
	n := len(c.stats)
	if n == 0 {
		return
	}
	c.selected = ((c.selected+delta)%n + n) % n
}

// Select selects row i when it exists
func (c *Chart) Select(i int) {
	if i >= 0 && i < len(c.stats) {
		c.selected = i
	}
}

// Selected returns the selected category label
func (c Chart) Selected() (string, bool) {
	if c.selected < 0 || c.selected >= len(c.stats) {
		return "", false
	}
	return c.stats[c.selected].Category, true
}

// View draws the chart into width columns
func (c Chart) View(width int, focused bool) string {
	if len(c.stats) == 0 {
		return subtleStyle.Render("No items yet.")
	}
	if c.Type == ChartPie {
		return c.pieView(width, focused)
	}
	return c.barView(width, focused)
}

func (c Chart) labelWidth() int {
	w := 0
	for _, cc := range c.stats {
		w = max(w, ansi.StringWidth(cc.Category))
	}
	return min(w, 16)
}

func (c Chart) rowLabel(i, lw int, focused bool) string {
	label := ansi.Truncate(c.stats[i].Category, lw, "…")
	label += strings.Repeat(" ", lw-ansi.StringWidth(label))
	if i == c.selected && focused {
		return titleStyle.Render("> " + label)
	}
	if i == c.selected {
		return "> " + label
	}
	return "  " + label
}

func (c Chart) barView(width int, focused bool) string {
	lw := c.labelWidth()
	maxCount := c.stats.Max()
	countW := len(fmt.Sprint(maxCount))
	barMax := max(1, width-lw-countW-5)

	lines := make([]string, 0, len(c.stats))
	for i, cc := range c.stats {
		n := 0
		if maxCount > 0 {
			n = cc.Count * barMax / maxCount
		}
		if cc.Count > 0 && n == 0 {
			n = 1
		}
		color := chartPalette[i%len(chartPalette)]
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s %s %*d", c.rowLabel(i, lw, focused), bar+strings.Repeat(" ", barMax-n), countW, cc.Count))
	}
	return strings.Join(lines, "\n")
}

// pieView draws a proportional strip followed by a legend with shares
func (c Chart) pieView(width int, focused bool) string {
	total := c.stats.Total()
	stripW := max(1, width-2)

	var strip strings.Builder
	used := 0
	for i, cc := range c.stats {
		n := 0
		if total > 0 {
			n = cc.Count * stripW / total
		}
		if i == len(c.stats)-1 {
			n = stripW - used
		}
		used += n
		color := chartPalette[i%len(chartPalette)]
		strip.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▇", max(0, n))))
	}

	lw := c.labelWidth()
	lines := []string{strip.String(), ""}
	for i, cc := range c.stats {
		pct := 0.0
		if total > 0 {
			pct = float64(cc.Count) * 100 / float64(total)
		}
		swatch := lipgloss.NewStyle().Foreground(chartPalette[i%len(chartPalette)]).Render("●")
		lines = append(lines, fmt.Sprintf("%s %s %5.1f%% (%d)", c.rowLabel(i, lw, focused), swatch, pct, cc.Count))
	}
	return strings.Join(lines, "\n")
}
