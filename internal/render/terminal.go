// Package render draws gauge readings for a terminal.
package render

import (
	"fmt"
	"strings"

	"horizonx-gauge/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 28

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// Gauge renders one reading as a titled card with a usage bar.
func Gauge(title string, r domain.GaugeReading) string {
	text := valueStyle.Render(r.Text)
	if r.State == domain.LoadStateError {
		text = errorStyle.Render(r.Text)
	}

	lines := []string{
		titleStyle.Render(title),
		fmt.Sprintf("%s  %s", bar(r.Value, r.Max, barWidth), text),
	}

	meta := fmt.Sprintf("%d / %d", r.Value, r.Max)
	if r.Subtitle != "" {
		meta += "  " + r.Subtitle
	}
	if r.Stale {
		meta += "  (stale)"
	}
	lines = append(lines, subtleStyle.Render(meta))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func bar(value, capacity, width int) string {
	if capacity <= 0 || width <= 0 {
		return strings.Repeat(gaugeEmpty, max0(width))
	}

	filled := value * width / capacity
	filled = min(max0(filled), width)

	return strings.Repeat(gaugeFill, filled) + strings.Repeat(gaugeEmpty, width-filled)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
