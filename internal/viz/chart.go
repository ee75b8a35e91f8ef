// Package viz renders simulation results as terminal charts: a histogram of
// per-worker estimates, a convergence sparkline or braille line chart for
// sequential runs, and a log-scale error chart against a reference value.
// All renderers are pure string producers; callers decide where to print.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mcsim/internal/ui"
)

// sparklineChars maps values 0..7 to Unicode block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// normalize maps values onto 0..100 using the data's own range. A constant
// series maps to the midline.
func normalize(values []float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	out := make([]float64, len(values))
	if lo > hi {
		return out // nothing finite to scale
	}
	span := hi - lo
	for i, v := range values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			out[i] = 0
		case span == 0:
			out[i] = 50
		default:
			out[i] = (v - lo) / span * 100
		}
	}
	return out
}

// RenderSparkline converts a series into a one-line sparkline, auto-scaled to
// the series' own min/max.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	scaled := normalize(values)
	runes := make([]rune, len(scaled))
	for i, v := range scaled {
		idx := int(v / 100.0 * 7.0)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		runes[i] = sparklineChars[idx]
	}
	return string(runes)
}

// brailleDots maps (col 0-1, row 0-3) to the braille dot bit offsets.
// Braille character = U+2800 + sum of activated dot bits.
// Column 0: dots 1,2,3,7 (bits 0,1,2,6)
// Column 1: dots 4,5,6,8 (bits 3,4,5,7)
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40}, // left column
	{0x08, 0x10, 0x20, 0x80}, // right column
}

// RenderBrailleChart renders a series as a multi-row braille dot chart,
// auto-scaled to the series' range. Each braille character is 2 columns wide
// by 4 rows tall in the dot grid. The chart has `rows` text rows and `width`
// character columns. Values are plotted right-aligned (most recent on the
// right); when the series is longer than the chart, only the most recent
// window is shown.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}

	dotRows := rows * 4
	dotCols := width * 2

	// Window the series to the chart before scaling so the y-axis reflects
	// what is actually visible.
	window := NewRingBuffer(dotCols)
	for _, v := range values {
		window.Push(v)
	}
	scaled := normalize(window.Slice())

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}

	offset := dotCols - len(scaled)
	for i, v := range scaled {
		dotCol := i + offset

		// Map value to dot row (0 = top, dotRows-1 = bottom)
		dotRow := dotRows - 1 - int(v/100.0*float64(dotRows-1))
		if dotRow < 0 {
			dotRow = 0
		}
		if dotRow >= dotRows {
			dotRow = dotRows - 1
		}

		charCol := dotCol / 2
		charRow := dotRow / 4
		subCol := dotCol % 2
		subRow := dotRow % 4

		if charCol >= 0 && charCol < width && charRow >= 0 && charRow < rows {
			grid[charRow][charCol] |= brailleDots[subCol][subRow]
		}
	}

	result := make([]string, rows)
	for r := range grid {
		result[r] = string(grid[r])
	}
	return result
}

// RenderErrorChart plots log10 of the absolute error of a running-mean
// history against a reference value. Zero error (exact hit) is plotted at
// the chart floor.
func RenderErrorChart(history []float64, reference float64, width, rows int) []string {
	if len(history) == 0 {
		return nil
	}
	logs := make([]float64, len(history))
	for i, mean := range history {
		abs := math.Abs(mean - reference)
		if abs == 0 {
			logs[i] = math.Inf(-1) // exact hit, clamped to the floor below
		} else {
			logs[i] = math.Log10(abs)
		}
	}

	// Replace -Inf markers with the finite floor so they render at the bottom
	// instead of being dropped.
	floor := math.Inf(1)
	for _, l := range logs {
		if !math.IsInf(l, -1) && l < floor {
			floor = l
		}
	}
	if math.IsInf(floor, 1) {
		floor = 0
	}
	for i, l := range logs {
		if math.IsInf(l, -1) {
			logs[i] = floor
		}
	}

	return RenderBrailleChart(logs, width, rows)
}

// Frame wraps chart lines in a titled, theme-colored border.
func Frame(title string, lines []string) string {
	theme := ui.GetCurrentChartTheme()
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Frame).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Foreground(theme.Labels).Bold(true)

	body := titleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return border.Render(body)
}

// Histogram renders a horizontal-bar histogram of the values over `bins`
// equal-width buckets. Each line shows the bucket range, a bar scaled to the
// largest bucket, and the count.
func Histogram(values []float64, bins, barWidth int) []string {
	if len(values) == 0 || bins <= 0 || barWidth <= 0 {
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return nil
	}
	if lo == hi {
		// Single-point distribution: one full bucket.
		bar := strings.Repeat("█", barWidth)
		return []string{fmt.Sprintf("[%10.4f, %10.4f] %s %d", lo, hi, bar, len(values))}
	}

	counts := make([]int, bins)
	span := hi - lo
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		idx := int((v - lo) / span * float64(bins))
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	theme := ui.GetCurrentChartTheme()
	barStyle := lipgloss.NewStyle().Foreground(theme.Bars)

	lines := make([]string, bins)
	for i, c := range counts {
		bucketLo := lo + span*float64(i)/float64(bins)
		bucketHi := lo + span*float64(i+1)/float64(bins)
		barLen := 0
		if maxCount > 0 {
			barLen = c * barWidth / maxCount
		}
		if c > 0 && barLen == 0 {
			barLen = 1
		}
		bar := barStyle.Render(strings.Repeat("█", barLen))
		lines[i] = fmt.Sprintf("[%10.4f, %10.4f) %-*s %d", bucketLo, bucketHi, barWidth, bar, c)
	}
	return lines
}
