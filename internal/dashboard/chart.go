package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/overlay"
)

// Glyphs used on the chart canvas.
const (
	markPrice         = '•'
	markLinePrimary   = '═'
	markLineSecondary = '─'
	markLineCurrent   = '┄'
)

const axisWidth = 10 // "12345.67 ┤"

// RenderChart plots the price series and its reference lines onto a
// text canvas of the given size and returns it row by row, top first.
// Nil price points leave their column blank (a visual gap, not a joined
// line). Reference lines draw in rank order so the current-price line,
// always ranked last, lands on top; price markers overdraw all lines.
func RenderChart(series []model.PricePoint, lines []overlay.ReferenceLine, width, height int) []string {
	if width <= axisWidth+1 || height < 2 {
		return nil
	}
	plotW := width - axisWidth

	lo, hi, ok := valueRange(series, lines)
	if !ok {
		rows := make([]string, height)
		for i := range rows {
			rows[i] = strings.Repeat(" ", width)
		}
		msg := "waiting for chart data..."
		rows[height/2] = centerPad(msg, width)
		return rows
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", plotW))
	}

	rowFor := func(v float64) int {
		frac := (v - lo) / (hi - lo)
		return (height - 1) - int(math.Round(frac*float64(height-1)))
	}

	for _, ln := range lines {
		if ln.Value < lo || ln.Value > hi {
			continue
		}
		row := rowFor(ln.Value)
		glyph := lineGlyph(ln.Role)
		for col := 0; col < plotW; col++ {
			canvas[row][col] = glyph
		}
		placeLabel(canvas[row], ln.Label)
	}

	for col := 0; col < plotW; col++ {
		idx := col * len(series) / plotW
		p := series[idx]
		if p.Price == nil {
			continue
		}
		canvas[rowFor(*p.Price)][col] = markPrice
	}

	rows := make([]string, height)
	for i := range canvas {
		v := hi - float64(i)*(hi-lo)/float64(height-1)
		rows[i] = fmt.Sprintf("%8.2f ┤%s", v, string(canvas[i]))
	}
	return rows
}

// TimeAxis renders the bottom axis line: first and last sample times at the
// edges of the plot area.
func TimeAxis(series []model.PricePoint, width int) string {
	if width <= axisWidth+1 {
		return ""
	}
	plotW := width - axisWidth
	left, right := "", ""
	if len(series) > 0 {
		left = series[0].Time
		right = series[len(series)-1].Time
	}
	gap := plotW - len(left) - len(right)
	if gap < 1 {
		return strings.Repeat(" ", axisWidth) + padRight(left, plotW)
	}
	return strings.Repeat(" ", axisWidth) + left + strings.Repeat(" ", gap) + right
}

func valueRange(series []model.PricePoint, lines []overlay.ReferenceLine) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range series {
		if p.Price == nil {
			continue
		}
		lo = math.Min(lo, *p.Price)
		hi = math.Max(hi, *p.Price)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	// Include on-screen reference lines that sit near the price range, but
	// don't let a far-away level flatten the series into a single row.
	span := hi - lo
	if span == 0 {
		span = math.Abs(hi)
		if span == 0 {
			span = 1
		}
	}
	for _, ln := range lines {
		if ln.Value >= lo-span && ln.Value <= hi+span {
			lo = math.Min(lo, ln.Value)
			hi = math.Max(hi, ln.Value)
		}
	}
	pad := (hi - lo) * 0.02
	if pad == 0 {
		pad = math.Abs(hi) * 0.01
		if pad == 0 {
			pad = 1
		}
	}
	return lo - pad, hi + pad, true
}

func lineGlyph(role overlay.Role) rune {
	switch role {
	case overlay.SupportPrimary, overlay.ResistancePrimary:
		return markLinePrimary
	case overlay.CurrentPrice:
		return markLineCurrent
	default:
		return markLineSecondary
	}
}

// placeLabel writes the label at the right edge of a line row.
func placeLabel(row []rune, label string) {
	text := []rune(" " + label + " ")
	start := len(row) - len(text) - 1
	if start < 0 {
		return
	}
	copy(row[start:], text)
}

func centerPad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-left-len(s))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
