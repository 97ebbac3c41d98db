package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3guy0/algodash/internal/model"
	"github.com/web3guy0/algodash/internal/overlay"
)

func f(v float64) *float64 { return &v }

func countRune(rows []string, r rune) int {
	n := 0
	for _, row := range rows {
		n += strings.Count(row, string(r))
	}
	return n
}

func TestRenderChartPlotsPricesTopToBottom(t *testing.T) {
	assertion := assert.New(t)

	series := []model.PricePoint{
		{Time: "10:00:00", Price: f(100)},
		{Time: "10:05:00", Price: f(200)},
	}
	rows := RenderChart(series, nil, 40, 10)
	require.Len(t, rows, 10)

	plotW := 40 - axisWidth
	var lowRow, highRow int = -1, -1
	for i, row := range rows {
		for col, r := range []rune(row) {
			if r != markPrice {
				continue
			}
			if col-axisWidth < plotW/2 { // left half of the plot: the 100 sample
				lowRow = i
			} else {
				highRow = i
			}
		}
	}
	require.NotEqual(t, -1, lowRow)
	require.NotEqual(t, -1, highRow)
	assertion.Greater(lowRow, highRow, "higher prices render on higher rows")
}

func TestRenderChartLeavesGapsForNullPrices(t *testing.T) {
	assertion := assert.New(t)

	series := []model.PricePoint{
		{Time: "10:00:00", Price: f(100)},
		{Time: "10:05:00", Price: nil},
		{Time: "10:10:00", Price: f(100)},
	}
	// plot width of exactly 3 columns: one column per sample
	rows := RenderChart(series, nil, axisWidth+3, 5)
	assertion.Equal(2, countRune(rows, markPrice), "nil sample leaves its column empty")
}

func TestRenderChartDrawsReferenceLines(t *testing.T) {
	assertion := assert.New(t)

	series := []model.PricePoint{
		{Time: "10:00:00", Price: f(90)},
		{Time: "10:05:00", Price: f(110)},
	}
	lines := overlay.Derive(model.Indicators{
		SupportLevels: []model.SRLevel{{Level: 100}, {Level: 95}},
		CurrentPrice:  f(105),
	})
	rows := RenderChart(series, lines, 60, 12)

	assertion.Greater(countRune(rows, markLinePrimary), 0, "primary support line drawn")
	assertion.Greater(countRune(rows, markLineSecondary), 0, "secondary support line drawn")
	assertion.Greater(countRune(rows, markLineCurrent), 0, "current price line drawn")

	joined := strings.Join(rows, "\n")
	assertion.Contains(joined, "S1")
	assertion.Contains(joined, "S2")
	assertion.Contains(joined, "Current")
}

func TestRenderChartNoLinesWithoutValues(t *testing.T) {
	assertion := assert.New(t)

	series := []model.PricePoint{{Time: "10:00:00", Price: f(100)}}
	rows := RenderChart(series, overlay.Derive(model.Indicators{}), 40, 8)

	assertion.Zero(countRune(rows, markLinePrimary))
	assertion.Zero(countRune(rows, markLineSecondary))
	assertion.Zero(countRune(rows, markLineCurrent))
}

func TestRenderChartEmptySeriesShowsPlaceholder(t *testing.T) {
	assertion := assert.New(t)

	rows := RenderChart(nil, nil, 60, 8)
	require.Len(t, rows, 8)
	assertion.Contains(strings.Join(rows, ""), "waiting for chart data")
	assertion.Zero(countRune(rows, markPrice))
}

func TestRenderChartSkipsFarAwayLines(t *testing.T) {
	assertion := assert.New(t)

	series := []model.PricePoint{
		{Time: "10:00:00", Price: f(100)},
		{Time: "10:05:00", Price: f(101)},
	}
	lines := overlay.Derive(model.Indicators{Support: f(1)})
	rows := RenderChart(series, lines, 40, 8)

	assertion.Zero(countRune(rows, markLinePrimary), "a level far below the series must not flatten the chart")
}

func TestTimeAxisShowsEdgeTimes(t *testing.T) {
	assertion := assert.New(t)

	series := []model.PricePoint{
		{Time: "09:30:00", Price: f(1)},
		{Time: "16:00:00", Price: f(2)},
	}
	axis := TimeAxis(series, 60)
	assertion.Contains(axis, "09:30:00")
	assertion.Contains(axis, "16:00:00")
	assertion.Less(strings.Index(axis, "09:30:00"), strings.Index(axis, "16:00:00"))
}

func TestVisibleLenIgnoresANSI(t *testing.T) {
	assertion := assert.New(t)

	assertion.Equal(5, visibleLen(fgRed+"hello"+reset))
	assertion.Equal(0, visibleLen(bold+dim))
}
