// Package model holds the shared data types exchanged between the remote
// trading-bot API, the view-model store, and the terminal renderer.
package model

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// BotStatus is the remote bot's run state as reported by /status.
type BotStatus string

const (
	BotIdle    BotStatus = "idle"
	BotRunning BotStatus = "running"
)

// ParseBotStatus maps the server's status string onto the known states.
// Anything the server might report that we don't recognize is treated as
// idle rather than inventing a third state.
func ParseBotStatus(s string) BotStatus {
	if s == string(BotRunning) {
		return BotRunning
	}
	return BotIdle
}

// TimeRange is one of the fixed period/interval presets selectable on the
// dashboard (the same presets the remote API understands).
type TimeRange struct {
	Label    string
	Period   string
	Interval string
}

// TimeRanges are the selectable presets, in display order.
var TimeRanges = []TimeRange{
	{Label: "1D", Period: "1d", Interval: "5m"},
	{Label: "7D", Period: "7d", Interval: "1h"},
	{Label: "1M", Period: "1mo", Interval: "1d"},
}

// RangeByLabel looks up a preset by its display label (case-sensitive).
func RangeByLabel(label string) (TimeRange, bool) {
	for _, tr := range TimeRanges {
		if tr.Label == label {
			return tr, true
		}
	}
	return TimeRange{}, false
}

// PricePoint is one sample of the price history. Price is nil for gaps in
// the series; gaps render as visual breaks, never as interpolated segments.
type PricePoint struct {
	Time  string
	Price *float64
}

// UnmarshalJSON accepts both time encodings the API has used over time:
// epoch seconds (number) and preformatted clock strings.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Time  json.RawMessage `json:"time"`
		Price *float64        `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Price = raw.Price
	p.Time = ""
	if len(raw.Time) == 0 {
		return nil
	}
	var label string
	if err := json.Unmarshal(raw.Time, &label); err == nil {
		p.Time = label
		return nil
	}
	var epoch float64
	if err := json.Unmarshal(raw.Time, &epoch); err != nil {
		return err
	}
	p.Time = time.Unix(int64(epoch), 0).Format("15:04:05")
	return nil
}

// SRLevel is one support or resistance level from the pivot analysis.
// Strength = cluster size x 10 + touches x 5 + recency bonus (computed
// upstream, consumed as-is).
type SRLevel struct {
	Level    float64 `json:"level"`
	Strength float64 `json:"strength"`
	Touches  int     `json:"touches"`
}

// Indicators is the snapshot returned by /indicators. Pointer fields are
// nil when the server has not computed the value yet; nil is rendered as a
// placeholder, never as zero.
type Indicators struct {
	RSI               *float64  `json:"rsi"`
	MACD              *float64  `json:"macd"`
	Signal            *float64  `json:"signal"`
	Support           *float64  `json:"support"`
	Resistance        *float64  `json:"resistance"`
	SupportLevels     []SRLevel `json:"support_levels"`
	ResistanceLevels  []SRLevel `json:"resistance_levels"`
	CurrentPrice      *float64  `json:"current_price"`
	TotalPivotsFound  int       `json:"total_pivots_found"`
	SupportQuality    float64   `json:"support_quality"`
	ResistanceQuality float64   `json:"resistance_quality"`
}

// Balance is the bot's simulated wallet.
type Balance struct {
	USD decimal.Decimal `json:"usd"`
	BTC decimal.Decimal `json:"btc"`
}

// FormatUSD renders the USD balance to cents, e.g. "$12.30".
// StringFixed rounds half away from zero.
func (b Balance) FormatUSD() string {
	return "$" + b.USD.StringFixed(2)
}

// FormatBTC renders the BTC balance to six decimals, e.g. "0.000000".
// Same rounding rule as FormatUSD: half away from zero, so 0.0000005
// renders as "0.000001".
func (b Balance) FormatBTC() string {
	return b.BTC.StringFixed(6)
}

// TradeLogEntry is one executed trade reported by /logs. Older backend
// builds omit rsi/macd/wallet, so those decode to nil / zero values.
type TradeLogEntry struct {
	Time   string          `json:"time"`
	Action string          `json:"action"` // "BUY" or "SELL"
	Price  decimal.Decimal `json:"price"`
	RSI    *float64        `json:"rsi"`
	MACD   *float64        `json:"macd"`
	Wallet Balance         `json:"wallet"`
}

// FormatValue renders an optional indicator value, using the dashboard's
// "..." placeholder when the value hasn't loaded yet.
func FormatValue(v *float64, prec int) string {
	if v == nil {
		return "..."
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
