package models

// RuleResult — outcome of one minimum-distance rule variant.
type RuleResult struct {
	Signal    Signal    `json:"signal"`
	Entry     *float64  `json:"entry"`
	TP        *float64  `json:"tp"`
	SL        *float64  `json:"sl"`
	Reason    string    `json:"reason"`
	Dir15     Direction `json:"dir_15"`
	Dir5      Direction `json:"dir_5"`
	Dir1      Direction `json:"dir_1"`
	Confirm1m Confirm   `json:"confirm_1m"`
}

// Tradable reports whether the rule reached "ok".
func (r RuleResult) Tradable() bool { return r.Reason == StatusOK }

// BiasOutcome — 1h MA50 bias. Reason is set only when Bias is UNKNOWN.
type BiasOutcome struct {
	Bias   Bias     `json:"bias"`
	MA50   *float64 `json:"ma50"`
	DevPct *float64 `json:"deviation_pct"`
	Reason string   `json:"reason,omitempty"`
}

// Degraded reports whether the bias could not be computed.
func (b BiasOutcome) Degraded() bool { return b.Bias == BiasUnknown }

type TrendOutcome struct {
	Bias Trend `json:"bias"`
}

// Reversal — short-term reversal suggestion aligned with the combined trend.
type Reversal struct {
	Signal          Signal    `json:"signal"`
	Entry           *float64  `json:"entry"`
	TP              *float64  `json:"tp"`
	SL              *float64  `json:"sl"`
	Reason          string    `json:"reason"`
	ConfidenceScore int       `json:"confidence_score"`
	ConfidenceLabel string    `json:"confidence_label"`
	ConfidenceIcon  string    `json:"confidence_icon"`
	Dir5            Direction `json:"dir_5"`
	Dir1            Direction `json:"dir_1"`
}

type ChartPoint struct {
	Time  string  `json:"time"`
	Close float64 `json:"close"`
}

type AnalysisData struct {
	Results  map[string]RuleResult `json:"results"`
	Trend    TrendOutcome          `json:"trend"`
	Reversal Reversal              `json:"reversal"`
	Chart    []ChartPoint          `json:"chart"`
	Updated  string                `json:"updated"`
}

// Analysis — full evaluation of one instrument. Built fresh per request.
type Analysis struct {
	OK          bool         `json:"ok"`
	Reason      *string      `json:"reason"`
	Symbol      string       `json:"symbol"`
	PrimaryBias Bias         `json:"primary_bias"`
	MA50        *float64     `json:"ma50"`
	Bias        BiasOutcome  `json:"bias"`
	Data        AnalysisData `json:"data"`
}

// TradeAvailable — true if any rule variant reached "ok".
func (a Analysis) TradeAvailable() bool {
	for _, r := range a.Data.Results {
		if r.Tradable() {
			return true
		}
	}
	return false
}

type MenuEntry struct {
	TradeAvailable bool `json:"trade_available"`
}

// MenuStatus — display name -> availability flag.
type MenuStatus map[string]MenuEntry
