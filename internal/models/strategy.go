package models

// Direction — EMA bias of one timeframe: "BUY"/"SELL" or UNKNOWN.
type Direction string

const (
	DirectionUnknown Direction = "UNKNOWN"
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
)

// Known reports whether the direction is BUY or SELL.
func (d Direction) Known() bool {
	return d == DirectionBuy || d == DirectionSell
}

// Signal of a rule result. Either an agreed side or NO TRADE.
type Signal string

const (
	SignalNoTrade Signal = "NO TRADE"
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
)

func SignalFor(d Direction) Signal {
	switch d {
	case DirectionBuy:
		return SignalBuy
	case DirectionSell:
		return SignalSell
	default:
		return SignalNoTrade
	}
}

// Bias — 1h MA50 classification.
type Bias string

const (
	BiasUnknown  Bias = "UNKNOWN"
	BiasUp       Bias = "UP"
	BiasDown     Bias = "DOWN"
	BiasSideways Bias = "SIDEWAYS"
)

// Trend — combined 15m EMA / 1h MA bias used by the reversal suggestion.
type Trend string

const (
	TrendLong     Trend = "LONG"
	TrendShort    Trend = "SHORT"
	TrendSideways Trend = "SIDEWAYS"
)

// Confirm — direction of the last closed 1m candle vs the previous one.
// Empty string means not enough data.
type Confirm string

const (
	ConfirmUnknown Confirm = ""
	ConfirmUp      Confirm = "Up"
	ConfirmDown    Confirm = "Down"
	ConfirmFlat    Confirm = "Flat"
)

// TPSL — result of the take-profit/stop-loss computation.
// Status is StatusOK on success, otherwise a short machine reason.
type TPSL struct {
	TP     *float64
	SL     *float64
	Status string
}

const (
	StatusOK         = "ok"
	StatusNoEntry    = "no_entry"
	StatusTPTooSmall = "tp_too_small"
)
