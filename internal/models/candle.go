package models

import "time"

// Timeframe — OANDA granularity.
type Timeframe string

const (
	H1  Timeframe = "H1"
	M15 Timeframe = "M15"
	M5  Timeframe = "M5"
	M1  Timeframe = "M1"
)

// Duration of one candle of the timeframe. Unknown timeframes return 0.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case M1:
		return time.Minute
	case M5:
		return 5 * time.Minute
	case M15:
		return 15 * time.Minute
	case H1:
		return time.Hour
	default:
		return 0
	}
}

type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Series — candles of one instrument and timeframe, oldest first.
type Series []Candle

func (s Series) Empty() bool { return len(s) == 0 }

// Last returns the current (most recent) candle.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Tail returns at most n most recent candles.
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return nil
	}
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}
	return out
}
