// Package indicators holds the technical indicators the analyzer reads:
// EMA direction, one-minute confirmation, recent range, ATR, 24h swings and
// the take-profit/stop-loss placement.
package indicators

import (
	"math"

	"signal_dashboard/internal/models"

	"github.com/markcheno/go-talib"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrNotEnoughData = errors.New("not enough data")

// Params — periods and windows of the indicator set.
type Params struct {
	FastEMA         int
	SlowEMA         int
	ATRPeriod       int
	RangeWindow     int // 1m candles in the "recent 30m" window
	RangeMinCandles int
	SwingWindow     int // 15m candles in ~24h
	SwingMinCandles int
}

func DefaultParams() Params {
	return Params{
		FastEMA:         9,
		SlowEMA:         21,
		ATRPeriod:       14,
		RangeWindow:     30,
		RangeMinCandles: 10,
		SwingWindow:     96,
		SwingMinCandles: 6,
	}
}

// Set — default implementation of the analyzer's indicator capability.
type Set struct {
	p Params
}

func New(p Params) *Set {
	return &Set{p: p}
}

func NewDefault() *Set { return New(DefaultParams()) }

// EMADirection: BUY when fast EMA is above slow EMA on the last candle.
func (s *Set) EMADirection(series models.Series) models.Direction {
	if len(series) < s.p.SlowEMA+2 {
		return models.DirectionUnknown
	}
	closes := series.Closes()
	fast, err := LastEMA(closes, s.p.FastEMA)
	if err != nil {
		return models.DirectionUnknown
	}
	slow, err := LastEMA(closes, s.p.SlowEMA)
	if err != nil {
		return models.DirectionUnknown
	}
	if fast > slow {
		return models.DirectionBuy
	}
	return models.DirectionSell
}

func (s *Set) OneMinuteConfirm(series models.Series) models.Confirm {
	if len(series) < 2 {
		return models.ConfirmUnknown
	}
	last := series[len(series)-1].Close
	prev := series[len(series)-2].Close
	switch {
	case last > prev:
		return models.ConfirmUp
	case last < prev:
		return models.ConfirmDown
	default:
		return models.ConfirmFlat
	}
}

// RecentRange — high/low span of the last RangeWindow candles, 0 when too short.
func (s *Set) RecentRange(series models.Series) float64 {
	if len(series) < s.p.RangeMinCandles {
		return 0
	}
	hi, lo := highLow(series.Tail(s.p.RangeWindow))
	return hi - lo
}

// ATR of the series. ok=false when there is nothing to measure.
func (s *Set) ATR(series models.Series) (float64, bool) {
	period := s.p.ATRPeriod
	if len(series) > period {
		atr := talib.Atr(series.Highs(), series.Lows(), series.Closes(), period)
		v := atr[len(atr)-1]
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, true
		}
	}

	// short series: mean absolute close-to-close move
	if len(series) < 2 {
		return 0, false
	}
	closes := series.Closes()
	diffs := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		diffs = append(diffs, math.Abs(closes[i]-closes[i-1]))
	}
	if len(diffs) > period {
		diffs = diffs[len(diffs)-period:]
	}
	var sum float64
	for _, d := range diffs {
		sum += d
	}
	return sum / float64(len(diffs)), true
}

// Swings24h — highest high and lowest low over the last SwingWindow candles.
func (s *Set) Swings24h(series models.Series) (high, low float64, ok bool) {
	if len(series) < s.p.SwingMinCandles {
		return 0, 0, false
	}
	high, low = highLow(series.Tail(s.p.SwingWindow))
	return high, low, true
}

// LastEMA — EMA of the closes at the last point, alpha = 2/(period+1),
// seeded with the first close (no SMA warm-up).
func LastEMA(closes []float64, period int) (float64, error) {
	if period <= 0 || len(closes) < period {
		return 0, ErrNotEnoughData
	}
	alpha := 2 / float64(period+1)
	v := closes[0]
	for _, c := range closes[1:] {
		v += alpha * (c - v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("ema(%d) is not finite", period)
	}
	return v, nil
}

// LastSMA — trailing simple mean of the last period closes.
func LastSMA(closes []float64, period int) (float64, error) {
	if period <= 0 || len(closes) < period {
		return 0, ErrNotEnoughData
	}
	sma := talib.Sma(closes, period)
	v := sma[len(sma)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("sma(%d) is not finite", period)
	}
	return v, nil
}

// Round6 rounds a price to 6 decimal places.
func Round6(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(6).InexactFloat64()
}

func highLow(series models.Series) (hi, lo float64) {
	if len(series) == 0 {
		return 0, 0
	}
	hi, lo = series[0].High, series[0].Low
	for _, c := range series[1:] {
		if c.High > hi {
			hi = c.High
		}
		if c.Low < lo {
			lo = c.Low
		}
	}
	return hi, lo
}
