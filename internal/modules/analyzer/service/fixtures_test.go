package service

import (
	"context"
	"errors"
	"time"

	"signal_dashboard/internal/models"
)

var fixtureStart = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func seriesFromCloses(step time.Duration, closes ...float64) models.Series {
	out := make(models.Series, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Time:  fixtureStart.Add(time.Duration(i) * step),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return out
}

func flatCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// fakeSource serves fixed series per timeframe. Missing timeframes fail.
type fakeSource struct {
	series map[models.Timeframe]models.Series
	counts []int
}

func (f *fakeSource) Candles(_ context.Context, _ string, tf models.Timeframe, count int) (models.Series, error) {
	f.counts = append(f.counts, count)
	s, ok := f.series[tf]
	if !ok {
		return nil, errors.New("no data")
	}
	return s, nil
}

// Fixture timeframes are told apart by length.
const (
	lenM15 = 15
	lenM5  = 5
	lenM1  = 30
)

type tpslCall struct {
	side    models.Direction
	symbol  string
	minDist float64
}

// fakeIndicators returns canned values. Directions are keyed by series length.
type fakeIndicators struct {
	dirs    map[int]models.Direction
	confirm models.Confirm
	rng     float64
	atr     float64
	atrOK   bool
	swingHi float64
	swingLo float64
	swingOK bool
	tpsl    models.TPSL
	panics  bool

	calls []tpslCall
}

func (f *fakeIndicators) EMADirection(s models.Series) models.Direction {
	if f.panics {
		panic("indicator exploded")
	}
	if d, ok := f.dirs[len(s)]; ok {
		return d
	}
	return models.DirectionUnknown
}

func (f *fakeIndicators) OneMinuteConfirm(models.Series) models.Confirm { return f.confirm }
func (f *fakeIndicators) RecentRange(models.Series) float64            { return f.rng }
func (f *fakeIndicators) ATR(models.Series) (float64, bool)             { return f.atr, f.atrOK }

func (f *fakeIndicators) Swings24h(models.Series) (float64, float64, bool) {
	return f.swingHi, f.swingLo, f.swingOK
}

func (f *fakeIndicators) TakeProfitStopLoss(entry *float64, side models.Direction, _ models.Series, symbol string, minDist float64) models.TPSL {
	f.calls = append(f.calls, tpslCall{side: side, symbol: symbol, minDist: minDist})
	if entry == nil {
		return models.TPSL{Status: models.StatusNoEntry}
	}
	return f.tpsl
}

func ptr(v float64) *float64 { return &v }

// fullSource — every timeframe present, 1m closing at 2050.1234567.
func fullSource() *fakeSource {
	m1 := flatCloses(lenM1, 2050)
	m1[len(m1)-1] = 2050.1234567
	return &fakeSource{series: map[models.Timeframe]models.Series{
		models.H1:  seriesFromCloses(time.Hour, flatCloses(80, 2000)...),
		models.M15: seriesFromCloses(15*time.Minute, flatCloses(lenM15, 2040)...),
		models.M5:  seriesFromCloses(5*time.Minute, flatCloses(lenM5, 2045)...),
		models.M1:  seriesFromCloses(time.Minute, m1...),
	}}
}

func agreeing(d models.Direction) map[int]models.Direction {
	return map[int]models.Direction{lenM15: d, lenM5: d, lenM1: d}
}

func emptyRegistry() *models.Registry {
	reg, _ := models.NewRegistry(nil)
	return reg
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 4, 12, 7, 30, 0, time.UTC) }
