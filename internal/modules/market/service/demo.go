package service

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"signal_dashboard/internal/models"
)

// Demo — synthetic candles for running without OANDA credentials.
// The same symbol, timeframe and count always give the same prices; only the
// timestamps follow the clock.
type Demo struct {
	now func() time.Time
}

func NewDemo(now func() time.Time) *Demo {
	if now == nil {
		now = time.Now
	}
	return &Demo{now: now}
}

func (d *Demo) Candles(_ context.Context, symbol string, tf models.Timeframe, count int) (models.Series, error) {
	if count <= 0 {
		count = 200
	}
	step := tf.Duration()
	if step == 0 {
		return nil, ErrNoCandles
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	_, _ = h.Write([]byte(tf))
	rng := rand.New(rand.NewPCG(h.Sum64(), 7))

	end := d.now().UTC().Truncate(step)
	start := end.Add(-time.Duration(count) * step)

	closes := make([]float64, count)
	drift := 0.0
	for i := range closes {
		x := 0.0
		if count > 1 {
			x = float64(i) * 10 * math.Pi / float64(count-1)
		}
		drift += rng.NormFloat64() * 1.2
		closes[i] = 1900 + 20*math.Sin(x) + 5*math.Cos(x*0.5) + drift*0.02
	}

	out := make(models.Series, count)
	for i, cl := range closes {
		open := cl
		if i > 0 {
			open = closes[i-1]
		}
		out[i] = models.Candle{
			Time:  start.Add(time.Duration(i) * step),
			Open:  open,
			High:  math.Max(open, cl) + rng.Float64()*1.1,
			Low:   math.Min(open, cl) - rng.Float64()*1.1,
			Close: cl,
		}
	}
	return out, nil
}
