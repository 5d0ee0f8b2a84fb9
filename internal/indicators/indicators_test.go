package indicators

import (
	"math"
	"testing"
	"time"

	"signal_dashboard/internal/models"
)

func seriesFromCloses(closes ...float64) models.Series {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	out := make(models.Series, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return out
}

func ramp(n int, from, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

func flat(n int, v float64) []float64 { return ramp(n, v, 0) }

func TestEMADirection(t *testing.T) {
	set := NewDefault()

	tests := []struct {
		name   string
		series models.Series
		want   models.Direction
	}{
		{"rising", seriesFromCloses(ramp(40, 100, 1)...), models.DirectionBuy},
		{"falling", seriesFromCloses(ramp(40, 100, -1)...), models.DirectionSell},
		{"flat is not above", seriesFromCloses(flat(40, 100)...), models.DirectionSell},
		{"too short", seriesFromCloses(ramp(22, 100, 1)...), models.DirectionUnknown},
		{"empty", nil, models.DirectionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.EMADirection(tt.series); got != tt.want {
				t.Errorf("EMADirection() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOneMinuteConfirm(t *testing.T) {
	set := NewDefault()

	tests := []struct {
		name   string
		closes []float64
		want   models.Confirm
	}{
		{"up", []float64{1, 2}, models.ConfirmUp},
		{"down", []float64{2, 1}, models.ConfirmDown},
		{"flat", []float64{2, 2}, models.ConfirmFlat},
		{"single", []float64{2}, models.ConfirmUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.OneMinuteConfirm(seriesFromCloses(tt.closes...)); got != tt.want {
				t.Errorf("OneMinuteConfirm() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecentRange(t *testing.T) {
	set := NewDefault()

	if got := set.RecentRange(seriesFromCloses(ramp(9, 100, 1)...)); got != 0 {
		t.Errorf("expected 0 for short series, got %v", got)
	}

	// 40 candles, only the last 30 count: closes 110..139, highs +1, lows -1
	got := set.RecentRange(seriesFromCloses(ramp(40, 100, 1)...))
	if want := (139.0 + 1) - (110.0 - 1); got != want {
		t.Errorf("RecentRange() = %v, want %v", got, want)
	}
}

func TestATR(t *testing.T) {
	set := NewDefault()

	atr, ok := set.ATR(seriesFromCloses(flat(20, 100)...))
	if !ok || atr != 2 {
		t.Errorf("ATR flat = %v, %v; want 2, true", atr, ok)
	}

	atr, ok = set.ATR(seriesFromCloses(1, 2, 3, 4, 5))
	if !ok || atr != 1 {
		t.Errorf("ATR fallback = %v, %v; want 1, true", atr, ok)
	}

	if _, ok := set.ATR(seriesFromCloses(1)); ok {
		t.Error("ATR of a single candle should be unavailable")
	}
}

func TestSwings24h(t *testing.T) {
	set := NewDefault()

	if _, _, ok := set.Swings24h(seriesFromCloses(1, 2, 3, 4, 5)); ok {
		t.Error("expected no swings for 5 candles")
	}

	hi, lo, ok := set.Swings24h(seriesFromCloses(ramp(120, 1, 1)...))
	if !ok {
		t.Fatal("expected swings")
	}
	// last 96 closes are 25..120
	if hi != 121 || lo != 24 {
		t.Errorf("Swings24h() = %v/%v, want 121/24", hi, lo)
	}
}

func TestTakeProfitStopLoss(t *testing.T) {
	set := NewDefault()
	ref := seriesFromCloses(flat(20, 100)...) // ATR 2, swings 101/99
	entry := 100.0

	t.Run("no entry", func(t *testing.T) {
		res := set.TakeProfitStopLoss(nil, models.DirectionBuy, ref, "XAU_USD", 10)
		if res.Status != models.StatusNoEntry || res.TP != nil || res.SL != nil {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("buy base distance", func(t *testing.T) {
		res := set.TakeProfitStopLoss(&entry, models.DirectionBuy, ref, "XAU_USD", 10)
		if res.Status != models.StatusOK {
			t.Fatalf("status = %s", res.Status)
		}
		if *res.TP != 112 || *res.SL != 98 {
			t.Errorf("tp/sl = %v/%v, want 112/98", *res.TP, *res.SL)
		}
	})

	t.Run("sell base distance", func(t *testing.T) {
		res := set.TakeProfitStopLoss(&entry, models.DirectionSell, ref, "XAU_USD", 10)
		if res.Status != models.StatusOK {
			t.Fatalf("status = %s", res.Status)
		}
		if *res.TP != 88 || *res.SL != 102 {
			t.Errorf("tp/sl = %v/%v, want 88/102", *res.TP, *res.SL)
		}
	})

	t.Run("buy extends to swing", func(t *testing.T) {
		spiked := seriesFromCloses(flat(20, 100)...)
		spiked[19].High = 150
		res := set.TakeProfitStopLoss(&entry, models.DirectionBuy, spiked, "XAU_USD", 10)
		if res.Status != models.StatusOK {
			t.Fatalf("status = %s", res.Status)
		}
		// swing 150 minus buffer 1; ATR (2*13+51)/14 = 5.5
		if *res.TP != 149 || *res.SL != 94.5 {
			t.Errorf("tp/sl = %v/%v, want 149/94.5", *res.TP, *res.SL)
		}
	})

	t.Run("no atr uses half base for sl", func(t *testing.T) {
		res := set.TakeProfitStopLoss(&entry, models.DirectionBuy, nil, "XAU_USD", 5)
		if res.Status != models.StatusOK {
			t.Fatalf("status = %s", res.Status)
		}
		if *res.TP != 105 || *res.SL != 97.5 {
			t.Errorf("tp/sl = %v/%v, want 105/97.5", *res.TP, *res.SL)
		}
	})
}

func TestLastEMA(t *testing.T) {
	// alpha = 0.5, seeded with the first close: 1 -> 1.5 -> 2.25
	v, err := LastEMA([]float64{1, 2, 3}, 3)
	if err != nil {
		t.Fatalf("LastEMA: %v", err)
	}
	if v != 2.25 {
		t.Errorf("LastEMA() = %v, want 2.25", v)
	}
	if v, _ := LastEMA(flat(30, 100), 9); v != 100 {
		t.Errorf("flat LastEMA() = %v, want 100", v)
	}
	if _, err := LastEMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for short input")
	}
}

func TestLastSMA(t *testing.T) {
	v, err := LastSMA(ramp(60, 1, 1), 50)
	if err != nil {
		t.Fatalf("LastSMA: %v", err)
	}
	// mean of 11..60
	if v != 35.5 {
		t.Errorf("LastSMA() = %v, want 35.5", v)
	}
	if _, err := LastSMA(ramp(10, 1, 1), 50); err == nil {
		t.Error("expected error for short input")
	}
}

func TestRound6(t *testing.T) {
	if got := Round6(1.23456789); got != 1.234568 {
		t.Errorf("Round6() = %v", got)
	}
	if got := Round6(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Round6(inf) = %v", got)
	}
}
