package service

import (
	"context"
	"testing"

	"signal_dashboard/internal/models"

	"go.uber.org/zap/zaptest"
)

func newTestEvaluator(t *testing.T, src *fakeSource, ind *fakeIndicators, reg *models.Registry) *Evaluator {
	t.Helper()
	return NewEvaluator(src, ind, reg, Options{Now: fixedNow, Log: zaptest.NewLogger(t)})
}

func TestAnalyzeDirectionGates(t *testing.T) {
	tests := []struct {
		name   string
		dirs   map[int]models.Direction
		reason string
	}{
		{
			name:   "15m and 5m disagree",
			dirs:   map[int]models.Direction{lenM15: models.DirectionBuy, lenM5: models.DirectionSell, lenM1: models.DirectionBuy},
			reason: ReasonNoAgreement,
		},
		{
			name:   "5m unknown",
			dirs:   map[int]models.Direction{lenM15: models.DirectionSell, lenM1: models.DirectionSell},
			reason: ReasonNoAgreement,
		},
		{
			name:   "1m unknown",
			dirs:   map[int]models.Direction{lenM15: models.DirectionBuy, lenM5: models.DirectionBuy},
			reason: ReasonDir1Unknown,
		},
		{
			name:   "1m against agreement",
			dirs:   map[int]models.Direction{lenM15: models.DirectionSell, lenM5: models.DirectionSell, lenM1: models.DirectionBuy},
			reason: ReasonDir1Mismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := &fakeIndicators{dirs: tt.dirs, rng: 50, confirm: models.ConfirmUp, tpsl: models.TPSL{Status: models.StatusOK}}
			res := newTestEvaluator(t, fullSource(), ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

			if !res.OK {
				t.Fatalf("expected ok analysis, got reason %v", res.Reason)
			}
			for _, key := range []string{"min_10", "min_5"} {
				r, ok := res.Data.Results[key]
				if !ok {
					t.Fatalf("missing rule %s", key)
				}
				if r.Signal != models.SignalNoTrade {
					t.Errorf("%s: signal = %s", key, r.Signal)
				}
				if r.Reason != tt.reason {
					t.Errorf("%s: reason = %q, want %q", key, r.Reason, tt.reason)
				}
				if r.Entry != nil || r.TP != nil || r.SL != nil {
					t.Errorf("%s: prices must stay empty on NO TRADE", key)
				}
				if r.Dir1 != dirOrUnknown(tt.dirs, lenM1) || r.Dir15 != dirOrUnknown(tt.dirs, lenM15) {
					t.Errorf("%s: directions not echoed: %+v", key, r)
				}
				if r.Confirm1m != models.ConfirmUp {
					t.Errorf("%s: confirm = %q", key, r.Confirm1m)
				}
			}
			if len(ind.calls) != 0 {
				t.Errorf("tp/sl must not be computed, got %d calls", len(ind.calls))
			}
		})
	}
}

func dirOrUnknown(m map[int]models.Direction, k int) models.Direction {
	if d, ok := m[k]; ok {
		return d
	}
	return models.DirectionUnknown
}

func TestAnalyzeLowVolatility(t *testing.T) {
	ind := &fakeIndicators{
		dirs: agreeing(models.DirectionBuy),
		rng:  8,
		tpsl: models.TPSL{TP: ptr(2060), SL: ptr(2045), Status: models.StatusOK},
	}
	res := newTestEvaluator(t, fullSource(), ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

	min10 := res.Data.Results["min_10"]
	if min10.Reason != "Low 30m volatility (8.0000) < required 10" {
		t.Errorf("min_10 reason = %q", min10.Reason)
	}
	if min10.Signal != models.SignalNoTrade {
		t.Errorf("min_10 signal = %s", min10.Signal)
	}

	min5 := res.Data.Results["min_5"]
	if min5.Reason != models.StatusOK || min5.Signal != models.SignalBuy {
		t.Errorf("min_5 = %+v", min5)
	}
	if len(ind.calls) != 1 || ind.calls[0].minDist != 5 {
		t.Errorf("expected one tp/sl call with min 5, got %+v", ind.calls)
	}
}

func TestAnalyzeSignal(t *testing.T) {
	ind := &fakeIndicators{
		dirs: agreeing(models.DirectionSell),
		rng:  12,
		tpsl: models.TPSL{TP: ptr(2040.1), SL: ptr(2055.5), Status: models.StatusOK},
	}
	res := newTestEvaluator(t, fullSource(), ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

	for _, key := range []string{"min_10", "min_5"} {
		r := res.Data.Results[key]
		if r.Signal != models.SignalSell || r.Reason != models.StatusOK {
			t.Fatalf("%s: %+v", key, r)
		}
		if r.Entry == nil || *r.Entry != 2050.123457 {
			t.Errorf("%s: entry = %v", key, r.Entry)
		}
		if *r.TP != 2040.1 || *r.SL != 2055.5 {
			t.Errorf("%s: tp/sl = %v/%v", key, *r.TP, *r.SL)
		}
	}
	if !res.TradeAvailable() {
		t.Error("trade should be available")
	}

	want := []float64{10, 5}
	if len(ind.calls) != len(want) {
		t.Fatalf("tp/sl calls = %+v", ind.calls)
	}
	for i, c := range ind.calls {
		if c.minDist != want[i] || c.side != models.DirectionSell || c.symbol != "XAU_USD" {
			t.Errorf("call %d = %+v", i, c)
		}
	}
	if res.Data.Updated != "2024-03-04 12:07:30 UTC" {
		t.Errorf("updated = %q", res.Data.Updated)
	}
}

func TestAnalyzeRegistryMinDistance(t *testing.T) {
	reg, err := models.NewRegistry([]models.Asset{{Name: "EUR/USD", Symbol: "EUR_USD", MinTP: ptr(0.002)}})
	if err != nil {
		t.Fatal(err)
	}
	ind := &fakeIndicators{
		dirs: agreeing(models.DirectionBuy),
		rng:  0.001,
		tpsl: models.TPSL{Status: models.StatusOK},
	}
	res := newTestEvaluator(t, fullSource(), ind, reg).Analyze(context.Background(), "EUR_USD")

	for _, key := range []string{"min_10", "min_5"} {
		if got := res.Data.Results[key].Reason; got != "Low 30m volatility (0.0010) < required 0.002" {
			t.Errorf("%s reason = %q", key, got)
		}
	}
}

func TestAnalyzeTPSLStatus(t *testing.T) {
	ind := &fakeIndicators{
		dirs: agreeing(models.DirectionBuy),
		rng:  40,
		tpsl: models.TPSL{Status: models.StatusTPTooSmall},
	}
	res := newTestEvaluator(t, fullSource(), ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

	for _, key := range []string{"min_10", "min_5"} {
		r := res.Data.Results[key]
		if r.Reason != models.StatusTPTooSmall || r.Signal != models.SignalNoTrade {
			t.Errorf("%s: %+v", key, r)
		}
	}
	if res.TradeAvailable() {
		t.Error("trade should not be available")
	}
}

func TestAnalyzeAbsentData(t *testing.T) {
	src := &fakeSource{}
	ind := &fakeIndicators{rng: 0}
	res := newTestEvaluator(t, src, ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

	if !res.OK {
		t.Fatalf("absent data must not fail the evaluation: %v", res.Reason)
	}
	if res.PrimaryBias != models.BiasUnknown || res.Bias.Reason == "" {
		t.Errorf("bias = %+v", res.Bias)
	}
	if res.MA50 != nil {
		t.Errorf("ma50 = %v", *res.MA50)
	}
	for _, key := range []string{"min_10", "min_5"} {
		r, ok := res.Data.Results[key]
		if !ok {
			t.Fatalf("missing %s", key)
		}
		if r.Reason != ReasonNoAgreement {
			t.Errorf("%s reason = %q", key, r.Reason)
		}
	}
	if len(res.Data.Chart) != 0 {
		t.Errorf("chart = %d points", len(res.Data.Chart))
	}
	if res.Data.Reversal.Reason != ReasonInsufficientData {
		t.Errorf("reversal reason = %q", res.Data.Reversal.Reason)
	}
	if res.Data.Trend.Bias != models.TrendSideways {
		t.Errorf("trend = %s", res.Data.Trend.Bias)
	}
	for _, c := range src.counts {
		if c != defaultLookback {
			t.Errorf("requested %d candles, want %d", c, defaultLookback)
		}
	}
	if len(src.counts) != 4 {
		t.Errorf("expected 4 fetches, got %d", len(src.counts))
	}
}

func TestAnalyzeChart(t *testing.T) {
	src := fullSource()
	ind := &fakeIndicators{}
	res := newTestEvaluator(t, src, ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

	m1 := src.series[models.M1]
	if len(res.Data.Chart) != len(m1) {
		t.Fatalf("chart length = %d, want %d", len(res.Data.Chart), len(m1))
	}
	for i, p := range res.Data.Chart {
		if p.Close != m1[i].Close {
			t.Errorf("point %d close = %v, want %v", i, p.Close, m1[i].Close)
		}
	}
	if res.Data.Chart[0].Time != "2024-03-04T09:00:00Z" {
		t.Errorf("first time = %s", res.Data.Chart[0].Time)
	}
}

func TestAnalyzeRecoversPanic(t *testing.T) {
	ind := &fakeIndicators{panics: true}
	res := newTestEvaluator(t, fullSource(), ind, emptyRegistry()).Analyze(context.Background(), "XAU_USD")

	if res.OK {
		t.Fatal("expected failed analysis")
	}
	if res.Reason == nil || *res.Reason == "" {
		t.Fatal("expected a reason")
	}
	for _, key := range []string{"min_10", "min_5"} {
		r, ok := res.Data.Results[key]
		if !ok || r.Signal != models.SignalNoTrade {
			t.Errorf("%s = %+v", key, r)
		}
	}
	if res.TradeAvailable() {
		t.Error("failed analysis cannot offer a trade")
	}
}

func TestAgreement(t *testing.T) {
	tests := []struct {
		d15, d5 models.Direction
		ok      bool
		side    models.Direction
	}{
		{models.DirectionBuy, models.DirectionBuy, true, models.DirectionBuy},
		{models.DirectionSell, models.DirectionSell, true, models.DirectionSell},
		{models.DirectionBuy, models.DirectionSell, false, models.DirectionUnknown},
		{models.DirectionUnknown, models.DirectionUnknown, false, models.DirectionUnknown},
	}
	for _, tt := range tests {
		ok, side := Agreement(tt.d15, tt.d5)
		if ok != tt.ok || side != tt.side {
			t.Errorf("Agreement(%s, %s) = %v, %s", tt.d15, tt.d5, ok, side)
		}
	}
}
