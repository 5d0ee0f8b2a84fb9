package service

import (
	"fmt"

	"signal_dashboard/internal/indicators"
	"signal_dashboard/internal/models"
)

const (
	biasMAPeriod   = 50
	biasMinCandles = 60
	biasDeadband   = 0.5 // percent

	trendFastEMA    = 20
	trendSlowEMA    = 50
	trendMinCandles = 60
)

// ClassifyBias — UP above +0.5%, DOWN below -0.5%, SIDEWAYS inside the band.
func ClassifyBias(devPct float64) models.Bias {
	switch {
	case devPct > biasDeadband:
		return models.BiasUp
	case devPct < -biasDeadband:
		return models.BiasDown
	default:
		return models.BiasSideways
	}
}

// Deviation of the close from the moving average, in percent.
func Deviation(price, ma float64) (float64, error) {
	if ma == 0 {
		return 0, fmt.Errorf("moving average is zero")
	}
	return (price - ma) / ma * 100, nil
}

// PrimaryBias — MA50 bias of the 1h series. Never fails: a missing or short
// series, or a failed computation, yields UNKNOWN with the reason.
func PrimaryBias(h1 models.Series) models.BiasOutcome {
	if h1.Empty() {
		return models.BiasOutcome{Bias: models.BiasUnknown, Reason: "1h candles unavailable"}
	}
	if len(h1) < biasMinCandles {
		return models.BiasOutcome{
			Bias:   models.BiasUnknown,
			Reason: fmt.Sprintf("not enough 1h candles (%d < %d)", len(h1), biasMinCandles),
		}
	}

	ma, err := indicators.LastSMA(h1.Closes(), biasMAPeriod)
	if err != nil {
		return models.BiasOutcome{Bias: models.BiasUnknown, Reason: "ma50: " + err.Error()}
	}
	last, _ := h1.Last()
	dev, err := Deviation(last.Close, ma)
	if err != nil {
		return models.BiasOutcome{Bias: models.BiasUnknown, Reason: "ma50: " + err.Error()}
	}

	ma6 := indicators.Round6(ma)
	return models.BiasOutcome{
		Bias:   ClassifyBias(dev),
		MA50:   &ma6,
		DevPct: &dev,
	}
}

// CombinedTrend — 15m EMA20/EMA50 and 1h MA50 bias. Either side alone wins,
// disagreement or no data is SIDEWAYS.
func CombinedTrend(m15, h1 models.Series) models.Trend {
	var t15, t1h models.Trend

	if len(m15) >= trendMinCandles {
		closes := m15.Closes()
		fast, errF := indicators.LastEMA(closes, trendFastEMA)
		slow, errS := indicators.LastEMA(closes, trendSlowEMA)
		if errF == nil && errS == nil {
			if fast > slow {
				t15 = models.TrendLong
			} else {
				t15 = models.TrendShort
			}
		}
	}

	if b := PrimaryBias(h1); !b.Degraded() {
		switch b.Bias {
		case models.BiasUp:
			t1h = models.TrendLong
		case models.BiasDown:
			t1h = models.TrendShort
		default:
			t1h = models.TrendSideways
		}
	}

	switch {
	case t15 == "" && t1h == "":
		return models.TrendSideways
	case t15 == "":
		return t1h
	case t1h == "":
		return t15
	case t15 == t1h:
		return t15
	default:
		return models.TrendSideways
	}
}
