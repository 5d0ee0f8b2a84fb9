package service

import (
	"math"

	"signal_dashboard/internal/indicators"
	"signal_dashboard/internal/models"
)

const (
	reversalDefaultMin = 5.0
	reversalTolPct     = 0.0015
	reversalHighSLMult = 0.75

	ReasonInsufficientData  = "insufficient_data"
	ReasonNoSwings          = "no_swings"
	ReasonNoLongConditions  = "no_long_conditions"
	ReasonNoShortConditions = "no_short_conditions"
	ReasonBiasSideways      = "bias_sideways"
	ReasonReversalLong      = "reversal_long"
	ReasonReversalShort     = "reversal_short"
)

type confidence struct {
	score int
	label string
	icon  string
}

func confidenceFor(score int) confidence {
	switch {
	case score >= 4:
		return confidence{score: score, label: "High", icon: "✅"}
	case score == 3:
		return confidence{score: score, label: "Medium", icon: "⚠️"}
	default:
		return confidence{score: score, label: "Low", icon: "❌"}
	}
}

func noReversal(reason string) models.Reversal {
	c := confidenceFor(0)
	return models.Reversal{
		Signal:          models.SignalNoTrade,
		Reason:          reason,
		ConfidenceScore: c.score,
		ConfidenceLabel: c.label,
		ConfidenceIcon:  c.icon,
		Dir5:            models.DirectionUnknown,
		Dir1:            models.DirectionUnknown,
	}
}

// closeRun — strictly rising/falling runs over the last closes of the series.
type closeRun struct {
	twoUp, twoDown, threeUp, threeDown bool
}

func lastCloseRun(m1 models.Series) closeRun {
	if len(m1) < 4 {
		return closeRun{}
	}
	c := m1.Tail(4).Closes()
	p3, p2, p1, last := c[0], c[1], c[2], c[3]
	return closeRun{
		twoUp:     p2 < p1 && p1 < last,
		twoDown:   p2 > p1 && p1 > last,
		threeUp:   p3 < p2 && p2 < p1 && p1 < last,
		threeDown: p3 > p2 && p2 > p1 && p1 > last,
	}
}

// reversal — entry near a 24h swing extreme in the direction of the combined
// trend, scored 0..5 for confidence.
func (e *Evaluator) reversal(symbol string, sig signals, snap snapshot, trend models.Trend) models.Reversal {
	out := noReversal(ReasonInsufficientData)
	out.Dir5 = sig.dir5
	out.Dir1 = sig.dir1
	if sig.entry == nil || snap.m15.Empty() || snap.m1.Empty() {
		return out
	}
	entry := *sig.entry

	swingHigh, swingLow, ok := e.ind.Swings24h(snap.m15)
	if !ok {
		out.Reason = ReasonNoSwings
		return out
	}

	minDist := e.reg.MinDistance(symbol, reversalDefaultMin)
	atr, ok := e.ind.ATR(snap.m15)
	if !ok {
		atr = 0
	}
	tol := math.Max(minDist, math.Max(atr, math.Abs(entry)*reversalTolPct))

	distLow := entry - swingLow
	distHigh := swingHigh - entry
	run := lastCloseRun(snap.m1)

	score := 0
	if trend == models.TrendLong && distLow <= tol {
		score += 2
	}
	if trend == models.TrendShort && distHigh <= tol {
		score += 2
	}
	if atr >= tol {
		score++
	}
	if (trend == models.TrendLong && sig.dir5 == models.DirectionBuy) ||
		(trend == models.TrendShort && sig.dir5 == models.DirectionSell) {
		score++
	}
	if (trend == models.TrendLong && run.threeUp) || (trend == models.TrendShort && run.threeDown) {
		score++
	}

	conf := confidenceFor(score)
	out.ConfidenceScore = conf.score
	out.ConfidenceLabel = conf.label
	out.ConfidenceIcon = conf.icon
	high := conf.label == "High"

	slDist := tol
	if high {
		slDist = tol * reversalHighSLMult
	}
	buffer := indicators.SwingBuffer(entry)

	switch trend {
	case models.TrendLong:
		out.Reason = ReasonNoLongConditions
		if distLow > tol || !run.twoUp || !(high || sig.dir5 == models.DirectionBuy) || sig.dir1 != models.DirectionBuy {
			return out
		}
		target := swingHigh - buffer
		tp := entry + math.Max(minDist, (target-entry)*0.5)
		sl := entry - math.Max(atr, slDist*0.5)
		if tp-entry >= minDist {
			fill(&out, models.SignalBuy, entry, tp, sl, ReasonReversalLong)
		}
	case models.TrendShort:
		out.Reason = ReasonNoShortConditions
		if distHigh > tol || !run.twoDown || !(high || sig.dir5 == models.DirectionSell) || sig.dir1 != models.DirectionSell {
			return out
		}
		target := swingLow + buffer
		tp := entry - math.Max(minDist, (entry-target)*0.5)
		sl := entry + math.Max(atr, slDist*0.5)
		if entry-tp >= minDist {
			fill(&out, models.SignalSell, entry, tp, sl, ReasonReversalShort)
		}
	default:
		out.Reason = ReasonBiasSideways
	}
	return out
}

func fill(out *models.Reversal, signal models.Signal, entry, tp, sl float64, reason string) {
	e, t, s := indicators.Round6(entry), indicators.Round6(tp), indicators.Round6(sl)
	out.Signal = signal
	out.Entry = &e
	out.TP = &t
	out.SL = &s
	out.Reason = reason
}
