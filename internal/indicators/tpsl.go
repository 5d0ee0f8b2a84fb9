package indicators

import (
	"math"

	"signal_dashboard/internal/models"
)

// SwingBuffer — distance kept from a swing level so TP is not placed exactly on it.
func SwingBuffer(entry float64) float64 {
	return math.Max(math.Abs(entry)*0.002, 1.0)
}

// TakeProfitStopLoss places TP at least minDist (plus 15m ATR) away from the
// entry, extending it to the 24h swing level of ref when that is further.
// SL distance is one ATR, or half the base distance when ATR is unavailable.
func (s *Set) TakeProfitStopLoss(entry *float64, side models.Direction, ref models.Series, _ string, minDist float64) models.TPSL {
	if entry == nil {
		return models.TPSL{Status: models.StatusNoEntry}
	}
	e := *entry

	atr, ok := s.ATR(ref)
	if !ok || atr <= 0 {
		atr = 0
	}
	base := math.Max(minDist, minDist+atr)

	var (
		tp       float64
		swingHit bool
	)
	if high, low, ok := s.Swings24h(ref); ok {
		buffer := SwingBuffer(e)
		switch side {
		case models.DirectionBuy:
			if cand := high - buffer; cand-e >= base {
				tp, swingHit = cand, true
			}
		case models.DirectionSell:
			if cand := low + buffer; e-cand >= base {
				tp, swingHit = cand, true
			}
		}
	}
	if !swingHit {
		if side == models.DirectionBuy {
			tp = e + base
		} else {
			tp = e - base
		}
	}

	slDist := atr
	if slDist <= 0 {
		slDist = base / 2
	}
	var sl, dist float64
	if side == models.DirectionBuy {
		sl = e - slDist
		dist = tp - e
	} else {
		sl = e + slDist
		dist = e - tp
	}

	if dist < minDist {
		return models.TPSL{Status: models.StatusTPTooSmall}
	}

	tp, sl = Round6(tp), Round6(sl)
	return models.TPSL{TP: &tp, SL: &sl, Status: models.StatusOK}
}
