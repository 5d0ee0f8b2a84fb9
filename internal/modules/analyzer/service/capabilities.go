package service

import (
	"context"

	"signal_dashboard/internal/models"
)

// Indicators — indicator capability used by the evaluator.
// indicators.Set is the production implementation.
type Indicators interface {
	EMADirection(s models.Series) models.Direction
	OneMinuteConfirm(s models.Series) models.Confirm
	RecentRange(s models.Series) float64
	ATR(s models.Series) (float64, bool)
	Swings24h(s models.Series) (high, low float64, ok bool)
	TakeProfitStopLoss(entry *float64, side models.Direction, ref models.Series, symbol string, minDist float64) models.TPSL
}

// Analyzer — anything that can evaluate one instrument.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) models.Analysis
}

// RuleVariant — one minimum-distance rule. MinDistance is the fallback used
// when the instrument has no override.
type RuleVariant struct {
	Name        string
	MinDistance float64
}

func DefaultRules() []RuleVariant {
	return []RuleVariant{
		{Name: "min_10", MinDistance: 10},
		{Name: "min_5", MinDistance: 5},
	}
}
