package service

import (
	"context"
	"sort"

	"signal_dashboard/internal/models"
)

// Source — candle data access.
type Source interface {
	Candles(ctx context.Context, symbol string, tf models.Timeframe, count int) (models.Series, error)
}

func sortByTime(s models.Series) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
}
