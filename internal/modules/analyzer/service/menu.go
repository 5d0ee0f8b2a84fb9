package service

import (
	"context"
	"fmt"

	"signal_dashboard/internal/models"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Menu reduces every registry asset to a single "trade available" flag.
type Menu struct {
	an          Analyzer
	reg         *models.Registry
	parallelism int
	log         *zap.Logger
}

func NewMenu(an Analyzer, reg *models.Registry, parallelism int, log *zap.Logger) *Menu {
	if parallelism < 1 {
		parallelism = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Menu{an: an, reg: reg, parallelism: parallelism, log: log}
}

// Status evaluates each asset independently. A failed asset reads false and
// never affects the others.
func (m *Menu) Status(ctx context.Context) models.MenuStatus {
	span, ctx := opentracing.StartSpanFromContext(ctx, "menu.status")
	defer span.Finish()

	assets := m.reg.Assets()
	flags := make([]bool, len(assets))

	var g errgroup.Group
	g.SetLimit(m.parallelism)
	for i, a := range assets {
		g.Go(func() error {
			flags[i] = m.available(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	out := make(models.MenuStatus, len(assets))
	for i, a := range assets {
		out[a.Name] = models.MenuEntry{TradeAvailable: flags[i]}
	}
	span.SetTag("assets", len(assets))
	return out
}

func (m *Menu) available(ctx context.Context, a models.Asset) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("menu evaluation panic",
				zap.String("asset", a.Name),
				zap.String("panic", fmt.Sprint(r)),
			)
			ok = false
		}
	}()

	res := m.an.Analyze(ctx, a.Symbol)
	if !res.OK {
		m.log.Warn("menu evaluation degraded", zap.String("asset", a.Name), zap.Stringp("reason", res.Reason))
		return false
	}
	return res.TradeAvailable()
}
