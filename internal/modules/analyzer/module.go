package analyzer

import (
	"signal_dashboard/internal/indicators"
	"signal_dashboard/internal/models"
	"signal_dashboard/internal/modules/analyzer/service"
	"signal_dashboard/internal/modules/config"
	market "signal_dashboard/internal/modules/market/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newIndicators() service.Indicators {
	return indicators.NewDefault()
}

func newEvaluator(cfg *config.Config, src market.Source, ind service.Indicators, reg *models.Registry, log *zap.Logger) *service.Evaluator {
	return service.NewEvaluator(src, ind, reg, service.Options{
		Lookback: cfg.Evaluator.Lookback,
		Rules:    service.DefaultRules(),
		Log:      log.Named("analyzer"),
	})
}

func asAnalyzer(e *service.Evaluator) service.Analyzer { return e }

func newMenu(cfg *config.Config, an service.Analyzer, reg *models.Registry, log *zap.Logger) *service.Menu {
	return service.NewMenu(an, reg, cfg.Menu.Parallelism, log.Named("menu"))
}

func Module() fx.Option {
	return fx.Module("analyzer",
		fx.Provide(
			newIndicators, // service.Indicators
			newEvaluator,  // *service.Evaluator
			asAnalyzer,    // service.Analyzer
			newMenu,       // *service.Menu
		),
	)
}
