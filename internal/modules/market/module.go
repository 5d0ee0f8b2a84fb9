package market

import (
	"signal_dashboard/internal/modules/config"
	health "signal_dashboard/internal/modules/health/service"
	"signal_dashboard/internal/modules/market/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewSource — OANDA when a key is configured, demo candles otherwise.
func NewSource(cfg *config.Config, log *zap.Logger, state *health.State) service.Source {
	if cfg.DemoMode() {
		log.Info("market: demo candles", zap.Bool("demo_flag", cfg.Demo))
		return service.NewDemo(nil)
	}
	log.Info("market: oanda", zap.String("env", cfg.OANDA.Env), zap.String("base_url", cfg.OANDABaseURL()))
	return service.NewOANDAClient(cfg.OANDABaseURL(), cfg.OANDA.APIKey, cfg.OANDA.Timeout, log.Named("oanda"), state)
}

func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(
			NewSource,
		),
	)
}
