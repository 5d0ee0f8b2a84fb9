package main

import (
	"signal_dashboard/internal/modules/analyzer"
	"signal_dashboard/internal/modules/bootstrap"
	"signal_dashboard/internal/modules/config"
	"signal_dashboard/internal/modules/health"
	"signal_dashboard/internal/modules/market"
	telegram "signal_dashboard/internal/modules/telegram_bot"
	"signal_dashboard/internal/modules/web"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.WithLogger(bootstrap.FxLogger),
		Options(),
	).Run()
}

func Options() fx.Option {
	return fx.Options(
		config.Module(),
		bootstrap.Module(),
		health.Module(),
		market.Module(),
		analyzer.Module(),
		web.Module(),
		telegram.Module(),
		bootstrap.ProbeOnStart(),
	)
}
