package main

import (
	"context"

	"signal_dashboard/internal/models"
	"signal_dashboard/internal/modules/analyzer"
	analyzersvc "signal_dashboard/internal/modules/analyzer/service"
	"signal_dashboard/internal/modules/bootstrap"
	"signal_dashboard/internal/modules/config"
	"signal_dashboard/internal/modules/health"
	"signal_dashboard/internal/modules/market"
	"signal_dashboard/internal/notify"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// scan — один проход по меню, сводка в Telegram (или в лог) и выход.
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
		fx.Provide(
			// Notifier: если TELEGRAM_* нет — пишем в лог
			func(cfg *config.Config, log *zap.Logger) (notify.Notifier, error) {
				return notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID, log.Named("notify"))
			},
		),
		fx.Invoke(RunScan),
	)
}

func RunScan(lc fx.Lifecycle, sd fx.Shutdowner, menu *analyzersvc.Menu, reg *models.Registry, n notify.Notifier, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				status := menu.Status(ctx)
				if err := n.Send(ctx, notify.FormatMenu(status, reg.Names())); err != nil {
					log.Error("send scan summary", zap.Error(err))
					code = 1
				}
				_ = sd.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
