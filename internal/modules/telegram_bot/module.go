package telegram

import (
	"context"

	"signal_dashboard/internal/models"
	analyzer "signal_dashboard/internal/modules/analyzer/service"
	"signal_dashboard/internal/modules/config"
	"signal_dashboard/internal/modules/telegram_bot/service"
	"signal_dashboard/internal/notify"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewBot — без token/chat_id бот выключен (api == nil, Start ничего не делает).
func NewBot(cfg *config.Config, an analyzer.Analyzer, menu *analyzer.Menu, reg *models.Registry, log *zap.Logger) (*service.Bot, error) {
	var tg *notify.Telegram
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		var err error
		tg, err = notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, "", nil)
		if err != nil {
			return nil, err
		}
	}
	return service.NewBot(tg, an, menu, reg, log.Named("telegram")), nil
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			NewBot, // *service.Bot
		),
		fx.Invoke(
			func(lc fx.Lifecycle, b *service.Bot) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						b.Start()
						return nil
					},
					OnStop: func(ctx context.Context) error {
						b.Stop()
						return nil
					},
				})
			},
		),
	)
}
