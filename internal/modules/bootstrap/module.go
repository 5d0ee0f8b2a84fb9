package bootstrap

import (
	"context"
	"time"

	"signal_dashboard/internal/models"
	bootstrap "signal_dashboard/internal/modules/bootstrap/service"
	"signal_dashboard/internal/modules/config"
	market "signal_dashboard/internal/modules/market/service"
	"signal_dashboard/pkg/logger"
	"signal_dashboard/pkg/tracing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	logger.SetServiceName(cfg.Tracing.ServiceName)
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
}

// FxLogger — события fx в тот же zap.
func FxLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}

func InitTracing(lc fx.Lifecycle, cfg *config.Config) error {
	tracing.SetServiceName(cfg.Tracing.ServiceName)
	_, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}

func newProber(cfg *config.Config, src market.Source, reg *models.Registry, log *zap.Logger) *bootstrap.Prober {
	return bootstrap.NewProber(src, reg, cfg.Menu.Parallelism, log.Named("probe"))
}

// Module — логгер, трейсинг и стартовая проверка источника свечей.
func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			NewLogger,
			newProber, // -> *bootstrap.Prober
		),
		fx.Invoke(InitTracing),
	)
}

// ProbeOnStart запускает проверку в фоне, старт приложения не ждёт.
func ProbeOnStart() fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, p *bootstrap.Prober) {
		if !cfg.Service.ProbeOnStart {
			return
		}
		var cancel context.CancelFunc = func() {}
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				var ctx context.Context
				ctx, cancel = context.WithTimeout(context.Background(), 2*cfg.OANDA.Timeout+5*time.Second)
				go func() {
					defer cancel()
					rep, err := p.Probe(ctx)
					if err != nil {
						logger.Error("[BOOT] probe error: %v", err)
						return
					}
					logger.Info("[BOOT] candles ok for %d assets", len(rep.OK))
				}()
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return nil
			},
		})
	})
}
