package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"signal_dashboard/internal/models"
	analyzer "signal_dashboard/internal/modules/analyzer/service"
	"signal_dashboard/internal/modules/config"
	"signal_dashboard/internal/modules/health"
	healthsvc "signal_dashboard/internal/modules/health/service"
	market "signal_dashboard/internal/modules/market/service"
	"signal_dashboard/internal/modules/web/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewHandlers(cfg *config.Config, an analyzer.Analyzer, menu *analyzer.Menu, reg *models.Registry, src market.Source, log *zap.Logger) (*service.Handlers, error) {
	return service.NewHandlers(service.Deps{
		Analyzer: an,
		Menu:     menu,
		Registry: reg,
		Source:   src,
		Diag: service.DiagInfo{
			OANDAEnv:  cfg.OANDA.Env,
			HasAPIKey: cfg.OANDA.APIKey != "",
			BaseURL:   cfg.OANDABaseURL(),
			Demo:      cfg.DemoMode(),
		},
		Refresh: cfg.Service.RefreshInterval,
		Log:     log.Named("web"),
	})
}

// NewMux собирает дашборд и health-ручки на одном mux.
func NewMux(cfg *config.Config, h *service.Handlers, state *healthsvc.State) *http.ServeMux {
	mux := http.NewServeMux()
	h.Register(mux)
	health.Register(mux, state, cfg.Service.Version)
	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux, state *healthsvc.State, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           service.Middleware(log.Named("http"), mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Error("http serve", zap.Error(err))
				}
			}()
			state.SetReady(true)
			log.Info("dashboard listening", zap.String("addr", ln.Addr().String()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("web",
		fx.Provide(
			NewHandlers,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
