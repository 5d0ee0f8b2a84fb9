package health

import (
	"net/http"

	"go.uber.org/fx"

	"signal_dashboard/internal/helper"
	"signal_dashboard/internal/modules/health/service"
)

// Register вешает liveness/readiness/health ручки на общий mux.
func Register(mux *http.ServeMux, state *service.State, version string) {
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: сервис готов обслуживать трафик
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"ready":       state.Ready(),
			"uptimeSec":   int64(state.Uptime().Seconds()),
			"fetchErrors": state.FetchErrors(),
			"lastError":   state.LastError(),
			"lastFetchUnix": func() int64 {
				t := state.LastFetch()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		helper.WriteJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		helper.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "version": version})
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
		),
	)
}
