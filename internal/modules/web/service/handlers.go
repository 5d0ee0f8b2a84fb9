package service

import (
	"context"
	"net/http"
	"time"

	"signal_dashboard/internal/helper"
	"signal_dashboard/internal/models"
	analyzer "signal_dashboard/internal/modules/analyzer/service"
	market "signal_dashboard/internal/modules/market/service"

	"go.uber.org/zap"
)

const (
	diagSymbol = "EUR_USD"
	diagCount  = 5
)

// MenuStatuser — источник раскраски меню.
type MenuStatuser interface {
	Status(ctx context.Context) models.MenuStatus
}

// DiagInfo — то, что /api/diag сообщает о подключении к OANDA.
type DiagInfo struct {
	OANDAEnv  string
	HasAPIKey bool
	BaseURL   string
	Demo      bool
}

type Handlers struct {
	an      analyzer.Analyzer
	menu    MenuStatuser
	reg     *models.Registry
	src     market.Source
	diag    DiagInfo
	refresh time.Duration
	page    *Page
	log     *zap.Logger
}

type Deps struct {
	Analyzer analyzer.Analyzer
	Menu     MenuStatuser
	Registry *models.Registry
	Source   market.Source
	Diag     DiagInfo
	Refresh  time.Duration
	Log      *zap.Logger
}

func NewHandlers(d Deps) (*Handlers, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Refresh <= 0 {
		d.Refresh = time.Minute
	}
	page, err := NewPage()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		an:      d.Analyzer,
		menu:    d.Menu,
		reg:     d.Registry,
		src:     d.Source,
		diag:    d.Diag,
		refresh: d.Refresh,
		page:    page,
		log:     d.Log,
	}, nil
}

// Register вешает все ручки дашборда на mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /api/asset", h.asset)
	mux.HandleFunc("GET /api/menu_status", h.menuStatus)
	mux.HandleFunc("GET /api/diag", h.diagnostics)
	mux.HandleFunc("GET /ws", h.stream)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *Handlers) resolve(r *http.Request) (string, bool) {
	name := r.URL.Query().Get("asset")
	if name == "" {
		return "", false
	}
	return h.reg.Symbol(name)
}

func (h *Handlers) asset(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.resolve(r)
	if !ok {
		helper.WriteError(w, http.StatusBadRequest, "unknown asset")
		return
	}
	helper.WriteJSON(w, http.StatusOK, h.an.Analyze(r.Context(), symbol))
}

func (h *Handlers) menuStatus(w http.ResponseWriter, r *http.Request) {
	helper.WriteJSON(w, http.StatusOK, h.menu.Status(r.Context()))
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Render(w, h.reg.Names(), h.refresh); err != nil {
		h.log.Error("render page", zap.Error(err))
	}
}

type diagResponse struct {
	OANDAEnv    string      `json:"oanda_env"`
	HasAPIKey   bool        `json:"has_api_key"`
	BaseURL     string      `json:"base_url"`
	Demo        bool        `json:"demo"`
	Instruments [][2]string `json:"instruments"`
	Timeframe   string      `json:"test_timeframe"`
	TestOK      bool        `json:"test_ok"`
	TestCandles int         `json:"test_candles"`
	TestErr     *string     `json:"test_err"`
}

// diagnostics — настройки подключения и пробный запрос пяти свечей.
func (h *Handlers) diagnostics(w http.ResponseWriter, r *http.Request) {
	tf := models.M15
	if raw := r.URL.Query().Get("tf"); raw != "" {
		parsed, ok := helper.ParseTimeframe(raw)
		if !ok {
			helper.WriteError(w, http.StatusBadRequest, "unknown timeframe")
			return
		}
		tf = parsed
	}

	resp := diagResponse{
		OANDAEnv:    h.diag.OANDAEnv,
		HasAPIKey:   h.diag.HasAPIKey,
		BaseURL:     h.diag.BaseURL,
		Demo:        h.diag.Demo,
		Instruments: make([][2]string, 0, h.reg.Len()),
		Timeframe:   string(tf),
	}
	for _, a := range h.reg.Assets() {
		resp.Instruments = append(resp.Instruments, [2]string{a.Name, a.Symbol})
	}

	series, err := h.src.Candles(r.Context(), diagSymbol, tf, diagCount)
	if err != nil {
		msg := err.Error()
		resp.TestErr = &msg
	} else {
		resp.TestOK = true
		resp.TestCandles = len(series)
	}
	helper.WriteJSON(w, http.StatusOK, resp)
}
