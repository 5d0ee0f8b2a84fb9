package service

import (
	"context"
	"net/http"
	"time"

	"signal_dashboard/internal/helper"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// CheckOrigin не задан: gorilla пускает только same-origin (или без Origin).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// stream пушит свежий анализ актива сразу и затем каждые refresh,
// пока клиент не отключится. Каждая отправка считается заново.
func (h *Handlers) stream(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.resolve(r)
	if !ok {
		helper.WriteError(w, http.StatusBadRequest, "unknown asset")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// читаем только control-фреймы; ошибка чтения = клиент ушёл
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := time.NewTicker(h.refresh)
	defer push.Stop()
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	if err := h.pushAnalysis(ctx, conn, symbol); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-push.C:
			if err := h.pushAnalysis(ctx, conn, symbol); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handlers) pushAnalysis(ctx context.Context, conn *websocket.Conn, symbol string) error {
	body, err := sonic.Marshal(h.an.Analyze(ctx, symbol))
	if err != nil {
		h.log.Error("ws marshal", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		h.log.Debug("ws write", zap.String("symbol", symbol), zap.Error(err))
		return err
	}
	return nil
}
