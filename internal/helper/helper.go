package helper

import (
	"net/http"
	"strings"

	"signal_dashboard/internal/models"

	"github.com/bytedance/sonic"
)

// ParseTimeframe понимает и "15m"/"1h", и OANDA-гранулярность "M15"/"H1".
func ParseTimeframe(raw string) (models.Timeframe, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h", "h1":
		return models.H1, true
	case "15m", "m15":
		return models.M15, true
	case "5m", "m5":
		return models.M5, true
	case "1m", "m1":
		return models.M1, true
	default:
		return "", false
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}
