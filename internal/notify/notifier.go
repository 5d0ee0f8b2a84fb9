package notify

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"signal_dashboard/internal/models"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(ctx context.Context, msg string) error
}

// Telegram — отправка в один чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

// NewTelegram: endpoint пустой — api.telegram.org.
func NewTelegram(token string, chatID int64, endpoint string, client *http.Client) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, errors.New("telegram: token and chat_id are required")
	}
	if endpoint == "" {
		endpoint = tgbot.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}
	b, err := tgbot.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, errors.Wrap(err, "telegram: connect")
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) API() *tgbot.BotAPI { return t.bot }
func (t *Telegram) ChatID() int64      { return t.chatID }

func (t *Telegram) Send(_ context.Context, msg string) error {
	if t == nil || t.bot == nil {
		return nil
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		return errors.Wrap(err, "telegram: send")
	}
	return nil
}

// Stdout — всё в лог.
type Stdout struct {
	log *zap.Logger
}

func NewStdout(log *zap.Logger) *Stdout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stdout{log: log}
}

func (s *Stdout) Send(_ context.Context, msg string) error {
	s.log.Info(msg)
	return nil
}

// FormatMenu — список активов с доступной сделкой, в порядке меню.
func FormatMenu(status models.MenuStatus, order []string) string {
	var ready, idle []string
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
		if status[name].TradeAvailable {
			ready = append(ready, name)
		} else {
			idle = append(idle, name)
		}
	}
	// то, чего нет в order, в конец по алфавиту
	var rest []string
	for name := range status {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		if status[name].TradeAvailable {
			ready = append(ready, name)
		} else {
			idle = append(idle, name)
		}
	}

	var b strings.Builder
	if len(ready) == 0 {
		b.WriteString("📭 No trade setups right now")
	} else {
		b.WriteString("🟢 Trade available:\n")
		for _, name := range ready {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	if len(idle) > 0 {
		fmt.Fprintf(&b, "\n🔴 No setup: %d", len(idle))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAnalysis — короткая сводка по одному активу.
func FormatAnalysis(name string, a models.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s (%s)\n", name, a.Symbol)
	if !a.OK {
		reason := "unknown"
		if a.Reason != nil {
			reason = *a.Reason
		}
		fmt.Fprintf(&b, "⚠️ %s", reason)
		return b.String()
	}
	fmt.Fprintf(&b, "1h bias: %s, trend: %s\n", a.PrimaryBias, a.Data.Trend.Bias)
	for _, key := range []string{"min_10", "min_5"} {
		r, ok := a.Data.Results[key]
		if !ok {
			continue
		}
		if r.Tradable() {
			fmt.Fprintf(&b, "%s: %s @ %s TP %s SL %s\n", key, r.Signal, num(r.Entry), num(r.TP), num(r.SL))
		} else {
			fmt.Fprintf(&b, "%s: %s (%s)\n", key, r.Signal, r.Reason)
		}
	}
	rv := a.Data.Reversal
	fmt.Fprintf(&b, "reversal: %s %s %s (%d/5)\n", rv.Signal, rv.ConfidenceIcon, rv.Reason, rv.ConfidenceScore)
	fmt.Fprintf(&b, "updated: %s", a.Data.Updated)
	return b.String()
}

func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g", *v)
}

// New — Telegram при заданных token и chat_id, иначе лог.
func New(token string, chatID int64, log *zap.Logger) (Notifier, error) {
	if token == "" || chatID == 0 {
		return NewStdout(log), nil
	}
	tg, err := NewTelegram(token, chatID, "", nil)
	if err != nil {
		return nil, err
	}
	return tg, nil
}
