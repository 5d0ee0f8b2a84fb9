package service

import (
	"context"
	"strings"

	"signal_dashboard/internal/models"
	analyzer "signal_dashboard/internal/modules/analyzer/service"
	"signal_dashboard/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type MenuStatuser interface {
	Status(ctx context.Context) models.MenuStatus
}

// Bot отвечает на команды в одном чате: /menu, /signal <asset>, /assets.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
	an     analyzer.Analyzer
	menu   MenuStatuser
	reg    *models.Registry
	log    *zap.Logger

	cancel context.CancelFunc
}

func NewBot(tg *notify.Telegram, an analyzer.Analyzer, menu MenuStatuser, reg *models.Registry, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bot{an: an, menu: menu, reg: reg, log: log}
	if tg != nil {
		b.api = tg.API()
		b.chatID = tg.ChatID()
	}
	return b
}

// Reply — текст ответа на команду. false — команду игнорируем.
func (b *Bot) Reply(ctx context.Context, command, args string) (string, bool) {
	switch command {
	case "start", "help":
		return "Commands:\n/menu — assets with a trade setup\n/signal <asset> — full analysis\n/assets — asset names", true
	case "assets":
		return strings.Join(b.reg.Names(), "\n"), true
	case "menu":
		return notify.FormatMenu(b.menu.Status(ctx), b.reg.Names()), true
	case "signal":
		name := strings.TrimSpace(args)
		symbol, ok := b.reg.Symbol(name)
		if !ok {
			return "❗️ unknown asset, see /assets", true
		}
		return notify.FormatAnalysis(name, b.an.Analyze(ctx, symbol)), true
	default:
		return "", false
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}
	// чужие чаты молча игнорируем
	if msg.Chat.ID != b.chatID {
		return
	}

	text, ok := b.Reply(ctx, msg.Command(), msg.CommandArguments())
	if !ok {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(b.chatID, text)); err != nil {
		b.log.Warn("telegram reply", zap.String("command", msg.Command()), zap.Error(err))
	}
}

// Start: long-polling в отдельной горутине до Stop.
func (b *Bot) Start() {
	if b == nil || b.api == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				b.handleUpdate(ctx, upd)
			}
		}
	}()
	b.log.Info("telegram bot started", zap.Int64("chat_id", b.chatID))
}

func (b *Bot) Stop() {
	if b == nil || b.api == nil {
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
}
