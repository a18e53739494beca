// Package notify delivers optional operator notifications over Telegram.
package notify

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/kledx/mbc20-claw/pkg/logx"
)

// Service sends short status messages to a single chat. A nil *Service
// is valid and drops everything, so callers never branch on
// configuration.
type Service struct {
	bot    *tele.Bot
	chatID int64
	log    logx.Logger
}

// New connects to Telegram. Returns (nil, nil) when token or chatID is
// unset; notification is strictly opt-in.
func New(token string, chatID int64, log logx.Logger) (*Service, error) {
	token = strings.TrimSpace(token)
	if token == "" || chatID == 0 {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &Service{bot: bot, chatID: chatID, log: log}, nil
}

// Notify sends text best-effort. Failures are logged and swallowed;
// the posting loop must never stall on Telegram.
func (s *Service) Notify(ctx context.Context, text string) {
	if s == nil || s.bot == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}
	_, err := s.bot.Send(&tele.Chat{ID: s.chatID}, text, tele.NoPreview)
	if err != nil {
		s.log.Warn("notification send failed", logx.Int64("chat_id", s.chatID), logx.Err(err))
		return
	}
	s.log.Debug("notification sent", logx.Int64("chat_id", s.chatID))
}
