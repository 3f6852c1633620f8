// Package triage selects chats that still need a reply, serving chat lists
// through a time-boxed local cache.
package triage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BosTheCoder/beeper-triage/internal/beeper"
	"github.com/BosTheCoder/beeper-triage/internal/cache"
)

// Backend is the messaging API surface the service needs. *beeper.Client
// satisfies it.
type Backend interface {
	ListChats(ctx context.Context) ([]beeper.Chat, error)
	GetChat(ctx context.Context, chatID string) (beeper.Chat, error)
	ListMessages(ctx context.Context, chatID string, limit int, sinceMillis int64) ([]beeper.Message, error)
	SendMessage(ctx context.Context, chatID, text, replyToID string) (string, error)
}

// Service wraps the backend with the snapshot cache. A nil cache disables
// caching without changing behaviour otherwise.
type Service struct {
	backend Backend
	cache   *cache.DB
	ttl     time.Duration
	log     *zap.Logger
}

// NewService builds a Service. db may be nil when no cache is available.
func NewService(backend Backend, db *cache.DB, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{backend: backend, cache: db, ttl: ttl, log: log}
}

// Chats returns the full chat list. A fresh cached snapshot short-circuits
// the network unless refresh is set. Fetched lists are cached best-effort;
// cache trouble is logged, never surfaced.
func (s *Service) Chats(ctx context.Context, refresh bool) ([]beeper.Chat, error) {
	if !refresh && s.cache != nil {
		cached, err := s.cache.LoadChats(s.ttl)
		if err != nil {
			s.log.Warn("cache read failed", zap.Error(err))
		} else if cached != nil {
			s.log.Info("chat list served from cache", zap.Int("chats", len(cached)))
			return cached, nil
		}
	}

	chats, err := s.backend.ListChats(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SaveChats(chats); err != nil {
			s.log.Warn("cache write failed", zap.Error(err))
		}
	}
	return chats, nil
}

// Chat fetches a single chat directly from the backend.
func (s *Service) Chat(ctx context.Context, chatID string) (beeper.Chat, error) {
	return s.backend.GetChat(ctx, chatID)
}

// Messages fetches a chat's history through the backend's windowed walk.
func (s *Service) Messages(ctx context.Context, chatID string, limit int, sinceMillis int64) ([]beeper.Message, error) {
	return s.backend.ListMessages(ctx, chatID, limit, sinceMillis)
}

// Send delivers a reply and returns the new message id.
func (s *Service) Send(ctx context.Context, chatID, text, replyToID string) (string, error) {
	return s.backend.SendMessage(ctx, chatID, text, replyToID)
}

// NeedsReply filters chats to the ones whose latest preview came from
// someone else. Muted chats are dropped unless includeMuted is set, and the
// filtered result is capped at max entries.
func NeedsReply(chats []beeper.Chat, includeMuted bool, max int) []beeper.Chat {
	var out []beeper.Chat
	for _, c := range chats {
		if !includeMuted && c.Muted {
			continue
		}
		if c.LastPreviewFromMe {
			continue
		}
		out = append(out, c)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
