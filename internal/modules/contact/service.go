package contact

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"playhouse/internal/modules/events"
	"playhouse/internal/pkg/utils"
)

type Service struct {
	repo     Repository
	notifier events.Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewService(repo Repository, notifier events.Notifier, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, notifier: notifier, now: time.Now, log: log}
}

// Submit stores a contact message. It reports stored=false without error
// when the honeypot was filled in.
func (s *Service) Submit(ctx context.Context, in FormInput) (msg *Message, stored bool, err error) {
	if in.Website != "" {
		s.log.Info("contact honeypot triggered")
		return nil, false, nil
	}

	msg = &Message{
		CreatedAt: s.now().Truncate(time.Second),
		Name:      utils.Clean(in.Name, maxNameLen),
		Email:     utils.Clean(in.Email, maxEmailLen),
		Phone:     utils.Clean(in.Phone, maxPhoneLen),
		Message:   utils.Clean(in.Message, maxMessageLen),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		s.log.Error("contact store failed", zap.Error(err))
		return msg, false, fmt.Errorf("%w: %v", ErrStore, err)
	}

	s.log.Info("contact message stored", zap.Int64("id", msg.ID))
	ev := events.New(events.TypeContactReceived, msg)
	go func() {
		if err := s.notifier.Publish(context.Background(), ev); err != nil {
			s.log.Warn("event publish failed", zap.String("type", ev.Type), zap.Error(err))
		}
	}()
	return msg, true, nil
}

func (s *Service) List(ctx context.Context) ([]Message, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil
}

// Prune deletes messages older than retention.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return n, nil
}
