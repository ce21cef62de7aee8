package feedback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"playhouse/internal/modules/events"
)

type Service struct {
	store    Store
	ids      *IDGenerator
	now      func() time.Time
	notifier events.Notifier
	log      *zap.Logger
}

type Option func(*Service)

// WithClock replaces time.Now for record timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.ids = NewIDGenerator(now)
	}
}

func NewService(store Store, notifier events.Notifier, log *zap.Logger, opts ...Option) *Service {
	if notifier == nil {
		notifier = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:    store,
		ids:      NewIDGenerator(time.Now),
		now:      time.Now,
		notifier: notifier,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap primes the id generator with the ids already on disk.
func (s *Service) Bootstrap(ctx context.Context) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load feedback: %w", err)
	}
	for _, r := range records {
		s.ids.Observe(r.ID)
	}
	s.log.Info("feedback store ready", zap.Int("records", len(records)))
	return nil
}

// Submit records new public feedback as pending. The record is returned even
// when the append fails so callers can still acknowledge the submitter.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Record, error) {
	rec := newRecord(s.ids.Next(), s.now(), in)

	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Error("feedback append failed", zap.String("id", rec.ID), zap.Error(err))
		return rec, fmt.Errorf("%w: %v", ErrStore, err)
	}

	s.log.Info("feedback submitted",
		zap.String("id", rec.ID),
		zap.Int("rating", rec.Rating),
		zap.Bool("can_publish", rec.CanPublish),
	)
	s.publish(events.TypeFeedbackSubmitted, rec)
	return rec, nil
}

// Moderate applies action to the record with id and returns the public
// testimonials afterwards. Unknown ids and actions change nothing. The store
// is only rewritten when something changed.
func (s *Service) Moderate(ctx context.Context, mod Moderator, id string, action Action) ([]Testimonial, bool, error) {
	if !mod.valid() {
		return nil, false, ErrForbidden
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStore, err)
	}

	updated, changed := ApplyAction(records, id, action)
	if changed {
		if err := s.store.Save(ctx, updated); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrStore, err)
		}
		s.log.Info("feedback moderated",
			zap.String("moderator", mod.Subject()),
			zap.String("id", id),
			zap.String("action", string(action)),
		)
		s.publish(events.TypeFeedbackModerated, map[string]string{"id": id, "action": string(action)})
	} else {
		s.log.Debug("moderation no-op", zap.String("id", id), zap.String("action", string(action)))
	}

	return VisibleTestimonials(updated), changed, nil
}

// Testimonials is recomputed from the store on every call.
func (s *Service) Testimonials(ctx context.Context) ([]Testimonial, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return VisibleTestimonials(records), nil
}

// All returns every record, newest first, for the moderation view.
func (s *Service) All(ctx context.Context) ([]Record, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (s *Service) publish(eventType string, data any) {
	ev := events.New(eventType, data)
	go func() {
		if err := s.notifier.Publish(context.Background(), ev); err != nil {
			s.log.Warn("event publish failed", zap.String("type", eventType), zap.Error(err))
		}
	}()
}
