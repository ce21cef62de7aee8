package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"playhouse/internal/config"
	"playhouse/internal/database"
	"playhouse/internal/logger"
	"playhouse/internal/modules/contact"
	"playhouse/internal/modules/feedback"
)

type demoReview struct {
	name, relationship, rating, comment string
	consent, approve                    bool
}

var demoReviews = []demoReview{
	{"Jessica M.", "Parent", "5", "Our daughter runs in every morning. The daily photos and notes mean a lot.", true, true},
	{"Tom R.", "Guardian", "4", "Warm, patient, and always flexible with pickup.", true, true},
	{"Priya S.", "Parent", "5", "Small group, real attention. Highly recommend.", true, false},
	{"", "Relative", "3", "Good care, parking can be tight.", false, true},
}

var demoMessages = []contact.FormInput{
	{Name: "Alicia Gomez", Email: "alicia@example.com", Phone: "516-555-0142", Message: "Could we tour next Tuesday around 5:30? Our son is 2."},
	{Name: "Mark Chen", Email: "mark@example.com", Message: "Do you have openings for an infant starting in March?"},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	store := feedback.NewCSVStore(cfg.Path(cfg.FeedbackFile))
	if err := store.Save(ctx, nil); err != nil {
		log.Fatal("reset feedback file failed", zap.Error(err))
	}

	// space the demo entries out so the newest-first order is visible
	start := time.Now().Add(-time.Duration(len(demoReviews)) * 24 * time.Hour)
	i := 0
	svc := feedback.NewService(store, nil, log, feedback.WithClock(func() time.Time {
		return start.Add(time.Duration(i) * 24 * time.Hour)
	}))
	mod := feedback.NewModerator("seed")

	for n, r := range demoReviews {
		i = n
		in := feedback.SubmitInput{Name: r.name, Relationship: &r.relationship, RatingRaw: r.rating, Comment: r.comment}
		if r.consent {
			in.CanPublishRaw = "on"
		}
		rec, err := svc.Submit(ctx, in)
		if err != nil {
			log.Fatal("seed feedback failed", zap.Error(err))
		}
		if r.approve {
			if _, _, err := svc.Moderate(ctx, mod, rec.ID, feedback.ActionApprove); err != nil {
				log.Fatal("approve feedback failed", zap.Error(err))
			}
		}
	}

	db, err := database.Connect(cfg.ContactDSN(), log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := contact.Migrate(db); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}
	if err := db.Exec("DELETE FROM contact_messages").Error; err != nil {
		log.Fatal("clean contact_messages failed", zap.Error(err))
	}

	contacts := contact.NewService(contact.NewRepository(db), nil, log)
	for _, m := range demoMessages {
		if _, _, err := contacts.Submit(ctx, m); err != nil {
			log.Fatal("seed contact failed", zap.Error(err))
		}
	}

	log.Info("seed completed",
		zap.Int("feedback", len(demoReviews)),
		zap.Int("contact_messages", len(demoMessages)),
		zap.String("feedback_file", store.Path()),
	)
}
