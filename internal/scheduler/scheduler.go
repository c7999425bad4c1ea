package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/planpal/planpal/config"
	"github.com/planpal/planpal/internal/service"
	"github.com/planpal/planpal/internal/storage"
)

type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler sends the daily morning agenda to every registered chat.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	storage  *storage.Storage
	sessions *service.SessionService
	sender   MessageSender
}

func New(cfg *config.Config, store *storage.Storage, sessions *service.SessionService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		storage:  store,
		sessions: sessions,
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.BriefingTime == "" {
		log.Println("Morning briefing disabled (no BRIEFING_TIME)")
		<-ctx.Done()
		return nil
	}

	at, err := time.Parse("15:04", s.cfg.BriefingTime)
	if err != nil {
		return fmt.Errorf("parse briefing time: %w", err)
	}

	spec := fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	if _, err := s.cron.AddFunc(spec, s.morningBriefing); err != nil {
		return fmt.Errorf("add morning briefing: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, briefing: %s)", s.cfg.Timezone, s.cfg.BriefingTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) morningBriefing() {
	if s.sender == nil {
		return
	}

	users, err := s.storage.ListUsers()
	if err != nil {
		log.Printf("Error listing users for briefing: %v", err)
		return
	}

	for _, u := range users {
		s.sendBriefingTo(u.TelegramID)
	}
}

func (s *Scheduler) sendBriefingTo(chatID int64) {
	if !s.sessions.Connected(chatID) {
		return // no calendar linked, nothing to brief
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	agenda, err := s.sessions.Agenda(ctx, chatID, time.Now().In(s.cfg.Timezone))
	if err != nil {
		log.Printf("Error getting agenda for chat %d: %v", chatID, err)
		return
	}

	text := "☀️ <b>Goedemorgen!</b>\n\n" + agenda
	if err := s.sender.SendMessage(chatID, text); err != nil {
		log.Printf("Error sending briefing to %d: %v", chatID, err)
	}
}
