package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Warmer refreshes the feed id caches. Satisfied by service.FeedService.
type Warmer interface {
	WarmCache(ctx context.Context) error
}

type Scheduler struct {
	cron     *cron.Cron
	warmer   Warmer
	interval string
	log      zerolog.Logger
}

func NewScheduler(warmer Warmer, interval string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		warmer:   warmer,
		interval: interval,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.warmer == nil || s.interval == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.interval, s.warmFeeds); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) warmFeeds() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.warmer.WarmCache(ctx); err != nil {
		s.log.Error().Err(err).Msg("feed cache warm failed")
	}
}
