// Package scheduler wires up the cron job that periodically runs the full
// catalog crawl and refreshes the directory afterwards.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"app/internal/service"
)

// Scheduler wraps robfig/cron and manages the crawl loop.
type Scheduler struct {
	cron      *cron.Cron
	scraper   service.ScraperService
	directory service.DirectoryService
	spec      string // cron spec, e.g. "@every 24h"
	log       zerolog.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(
	scraper service.ScraperService,
	directory service.DirectoryService,
	intervalHours int,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		scraper:   scraper,
		directory: directory,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
		log:       logger.With().Str("component", "Scheduler").Logger(),
	}
}

// Start registers the job and starts the scheduler. Also runs one crawl
// immediately so the catalog is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCrawl(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("Cron started")

	go s.runCrawl(ctx)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("Cron stopped")
}

func (s *Scheduler) runCrawl(ctx context.Context) {
	s.log.Info().Msg("Crawl cycle started")

	if err := s.scraper.RunFullCrawl(ctx); err != nil {
		s.log.Error().Err(err).Msg("Full crawl failed")
		return
	}
	if err := s.directory.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("Directory refresh failed")
	}

	s.log.Info().Msg("Crawl cycle complete")
}
