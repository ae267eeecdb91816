package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"FundDashboard/internal/collector"

	"github.com/robfig/cron/v3"
)

// Scheduler keeps the default sheet warm in the fetch cache.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	DefaultURL string
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, defaultURL string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		DefaultURL: defaultURL,
		Ctx:        ctx,
	}
}

// Register adds the refresh job. An empty expression registers nothing.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		log.Println("[INFO] refresh_cron empty, scheduled refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh immediately (RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	start := time.Now()
	tbl, err := s.Collector.Refresh(s.Ctx, s.DefaultURL)
	if err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
		return
	}
	log.Printf("[INFO] refreshed %d rows x %d series in %s", tbl.Len(), len(tbl.Columns), time.Since(start).Round(time.Millisecond))
}
