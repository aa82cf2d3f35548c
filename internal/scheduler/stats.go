package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mirrortrade/backend/internal/stats"
)

// StatsRunner is the aggregation batch the scheduler drives.
type StatsRunner interface {
	Run(ctx context.Context) ([]stats.Result, error)
}

type StatsSchedulerConfig struct {
	Interval time.Duration // e.g. 1*time.Hour
	OnBatch  func(results []stats.Result)
}

type StatsScheduler struct {
	runner StatsRunner
	cfg    StatsSchedulerConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

func NewStatsScheduler(runner StatsRunner, cfg StatsSchedulerConfig) *StatsScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 1 * time.Hour
	}
	return &StatsScheduler{
		runner: runner,
		cfg:    cfg,
	}
}

func (s *StatsScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		fmt.Println("[STATS-SCHEDULER] Already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Initial batch on startup (fire-and-forget)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		if err := s.runBatch(ctx); err != nil {
			fmt.Printf("[STATS-SCHEDULER] Initial stats batch failed: %v\n", err)
		}
	}()

	// Recurring ticker
	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
				if err := s.runBatch(ctx); err != nil {
					fmt.Printf("[STATS-SCHEDULER] Stats batch failed: %v\n", err)
				}
				cancel()
			}
		}
	}()

	fmt.Printf("[STATS-SCHEDULER] Started (every %s)\n", s.cfg.Interval)
}

func (s *StatsScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	fmt.Println("[STATS-SCHEDULER] Stopped")
}

func (s *StatsScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow manually triggers a stats batch outside the normal schedule.
func (s *StatsScheduler) RunNow(ctx context.Context) error {
	fmt.Println("[STATS-SCHEDULER] Manual stats batch triggered")
	return s.runBatch(ctx)
}

func (s *StatsScheduler) runBatch(ctx context.Context) error {
	results, err := s.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run stats batch: %w", err)
	}

	updated, failed := 0, 0
	for _, r := range results {
		if r.StatsUpdated {
			updated++
		} else {
			failed++
		}
	}
	fmt.Printf("[STATS-SCHEDULER] Batch complete: %d updated, %d failed\n", updated, failed)

	if s.cfg.OnBatch != nil {
		s.cfg.OnBatch(results)
	}
	return nil
}
