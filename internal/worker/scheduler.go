// Package worker runs periodic background jobs inside the API process.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/nabaa/newsroom/pkg/logger"
	"github.com/rs/zerolog"
)

// Task is a registered periodic job
type Task struct {
	Name      string
	Interval  time.Duration
	Handler   func(ctx context.Context) error
	LastRun   time.Time
	NextRun   time.Time
	RunCount  int64
	LastError error
}

// TaskInfo is the JSON view of a task
type TaskInfo struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	RunCount  int64     `json:"run_count"`
	LastError *string   `json:"last_error,omitempty"`
}

// Scheduler checks registered tasks on every tick and runs the due ones sequentially
type Scheduler struct {
	tasks  []*Task
	mu     sync.RWMutex
	tick   time.Duration
	log    zerolog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler polling every tick (default 30s)
func NewScheduler(tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = 30 * time.Second
	}
	return &Scheduler{
		tasks: make([]*Task, 0),
		tick:  tick,
		log:   logger.WithComponent("scheduler"),
	}
}

// Register adds a periodic task; its first run is one interval from now
func (s *Scheduler) Register(name string, interval time.Duration, handler func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
		NextRun:  time.Now().Add(interval),
	})
	s.log.Info().Str("task", name).Dur("interval", interval).Msg("task registered")
}

// Start runs the scheduler loop until ctx is done or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.runDue(ctx, now)
			}
		}
	}()
	s.log.Info().Dur("tick", s.tick).Msg("scheduler started")
}

// Stop cancels the loop and waits for the running task to return
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	s.mu.RLock()
	tasks := make([]*Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.RUnlock()

	for _, task := range tasks {
		if now.Before(task.NextRun) {
			continue
		}

		err := task.Handler(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("task", task.Name).Msg("scheduled task failed")
		}

		s.mu.Lock()
		task.LastError = err
		task.LastRun = now
		task.NextRun = now.Add(task.Interval)
		task.RunCount++
		s.mu.Unlock()
	}
}

// Tasks returns a snapshot of registered tasks
func (s *Scheduler) Tasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]TaskInfo, 0, len(s.tasks))
	for _, t := range s.tasks {
		info := TaskInfo{
			Name:     t.Name,
			Interval: t.Interval.String(),
			LastRun:  t.LastRun,
			NextRun:  t.NextRun,
			RunCount: t.RunCount,
		}
		if t.LastError != nil {
			msg := t.LastError.Error()
			info.LastError = &msg
		}
		result = append(result, info)
	}
	return result
}
