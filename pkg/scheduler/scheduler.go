package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/neonvegas/internal/logging"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
	// Deferred tasks wait one interval before their first run
	Deferred bool
}

// Scheduler runs tasks on fixed intervals until stopped
type Scheduler struct {
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *logging.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default
	}
	return &Scheduler{
		tasks: make([]*Task, 0),
		log:   logger,
	}
}

// AddTask adds a task that runs immediately on start and then every interval
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.add(&Task{Name: name, Interval: interval, Fn: fn})
}

// AddDeferredTask adds a task whose first run is one interval after start
func (s *Scheduler) AddDeferredTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.add(&Task{Name: name, Interval: interval, Fn: fn, Deferred: true})
}

func (s *Scheduler) add(task *Task) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, task)
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(ctx, task)
	}

	s.log.Info("[SCHEDULER] Started with %d tasks", len(s.tasks))
}

// Stop stops the scheduler and waits for running tasks to return
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mutex.Unlock()

	s.wg.Wait()
	s.log.Info("[SCHEDULER] Stopped")
}

// runTask runs a task at the specified interval
func (s *Scheduler) runTask(ctx context.Context, task *Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	if !task.Deferred {
		s.log.Debug("[SCHEDULER] Running task %s immediately on startup", task.Name)
		s.run(ctx, task)
	}

	for {
		select {
		case <-ticker.C:
			s.log.Debug("[SCHEDULER] Running scheduled task: %s", task.Name)
			s.run(ctx, task)
		case <-ctx.Done():
			s.log.Debug("[SCHEDULER] Task %s stopped", task.Name)
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, task *Task) {
	if err := task.Fn(ctx); err != nil {
		s.log.Error("[SCHEDULER] Error running task %s: %v", task.Name, err)
	}
}
