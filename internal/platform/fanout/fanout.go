// Package fanout runs best-effort side effects such as notifications and
// emails. Failures are logged and counted, never returned, never retried.
package fanout

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Report struct {
	Attempted int      `json:"attempted"`
	Failed    int      `json:"failed"`
	Failures  []string `json:"failures,omitempty"`
}

type FailureCounter interface {
	Inc(name string)
}

type Tasks struct {
	list       []Task
	concurrent bool
	limit      int
	counter    FailureCounter
	counterKey string
}

func New(concurrent bool) *Tasks {
	return &Tasks{concurrent: concurrent, limit: 8}
}

// CountFailures reports each failed task under key.
func (t *Tasks) CountFailures(counter FailureCounter, key string) *Tasks {
	t.counter = counter
	t.counterKey = key
	return t
}

func (t *Tasks) Add(name string, run func(ctx context.Context) error) *Tasks {
	if run != nil {
		t.list = append(t.list, Task{Name: name, Run: run})
	}
	return t
}

func (t *Tasks) Len() int {
	return len(t.list)
}

func (t *Tasks) Run(ctx context.Context) Report {
	report := Report{Attempted: len(t.list)}
	if len(t.list) == 0 {
		return report
	}

	var mu sync.Mutex
	fail := func(task Task, err error) {
		slog.Warn("best-effort task failed", "task", task.Name, "err", err)
		if t.counter != nil {
			t.counter.Inc(t.counterKey)
		}
		mu.Lock()
		report.Failed++
		report.Failures = append(report.Failures, task.Name)
		mu.Unlock()
	}

	if !t.concurrent {
		for _, task := range t.list {
			if err := task.Run(ctx); err != nil {
				fail(task, err)
			}
		}
		return report
	}

	var g errgroup.Group
	g.SetLimit(t.limit)
	for _, task := range t.list {
		task := task
		g.Go(func() error {
			if err := task.Run(ctx); err != nil {
				fail(task, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}
