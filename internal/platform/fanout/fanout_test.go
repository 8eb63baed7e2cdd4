package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countingCounter struct {
	n atomic.Int64
}

func (c *countingCounter) Inc(string) { c.n.Add(1) }

func TestRunSequentialKeepsOrderAndSwallowsErrors(t *testing.T) {
	var order []string
	tasks := New(false).
		Add("first", func(context.Context) error { order = append(order, "first"); return errors.New("smtp down") }).
		Add("second", func(context.Context) error { order = append(order, "second"); return nil })

	report := tasks.Run(context.Background())
	if report.Attempted != 2 || report.Failed != 1 || report.Failures[0] != "first" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected sequential order, got %v", order)
	}
}

func TestRunConcurrentRunsEveryTask(t *testing.T) {
	var ran atomic.Int64
	counter := &countingCounter{}
	tasks := New(true).CountFailures(counter, "notifications_failed")
	for i := 0; i < 20; i++ {
		fail := i%5 == 0
		tasks.Add("notify", func(context.Context) error {
			ran.Add(1)
			if fail {
				return errors.New("boom")
			}
			return nil
		})
	}
	report := tasks.Run(context.Background())
	if ran.Load() != 20 {
		t.Fatalf("expected 20 runs, got %d", ran.Load())
	}
	if report.Failed != 4 || counter.n.Load() != 4 {
		t.Fatalf("unexpected failures: report=%+v counter=%d", report, counter.n.Load())
	}
}

func TestAddIgnoresNilTask(t *testing.T) {
	if New(false).Add("nil", nil).Len() != 0 {
		t.Fatal("expected nil task to be skipped")
	}
}
