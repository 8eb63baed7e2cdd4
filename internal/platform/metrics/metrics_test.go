package metrics

import (
	"testing"
	"time"
)

func TestSnapshotCountsRequestsAndDomainCounters(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(503, 30*time.Millisecond)
	c.Record(429, 0)
	c.Inc(PayrollGenerated)
	c.Add(PayrollGenerated, 2)

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("unexpected total: %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"].(uint64) != 1 || snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("unexpected error counts: %+v", snap)
	}
	domain := snap["domain"].(map[string]uint64)
	if domain[PayrollGenerated] != 3 {
		t.Fatalf("unexpected domain counter: %v", domain)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Inc(LeaveDecisions)
	c.Record(200, time.Millisecond)
}
