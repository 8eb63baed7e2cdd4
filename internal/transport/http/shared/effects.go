package shared

import (
	"context"
	"log/slog"
	"net/http"

	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/platform/fanout"
	"peoplehub/internal/platform/metrics"
)

// Notifier builds the best-effort notification list for a request.
type Notifier struct {
	Service    *notifications.Service
	Metrics    *metrics.Collector
	Concurrent bool
}

func (n *Notifier) Tasks() *fanout.Tasks {
	tasks := fanout.New(n != nil && n.Concurrent)
	if n != nil && n.Metrics != nil {
		tasks.CountFailures(n.Metrics, metrics.NotificationsFailed)
	}
	return tasks
}

// Add queues one in-app notification. Empty recipients are skipped.
func (n *Notifier) Add(tasks *fanout.Tasks, tenantID, userID, ntype, title, body string) {
	if n == nil || n.Service == nil || userID == "" {
		return
	}
	tasks.Add(ntype+":"+userID, func(ctx context.Context) error {
		return n.Service.Create(ctx, tenantID, userID, ntype, title, body)
	})
}

// AddEmail queues a direct email to a user.
func (n *Notifier) AddEmail(tasks *fanout.Tasks, tenantID, userID, subject, body string) {
	if n == nil || n.Service == nil || userID == "" {
		return
	}
	tasks.Add("email:"+userID, func(ctx context.Context) error {
		return n.Service.Email(ctx, tenantID, userID, subject, body)
	})
}

// AddRoles queues one notification per active user holding any of roles,
// skipping the excluded user. A lookup failure is logged and drops the batch.
func (n *Notifier) AddRoles(ctx context.Context, tasks *fanout.Tasks, tenantID, excludeUserID, ntype, title, body string, roles ...string) {
	if n == nil || n.Service == nil {
		return
	}
	ids, err := n.Service.UserIDsByRoles(ctx, tenantID, roles...)
	if err != nil {
		slog.Warn("notification recipients lookup failed", "type", ntype, "err", err)
		return
	}
	for _, id := range ids {
		if id != excludeUserID {
			n.Add(tasks, tenantID, id, ntype, title, body)
		}
	}
}

// Run executes queued notifications on a context detached from the request
// so a client disconnect does not cancel them.
func (n *Notifier) Run(r *http.Request, tasks *fanout.Tasks) fanout.Report {
	return tasks.Run(context.WithoutCancel(r.Context()))
}

// Audit records a mutation; a failed write is logged and ignored.
func Audit(r *http.Request, svc *audit.Service, user auth.UserContext, requestID, action, entityType, entityID string, before, after any) {
	if svc == nil {
		return
	}
	if err := svc.Record(r.Context(), user.TenantID, user.UserID, action, entityType, entityID, requestID, ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
