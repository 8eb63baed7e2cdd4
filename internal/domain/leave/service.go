package leave

import (
	"context"
	"strings"
	"time"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/employee"
)

type StoreAPI interface {
	Insert(ctx context.Context, tenantID string, r Request) (Request, error)
	HasOverlap(ctx context.Context, tenantID, employeeID string, start, end time.Time) (bool, error)
	Get(ctx context.Context, tenantID, id string) (Request, error)
	List(ctx context.Context, tenantID, actorEmployeeID string, filter Filter) ([]Request, int, error)
	Decide(ctx context.Context, tenantID string, current Request, next Request, decision StageDecision) error
}

// EmployeeLookup resolves the applicant's reporting line.
type EmployeeLookup interface {
	Get(ctx context.Context, tenantID, employeeID string) (employee.Employee, error)
}

type Service struct {
	Store     StoreAPI
	Employees EmployeeLookup
	Now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeLookup) *Service {
	return &Service{Store: store, Employees: employees, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Outcome is a decided request with the applicant it belongs to.
type Outcome struct {
	Before    Request
	After     Request
	Applicant employee.Employee
}

// Completed reports whether the decision closed the request.
func (o Outcome) Completed() bool {
	return o.After.CurrentStage == StageCompleted
}

func (s *Service) Apply(ctx context.Context, user auth.UserContext, in ApplyInput) (Request, employee.Employee, error) {
	if user.EmployeeID == "" {
		return Request{}, employee.Employee{}, ErrNoEmployeeProfile
	}
	if !ValidType(in.LeaveType) {
		return Request{}, employee.Employee{}, ErrInvalidType
	}
	if in.EndDate.Before(in.StartDate) {
		return Request{}, employee.Employee{}, ErrInvalidRange
	}
	emp, err := s.Employees.Get(ctx, user.TenantID, user.EmployeeID)
	if err != nil {
		return Request{}, employee.Employee{}, err
	}
	overlap, err := s.Store.HasOverlap(ctx, user.TenantID, emp.ID, in.StartDate, in.EndDate)
	if err != nil {
		return Request{}, employee.Employee{}, err
	}
	if overlap {
		return Request{}, employee.Employee{}, ErrOverlappingLeave
	}
	r, err := s.Store.Insert(ctx, user.TenantID, Request{
		EmployeeID:   emp.ID,
		LeaveType:    in.LeaveType,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		TotalDays:    TotalDays(in.StartDate, in.EndDate),
		Reason:       strings.TrimSpace(in.Reason),
		Status:       StatusPending,
		CurrentStage: StageTeamLead,
	})
	return r, emp, err
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Request, error) {
	return s.Store.Get(ctx, tenantID, id)
}

// List narrows the requested scope to what the actor may see.
func (s *Service) List(ctx context.Context, user auth.UserContext, filter Filter) ([]Request, int, error) {
	filter.Scope = EffectiveScope(user, filter.Scope)
	return s.Store.List(ctx, user.TenantID, user.EmployeeID, filter)
}

// EffectiveScope caps a requested scope by role: employees see their own
// requests, team leads and managers their team, HR and Admin everything.
func EffectiveScope(user auth.UserContext, requested string) string {
	allowed := ScopeSelf
	switch {
	case user.IsHROrAdmin():
		allowed = ScopeAll
	case user.RoleName == auth.RoleTeamLead || user.RoleName == auth.RoleManager:
		allowed = ScopeTeam
	}
	rank := map[string]int{ScopeSelf: 0, ScopeTeam: 1, ScopeAll: 2}
	r, ok := rank[requested]
	if !ok {
		return allowed
	}
	if r > rank[allowed] {
		return allowed
	}
	if user.EmployeeID == "" && requested != ScopeAll {
		return allowed
	}
	return requested
}

func (s *Service) Approve(ctx context.Context, actor auth.UserContext, id, comment string) (Outcome, error) {
	return s.decide(ctx, actor, id, ActionApprove, strings.TrimSpace(comment))
}

func (s *Service) Reject(ctx context.Context, actor auth.UserContext, id, reason string) (Outcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Outcome{}, ErrRejectionReasonRequired
	}
	return s.decide(ctx, actor, id, ActionReject, reason)
}

func (s *Service) decide(ctx context.Context, actor auth.UserContext, id string, action Action, text string) (Outcome, error) {
	current, err := s.Store.Get(ctx, actor.TenantID, id)
	if err != nil {
		return Outcome{}, err
	}
	nextStage, status, err := Transition(current.CurrentStage, action)
	if err != nil {
		return Outcome{}, err
	}
	applicant, err := s.Employees.Get(ctx, actor.TenantID, current.EmployeeID)
	if err != nil {
		return Outcome{}, err
	}
	rel := Relations{EmployeeID: applicant.ID, TeamLeadID: applicant.TeamLeadID, ManagerID: applicant.ManagerID}
	if err := CanDecide(actor, current.CurrentStage, rel); err != nil {
		return Outcome{}, err
	}

	now := s.now()
	next := current
	next.CurrentStage = nextStage
	next.Status = status
	next.Version = current.Version + 1
	decision := StageDecision{
		Stage:       current.CurrentStage,
		Decision:    StatusApproved,
		ActorUserID: actor.UserID,
		Comment:     text,
		DecidedAt:   now,
	}
	if action == ActionReject {
		decision.Decision = StatusRejected
		next.RejectionReason = text
	}
	if err := s.Store.Decide(ctx, actor.TenantID, current, next, decision); err != nil {
		return Outcome{}, err
	}
	next.Decisions = append(append([]StageDecision(nil), current.Decisions...), decision)
	next.UpdatedAt = now
	return Outcome{Before: current, After: next, Applicant: applicant}, nil
}
