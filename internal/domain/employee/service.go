package employee

import (
	"context"
	"strings"
	"time"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/platform/querier"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	return s.Store.Get(ctx, tenantID, employeeID)
}

func (s *Service) GetByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	return s.Store.GetByUserID(ctx, tenantID, userID)
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter) ([]Employee, int, error) {
	return s.Store.List(ctx, tenantID, filter)
}

func (s *Service) History(ctx context.Context, tenantID, employeeID string) ([]StatusChange, error) {
	if _, err := s.Store.Get(ctx, tenantID, employeeID); err != nil {
		return nil, err
	}
	return s.Store.History(ctx, tenantID, employeeID)
}

func (s *Service) Create(ctx context.Context, tenantID, actorID string, in CreateInput) (Employee, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Status == "" {
		in.Status = StatusProbation
	}
	if !ValidStatus(in.Status) || IsTerminal(in.Status) || in.Status == StatusResignationSubmitted {
		return Employee{}, ErrInvalidTransition
	}
	if err := s.checkRelations(ctx, tenantID, "", in.TeamLeadID, in.ManagerID); err != nil {
		return Employee{}, err
	}
	var hash string
	if in.Password != "" {
		if in.Role == "" {
			in.Role = auth.RoleEmployee
		}
		var err error
		if hash, err = auth.HashPassword(in.Password); err != nil {
			return Employee{}, err
		}
	}
	return s.Store.Create(ctx, tenantID, actorID, in, FullName(in.FirstName, in.LastName), hash)
}

// Update applies the non-nil fields and returns the record before and after.
func (s *Service) Update(ctx context.Context, tenantID, employeeID string, in UpdateInput) (Employee, Employee, error) {
	before, err := s.Store.Get(ctx, tenantID, employeeID)
	if err != nil {
		return Employee{}, Employee{}, err
	}
	after := before
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&after.FirstName, in.FirstName)
	set(&after.LastName, in.LastName)
	set(&after.Phone, in.Phone)
	set(&after.Department, in.Department)
	set(&after.Designation, in.Designation)
	set(&after.TeamLeadID, in.TeamLeadID)
	set(&after.ManagerID, in.ManagerID)
	if in.BasicSalary != nil {
		after.BasicSalary = *in.BasicSalary
	}
	if in.Allowances != nil {
		after.Allowances = *in.Allowances
	}
	after.FullName = FullName(after.FirstName, after.LastName)

	if err := s.checkRelations(ctx, tenantID, employeeID, after.TeamLeadID, after.ManagerID); err != nil {
		return Employee{}, Employee{}, err
	}
	if err := s.Store.Update(ctx, tenantID, employeeID, after); err != nil {
		return Employee{}, Employee{}, err
	}
	return before, after, nil
}

func (s *Service) checkRelations(ctx context.Context, tenantID, employeeID, teamLeadID, managerID string) error {
	if employeeID != "" && (teamLeadID == employeeID || managerID == employeeID) {
		return ErrSelfReference
	}
	if teamLeadID != "" {
		ok, err := s.Store.Exists(ctx, tenantID, teamLeadID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownTeamLead
		}
	}
	if managerID != "" {
		ok, err := s.Store.Exists(ctx, tenantID, managerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownManager
		}
	}
	return nil
}

// ChangeStatus moves an employee along the lifecycle and appends history.
// Terminal statuses also deactivate the employee and stamp the exit date.
func (s *Service) ChangeStatus(ctx context.Context, tenantID, actorID, employeeID, to, note string) (Employee, Employee, error) {
	before, err := s.Store.Get(ctx, tenantID, employeeID)
	if err != nil {
		return Employee{}, Employee{}, err
	}
	if !before.IsActive {
		return Employee{}, Employee{}, ErrInactiveEmployee
	}
	previous := ""
	if before.Resignation != nil {
		previous = before.Resignation.PreviousStatus
	}
	if !CanTransition(before.Status, to, previous) {
		return Employee{}, Employee{}, ErrInvalidTransition
	}
	after := s.applyStatus(before, to)
	err = s.Store.InTx(ctx, func(q querier.Querier) error {
		return s.Store.SetStatus(ctx, q, tenantID, employeeID, before.Status, to, actorID, note, after)
	})
	if err != nil {
		return Employee{}, Employee{}, err
	}
	return before, after, nil
}

func (s *Service) applyStatus(emp Employee, to string) Employee {
	emp.Status = to
	if IsTerminal(to) {
		emp.IsActive = false
		if emp.ExitDate == nil {
			today := truncateDay(s.now())
			emp.ExitDate = &today
		}
	}
	return emp
}

// Deactivate is the soft delete: the row stays, the employee becomes
// inactive and a non-terminal status becomes Terminated.
func (s *Service) Deactivate(ctx context.Context, tenantID, actorID, employeeID string) (Employee, error) {
	emp, err := s.Store.Get(ctx, tenantID, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if !emp.IsActive {
		return emp, nil
	}
	after := s.applyStatus(emp, StatusTerminated)
	if IsTerminal(emp.Status) {
		after.Status = emp.Status
	}
	err = s.Store.InTx(ctx, func(q querier.Querier) error {
		return s.Store.SetStatus(ctx, q, tenantID, employeeID, emp.Status, after.Status, actorID, "deactivated", after)
	})
	if err != nil {
		return Employee{}, err
	}
	return after, nil
}

func (s *Service) SubmitResignation(ctx context.Context, user auth.UserContext, reason string, lastWorkingDay *time.Time) (Employee, error) {
	if user.EmployeeID == "" {
		return Employee{}, ErrNoLinkedEmployee
	}
	emp, err := s.Store.Get(ctx, user.TenantID, user.EmployeeID)
	if err != nil {
		return Employee{}, err
	}
	if emp.Resignation.Pending() {
		return Employee{}, ErrResignationExists
	}
	if !CanTransition(emp.Status, StatusResignationSubmitted, "") {
		return Employee{}, ErrInvalidTransition
	}
	res := &Resignation{
		Reason:         strings.TrimSpace(reason),
		SubmittedAt:    s.now(),
		LastWorkingDay: lastWorkingDay,
		PreviousStatus: emp.Status,
	}
	after := s.applyStatus(emp, StatusResignationSubmitted)
	after.Resignation = res
	err = s.Store.InTx(ctx, func(q querier.Querier) error {
		if err := s.Store.SaveResignation(ctx, q, user.TenantID, emp.ID, res); err != nil {
			return err
		}
		return s.Store.SetStatus(ctx, q, user.TenantID, emp.ID, emp.Status, StatusResignationSubmitted, user.UserID, "resignation submitted", after)
	})
	if err != nil {
		return Employee{}, err
	}
	return after, nil
}

// ResolveApprover picks the approval flag the actor may set. An explicit as
// must match the actor's relation to the employee unless the actor is HR or
// Admin, who may act as either.
func ResolveApprover(actor auth.UserContext, emp Employee, as string) (string, error) {
	isTL := actor.EmployeeID != "" && actor.EmployeeID == emp.TeamLeadID
	isManager := actor.EmployeeID != "" && actor.EmployeeID == emp.ManagerID
	if actor.EmployeeID != "" && actor.EmployeeID == emp.ID {
		return "", ErrNotResignationActor
	}
	switch as {
	case ApproverTeamLead:
		if isTL || actor.IsHROrAdmin() {
			return as, nil
		}
	case ApproverManager:
		if isManager || actor.IsHROrAdmin() {
			return as, nil
		}
	case "":
		if isTL && !emp.Resignation.TeamLeadApproved {
			return ApproverTeamLead, nil
		}
		if isManager {
			return ApproverManager, nil
		}
		if isTL {
			return ApproverTeamLead, nil
		}
	}
	return "", ErrNotResignationActor
}

func (s *Service) ApproveResignation(ctx context.Context, actor auth.UserContext, employeeID, as string) (Employee, error) {
	emp, err := s.Store.Get(ctx, actor.TenantID, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if !emp.Resignation.Pending() || emp.Status != StatusResignationSubmitted {
		return Employee{}, ErrNoResignation
	}
	role, err := ResolveApprover(actor, emp, as)
	if err != nil {
		return Employee{}, err
	}
	res := *emp.Resignation
	complete := res.Approve(role, actor.UserID, s.now())
	after := emp
	after.Resignation = &res
	err = s.Store.InTx(ctx, func(q querier.Querier) error {
		if err := s.Store.SaveResignation(ctx, q, actor.TenantID, emp.ID, &res); err != nil {
			return err
		}
		if !complete {
			return nil
		}
		after = s.applyStatus(after, StatusNoticePeriod)
		return s.Store.SetStatus(ctx, q, actor.TenantID, emp.ID, emp.Status, StatusNoticePeriod, actor.UserID, "resignation approved", after)
	})
	if err != nil {
		return Employee{}, err
	}
	return after, nil
}

func (s *Service) RejectResignation(ctx context.Context, actor auth.UserContext, employeeID, reason string) (Employee, error) {
	if strings.TrimSpace(reason) == "" {
		return Employee{}, ErrRejectionReasonRequired
	}
	emp, err := s.Store.Get(ctx, actor.TenantID, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if !emp.Resignation.Pending() || emp.Status != StatusResignationSubmitted {
		return Employee{}, ErrNoResignation
	}
	if _, err := ResolveApprover(actor, emp, ""); err != nil && !actor.IsHROrAdmin() {
		return Employee{}, err
	}
	res := *emp.Resignation
	res.Reject(actor.UserID, strings.TrimSpace(reason), s.now())
	previous := res.PreviousStatus
	if previous == "" {
		previous = StatusConfirmed
	}
	after := s.applyStatus(emp, previous)
	after.Resignation = &res
	err = s.Store.InTx(ctx, func(q querier.Querier) error {
		if err := s.Store.SaveResignation(ctx, q, actor.TenantID, emp.ID, &res); err != nil {
			return err
		}
		return s.Store.SetStatus(ctx, q, actor.TenantID, emp.ID, emp.Status, previous, actor.UserID, "resignation rejected", after)
	})
	if err != nil {
		return Employee{}, err
	}
	return after, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
