package attendance

import (
	"context"
	"errors"
	"time"

	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/calendar"
	"peoplehub/internal/domain/shift"
)

type StoreAPI interface {
	ForDay(ctx context.Context, tenantID, employeeID string, day time.Time) (Log, error)
	Insert(ctx context.Context, tenantID string, l Log) (Log, error)
	CloseDay(ctx context.Context, tenantID, id string, l Log) error
	Upsert(ctx context.Context, tenantID string, l Log) (Log, error)
	List(ctx context.Context, tenantID string, filter Filter) ([]Log, int, error)
	MonthLogs(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Log, error)
	ApprovedLeaveDays(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]LeaveDay, error)
}

type Service struct {
	Store    StoreAPI
	Shifts   *shift.Service
	Calendar *calendar.Service
	Now      func() time.Time
}

func NewService(store StoreAPI, shifts *shift.Service, cal *calendar.Service) *Service {
	return &Service{Store: store, Shifts: shifts, Calendar: cal, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// CheckIn opens today's log. The log is Late when the employee is rostered
// and arrives after shift start plus grace.
func (s *Service) CheckIn(ctx context.Context, user auth.UserContext, note string) (Log, error) {
	if user.EmployeeID == "" {
		return Log{}, ErrNoEmployeeProfile
	}
	now := s.now()
	today := dayOf(now)
	if _, err := s.Store.ForDay(ctx, user.TenantID, user.EmployeeID, today); err == nil {
		return Log{}, ErrAlreadyCheckedIn
	} else if !errors.Is(err, ErrAttendanceNotFound) {
		return Log{}, err
	}

	status := StatusPresent
	if s.Shifts != nil {
		sh, ok, err := s.Shifts.ShiftOn(ctx, user.TenantID, user.EmployeeID, today)
		if err != nil {
			return Log{}, err
		}
		if ok && now.After(sh.LateAfter(today)) {
			status = StatusLate
		}
	}
	return s.Store.Insert(ctx, user.TenantID, Log{
		EmployeeID: user.EmployeeID,
		Date:       today,
		Status:     status,
		CheckIn:    &now,
		Note:       note,
	})
}

func (s *Service) CheckOut(ctx context.Context, user auth.UserContext) (Log, error) {
	if user.EmployeeID == "" {
		return Log{}, ErrNoEmployeeProfile
	}
	now := s.now()
	l, err := s.Store.ForDay(ctx, user.TenantID, user.EmployeeID, dayOf(now))
	if errors.Is(err, ErrAttendanceNotFound) {
		return Log{}, ErrNotCheckedIn
	}
	if err != nil {
		return Log{}, err
	}
	if l.CheckIn == nil {
		return Log{}, ErrNotCheckedIn
	}
	if l.CheckOut != nil {
		return Log{}, ErrAlreadyCheckedOut
	}
	closed := closeDay(l, now)
	if err := s.Store.CloseDay(ctx, user.TenantID, l.ID, closed); err != nil {
		return Log{}, err
	}
	return closed, nil
}

func closeDay(l Log, out time.Time) Log {
	l.CheckOut = &out
	l.WorkedHours = WorkedHours(*l.CheckIn, out)
	l.OvertimeHours = OvertimeHours(*l.CheckIn, out, StandardDayHours*time.Hour)
	if l.WorkedHours < halfDayHours && l.Status != StatusAbsent {
		l.Status = StatusHalfDay
	}
	return l
}

// Mark writes or overwrites a day on behalf of an employee.
func (s *Service) Mark(ctx context.Context, tenantID string, in MarkInput) (Log, error) {
	if !validStatus(in.Status) {
		return Log{}, ErrInvalidStatus
	}
	l := Log{EmployeeID: in.EmployeeID, Date: dayOf(in.Date), Status: in.Status, CheckIn: in.CheckIn, CheckOut: in.CheckOut, Note: in.Note}
	if in.CheckIn != nil && in.CheckOut != nil {
		if !in.CheckOut.After(*in.CheckIn) {
			return Log{}, ErrCheckOutBeforeIn
		}
		l.WorkedHours = WorkedHours(*in.CheckIn, *in.CheckOut)
		l.OvertimeHours = OvertimeHours(*in.CheckIn, *in.CheckOut, StandardDayHours*time.Hour)
	}
	return s.Store.Upsert(ctx, tenantID, l)
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter) ([]Log, int, error) {
	return s.Store.List(ctx, tenantID, filter)
}

// MonthSummary loads a month of logs, approved leave and the tenant calendar
// and folds them with Summarize.
func (s *Service) MonthSummary(ctx context.Context, tenantID, employeeID string, year int, month time.Month, sandwich bool) (Summary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, time.UTC)

	logs, err := s.Store.MonthLogs(ctx, tenantID, employeeID, from, to)
	if err != nil {
		return Summary{}, err
	}
	leaves, err := s.Store.ApprovedLeaveDays(ctx, tenantID, employeeID, from, to)
	if err != nil {
		return Summary{}, err
	}
	var cal DayCalendar
	if s.Calendar != nil {
		c, err := s.Calendar.ForRange(ctx, tenantID, from, to)
		if err != nil {
			return Summary{}, err
		}
		cal = c
	}
	return Summarize(SummaryInput{
		Year:         year,
		Month:        month,
		Logs:         logs,
		Leaves:       leaves,
		Calendar:     cal,
		SandwichRule: sandwich,
	}), nil
}

func validStatus(status string) bool {
	for _, st := range Statuses {
		if st == status {
			return true
		}
	}
	return false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
