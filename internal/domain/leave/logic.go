package leave

import (
	"time"

	"peoplehub/internal/domain/auth"
)

// Transition returns the next stage and status for an action. It is the only
// place stage changes are decided.
func Transition(stage Stage, action Action) (Stage, string, error) {
	switch stage {
	case StageTeamLead:
		if action == ActionApprove {
			return StageManager, StatusPending, nil
		}
		return StageCompleted, StatusRejected, nil
	case StageManager, StageHR:
		if action == ActionApprove {
			return StageCompleted, StatusApproved, nil
		}
		return StageCompleted, StatusRejected, nil
	case StageCompleted:
		return StageCompleted, "", ErrAlreadyCompleted
	}
	return stage, "", ErrUnknownStage
}

// TotalDays is the inclusive calendar-day count of a leave range.
func TotalDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// Relations identifies the applicant's reporting line.
type Relations struct {
	EmployeeID string
	TeamLeadID string
	ManagerID  string
}

// CanDecide reports whether actor may approve or reject at stage. The team
// lead stage accepts the applicant's team lead or any Manager, HR or Admin;
// the manager stage accepts the applicant's manager or HR and Admin; the HR
// stage accepts HR and Admin only.
func CanDecide(actor auth.UserContext, stage Stage, rel Relations) error {
	if actor.EmployeeID != "" && actor.EmployeeID == rel.EmployeeID {
		return ErrOwnLeave
	}
	ok := false
	switch stage {
	case StageTeamLead:
		ok = (actor.EmployeeID != "" && actor.EmployeeID == rel.TeamLeadID) ||
			actor.RoleName == auth.RoleManager || actor.IsHROrAdmin()
	case StageManager:
		ok = (actor.EmployeeID != "" && actor.EmployeeID == rel.ManagerID) || actor.IsHROrAdmin()
	case StageHR:
		ok = actor.IsHROrAdmin()
	case StageCompleted:
		return ErrAlreadyCompleted
	}
	if !ok {
		return ErrNotStageApprover
	}
	return nil
}

func ValidType(t string) bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}
