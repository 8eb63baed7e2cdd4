package employee

import (
	"strings"
	"time"
)

// FullName is derived at write time from the name parts.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

var transitions = map[string][]string{
	StatusIntern:               {StatusProbation, StatusConfirmed, StatusRelieved, StatusTerminated},
	StatusProbation:            {StatusConfirmed, StatusResignationSubmitted, StatusTerminated},
	StatusConfirmed:            {StatusResignationSubmitted, StatusTerminated},
	StatusResignationSubmitted: {StatusNoticePeriod, StatusTerminated},
	StatusNoticePeriod:         {StatusExitProcess, StatusTerminated},
	StatusExitProcess:          {StatusRelieved, StatusTerminated},
}

// CanTransition reports whether an employee may move from one lifecycle
// status to another. previous is the status held before a resignation was
// submitted; a withdrawn or rejected resignation may return to it.
func CanTransition(from, to, previous string) bool {
	if from == to {
		return false
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return from == StatusResignationSubmitted && previous != "" && to == previous
}

func IsTerminal(status string) bool {
	return status == StatusRelieved || status == StatusTerminated
}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Approve sets one resignation flag and reports whether both are now set.
func (r *Resignation) Approve(as, actorUserID string, at time.Time) bool {
	switch as {
	case ApproverTeamLead:
		r.TeamLeadApproved = true
		r.TeamLeadApprovedBy = actorUserID
		r.TeamLeadApprovedAt = &at
	case ApproverManager:
		r.ManagerApproved = true
		r.ManagerApprovedBy = actorUserID
		r.ManagerApprovedAt = &at
	}
	return r.TeamLeadApproved && r.ManagerApproved
}

func (r *Resignation) Reject(actorUserID, reason string, at time.Time) {
	r.RejectedBy = actorUserID
	r.RejectedAt = &at
	r.RejectionReason = reason
}

// Pending reports whether the resignation still awaits a decision.
func (r *Resignation) Pending() bool {
	return r != nil && r.RejectedAt == nil && !(r.TeamLeadApproved && r.ManagerApproved)
}
