package leave

// Stage is the approval step a leave request is waiting on.
type Stage string

const (
	StageTeamLead  Stage = "TeamLead"
	StageManager   Stage = "Manager"
	StageHR        Stage = "HR"
	StageCompleted Stage = "Completed"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	TypeCasual       = "Casual"
	TypeSick         = "Sick"
	TypeEarned       = "Earned"
	TypeMaternity    = "Maternity"
	TypePaternity    = "Paternity"
	TypeCompensatory = "Compensatory"
	TypeLOP          = "LOP"
)

var Types = []string{TypeCasual, TypeSick, TypeEarned, TypeMaternity, TypePaternity, TypeCompensatory, TypeLOP}

const (
	ScopeSelf = "self"
	ScopeTeam = "team"
	ScopeAll  = "all"
)
