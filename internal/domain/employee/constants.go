package employee

const (
	StatusIntern               = "Intern"
	StatusProbation            = "Probation"
	StatusConfirmed            = "Confirmed"
	StatusResignationSubmitted = "Resignation Submitted"
	StatusNoticePeriod         = "Notice Period"
	StatusExitProcess          = "Exit Process"
	StatusRelieved             = "Relieved"
	StatusTerminated           = "Terminated"
)

const (
	ApproverTeamLead = "teamLead"
	ApproverManager  = "manager"
)

var Statuses = []string{
	StatusIntern,
	StatusProbation,
	StatusConfirmed,
	StatusResignationSubmitted,
	StatusNoticePeriod,
	StatusExitProcess,
	StatusRelieved,
	StatusTerminated,
}
