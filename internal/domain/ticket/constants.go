package ticket

const (
	StatusOpen       = "Open"
	StatusInProgress = "InProgress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
	StatusReopened   = "Reopened"
)

var Statuses = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed, StatusReopened}

var Categories = []string{"IT", "HR", "Payroll", "Facilities", "Other"}

var Priorities = []string{"Low", "Medium", "High", "Critical"}

const codePrefix = "TKT-"

const attachmentFolder = "tickets"

// transitions lists the statuses reachable from each status.
var transitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusResolved, StatusClosed},
	StatusResolved:   {StatusClosed, StatusReopened},
	StatusClosed:     {StatusReopened},
	StatusReopened:   {StatusInProgress, StatusResolved, StatusClosed},
}
