package attendance

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "HalfDay"
	StatusLate    = "Late"
	StatusOnLeave = "OnLeave"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusHalfDay, StatusLate, StatusOnLeave}

// LeaveTypeLOP is the unpaid leave type; every other approved type is paid.
const LeaveTypeLOP = "LOP"

const (
	StandardDayHours = 8
	halfDayHours     = 4
)
