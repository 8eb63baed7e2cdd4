package auth

const (
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermEmployeesLifecycle = "employees.lifecycle"
	PermAttendanceRead     = "attendance.read"
	PermAttendanceWrite    = "attendance.write"
	PermAttendanceManage   = "attendance.manage"
	PermCalendarRead       = "calendar.read"
	PermCalendarWrite      = "calendar.write"
	PermShiftsRead         = "shifts.read"
	PermShiftsWrite        = "shifts.write"
	PermPayrollRead        = "payroll.read"
	PermPayrollRun         = "payroll.run"
	PermPayrollPay         = "payroll.pay"
	PermExpensesRead       = "expenses.read"
	PermExpensesWrite      = "expenses.write"
	PermLeaveRead          = "leave.read"
	PermLeaveWrite         = "leave.write"
	PermLeaveApprove       = "leave.approve"
	PermProjectsRead       = "projects.read"
	PermProjectsWrite      = "projects.write"
	PermTasksWrite         = "tasks.write"
	PermTicketsRead        = "tickets.read"
	PermTicketsWrite       = "tickets.write"
	PermTicketsManage      = "tickets.manage"
	PermAnnouncementsRead  = "announcements.read"
	PermAnnouncementsWrite = "announcements.write"
	PermAnalyticsRead      = "analytics.read"
	PermAuditRead          = "audit.read"
	PermSystemAdmin        = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermEmployeesLifecycle,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermAttendanceManage,
	PermCalendarRead,
	PermCalendarWrite,
	PermShiftsRead,
	PermShiftsWrite,
	PermPayrollRead,
	PermPayrollRun,
	PermPayrollPay,
	PermExpensesRead,
	PermExpensesWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermProjectsRead,
	PermProjectsWrite,
	PermTasksWrite,
	PermTicketsRead,
	PermTicketsWrite,
	PermTicketsManage,
	PermAnnouncementsRead,
	PermAnnouncementsWrite,
	PermAnalyticsRead,
	PermAuditRead,
	PermSystemAdmin,
}

var employeeBase = []string{
	PermEmployeesRead,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermCalendarRead,
	PermShiftsRead,
	PermLeaveRead,
	PermLeaveWrite,
	PermProjectsRead,
	PermTasksWrite,
	PermTicketsRead,
	PermTicketsWrite,
	PermAnnouncementsRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: employeeBase,
	RoleTeamLead: append(append([]string{}, employeeBase...),
		PermLeaveApprove,
		PermEmployeesLifecycle,
	),
	RoleManager: append(append([]string{}, employeeBase...),
		PermLeaveApprove,
		PermEmployeesLifecycle,
		PermProjectsWrite,
		PermAnnouncementsWrite,
		PermAnalyticsRead,
	),
	RoleHR: append(append([]string{}, employeeBase...),
		PermEmployeesWrite,
		PermEmployeesLifecycle,
		PermAttendanceManage,
		PermCalendarWrite,
		PermShiftsWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollPay,
		PermExpensesRead,
		PermExpensesWrite,
		PermLeaveApprove,
		PermProjectsWrite,
		PermTicketsManage,
		PermAnnouncementsWrite,
		PermAnalyticsRead,
		PermAuditRead,
	),
	RoleAdmin: DefaultPermissions,
}
