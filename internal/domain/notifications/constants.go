package notifications

const (
	TypeLeaveSubmitted      = "leave_submitted"
	TypeLeaveStageAdvanced  = "leave_stage_advanced"
	TypeLeaveApproved       = "leave_approved"
	TypeLeaveRejected       = "leave_rejected"
	TypePayrollPaid         = "payroll_paid"
	TypeResignationUpdate   = "resignation_update"
	TypeTaskAssigned        = "task_assigned"
	TypeTicketUpdated       = "ticket_updated"
	TypeAnnouncementPosted  = "announcement_posted"
	TypeEmployeeStatusMoved = "employee_status_changed"
)
