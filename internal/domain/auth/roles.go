package auth

const (
	RoleEmployee = "Employee"
	RoleTeamLead = "TeamLead"
	RoleManager  = "Manager"
	RoleHR       = "HR"
	RoleAdmin    = "Admin"
)

// UserContext is the authenticated principal attached to a request.
type UserContext struct {
	UserID     string
	TenantID   string
	RoleID     string
	RoleName   string
	EmployeeID string
}

func (u UserContext) IsHROrAdmin() bool {
	return u.RoleName == RoleHR || u.RoleName == RoleAdmin
}

func (u UserContext) IsApprover() bool {
	switch u.RoleName {
	case RoleTeamLead, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}
