package analytics

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	ReportWorkforce   = "workforce"
	ReportAttendance  = "attendance"
	ReportLeave       = "leave"
	ReportPerformance = "performance"
	ReportPayroll     = "payroll"
	ReportTickets     = "tickets"
	ReportRecruitment = "recruitment"
	ReportAttrition   = "attrition"
)

var Reports = []string{
	ReportWorkforce, ReportAttendance, ReportLeave, ReportPerformance,
	ReportPayroll, ReportTickets, ReportRecruitment, ReportAttrition,
}

const DefaultWindowDays = 30

// Range is an inclusive pair of calendar days.
type Range struct {
	Start time.Time `json:"startDate" bson:"start_date"`
	End   time.Time `json:"endDate" bson:"end_date"`
}

type Workforce struct {
	Range        Range          `json:"range"`
	Headcount    int            `json:"headcount"`
	Active       int            `json:"active"`
	ByStatus     map[string]int `json:"byStatus"`
	ByDepartment map[string]int `json:"byDepartment"`
	Joined       int            `json:"joined"`
	Exited       int            `json:"exited"`
}

type Attendance struct {
	Range          Range          `json:"range"`
	Logs           int            `json:"logs"`
	ByStatus       map[string]int `json:"byStatus"`
	AvgWorkedHours float64        `json:"avgWorkedHours"`
	OvertimeHours  float64        `json:"overtimeHours"`
	LateRate       float64        `json:"lateRate"`
	AbsenceRate    float64        `json:"absenceRate"`
}

type Leave struct {
	Range            Range          `json:"range"`
	Requests         int            `json:"requests"`
	ByStatus         map[string]int `json:"byStatus"`
	ByType           map[string]int `json:"byType"`
	DaysApproved     int            `json:"daysApproved"`
	ApprovalRate     float64        `json:"approvalRate"`
	AvgDecisionHours float64        `json:"avgDecisionHours"`
}

type Performance struct {
	Range          Range          `json:"range"`
	Tasks          int            `json:"tasks"`
	Completed      int            `json:"completed"`
	CompletedOnTime int           `json:"completedOnTime"`
	Overdue        int            `json:"overdue"`
	ByStatus       map[string]int `json:"byStatus"`
	AvgProgress    float64        `json:"avgProgress"`
	CompletionRate float64        `json:"completionRate"`
	OnTimeRate     float64        `json:"onTimeRate"`
}

type Payroll struct {
	Range        Range              `json:"range"`
	Payrolls     int                `json:"payrolls"`
	ByStatus     map[string]int     `json:"byStatus"`
	TotalNet     float64            `json:"totalNet"`
	TotalPaid    float64            `json:"totalPaid"`
	TotalLOP     float64            `json:"totalLopDeduction"`
	TotalOT      float64            `json:"totalOvertimePay"`
	NetByDept    map[string]float64 `json:"netByDepartment"`
	AvgNetSalary float64            `json:"avgNetSalary"`
}

type Tickets struct {
	Range              Range          `json:"range"`
	Raised             int            `json:"raised"`
	ByStatus           map[string]int `json:"byStatus"`
	ByCategory         map[string]int `json:"byCategory"`
	Resolved           int            `json:"resolved"`
	AvgResolutionHours float64        `json:"avgResolutionHours"`
}

type Recruitment struct {
	Range              Range          `json:"range"`
	Hires              int            `json:"hires"`
	ByDepartment       map[string]int `json:"byDepartment"`
	Confirmed          int            `json:"confirmed"`
	AvgDaysToConfirm   float64        `json:"avgDaysToConfirm"`
	StillOnProbation   int            `json:"stillOnProbation"`
}

type Attrition struct {
	Range          Range          `json:"range"`
	Exits          int            `json:"exits"`
	ByStatus       map[string]int `json:"byStatus"`
	ByDepartment   map[string]int `json:"byDepartment"`
	StartHeadcount int            `json:"startHeadcount"`
	EndHeadcount   int            `json:"endHeadcount"`
	Rate           float64        `json:"rate"`
	Resignations   int            `json:"resignations"`
}

// Snapshot is an archived copy of reports at a point in time. Reports is a
// bson.M so nested documents decode back as maps.
type Snapshot struct {
	ID        string    `json:"id" bson:"-"`
	TenantID  string    `json:"tenantId" bson:"tenant_id"`
	Label     string    `json:"label" bson:"label"`
	Range     Range     `json:"range" bson:"range"`
	Reports   bson.M    `json:"reports" bson:"reports"`
	CreatedBy string    `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
