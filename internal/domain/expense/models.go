package expense

import "time"

const (
	StatusPending  = "Pending"
	StatusPaid     = "Paid"
	StatusRejected = "Rejected"
)

var Statuses = []string{StatusPending, StatusPaid, StatusRejected}

type Expense struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	ExpenseDate   time.Time `json:"expenseDate"`
	Status        string    `json:"status"`
	ReferenceType string    `json:"referenceType,omitempty"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Filter struct {
	Category      string
	ReferenceType string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
