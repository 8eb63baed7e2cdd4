package announcement

import "time"

const (
	PriorityLow    = "Low"
	PriorityNormal = "Normal"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

var Priorities = []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Priority    string     `json:"priority"`
	Department  string     `json:"department,omitempty"`
	Pinned      bool       `json:"pinned"`
	PublishedBy string     `json:"publishedBy"`
	PublishAt   time.Time  `json:"publishAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	ReadCount   int        `json:"readCount"`
	Read        bool       `json:"read"`
	Comments    []Comment  `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type Input struct {
	Title      string
	Content    string
	Priority   string
	Department string
	Pinned     bool
	PublishAt  *time.Time
	ExpiresAt  *time.Time
}

// Filter narrows a listing. A non-nil Audience keeps company-wide
// announcements plus those for that department.
type Filter struct {
	Audience *string
	ActiveAt *time.Time
	Limit    int
	Offset   int
}
