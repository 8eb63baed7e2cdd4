package ticket

import "time"

type Ticket struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	RaisedBy    string         `json:"raisedBy"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Priority    string         `json:"priority"`
	Status      string         `json:"status"`
	AssigneeID  string         `json:"assigneeId,omitempty"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	Messages    []Message      `json:"messages,omitempty"`
	History     []StatusChange `json:"history,omitempty"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Message struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatusChange struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
}

type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	ObjectKey   string    `json:"-"`
	URL         string    `json:"url"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateInput struct {
	Subject     string
	Description string
	Category    string
	Priority    string
}

type Filter struct {
	RaisedBy   string
	AssigneeID string
	Status     string
	Category   string
	Limit      int
	Offset     int
}
