package contact

import "time"

// Message status values. New messages start as "new" and move through the
// handling workflow from there.
const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"
)

// ValidStatus reports whether s is a recognized message status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// Message is a contact form submission from the public site.
type Message struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Subject   string     `json:"subject"`
	Body      string     `json:"message"`
	Status    string     `json:"status"`
	Reply     string     `json:"reply,omitempty"`
	RepliedBy string     `json:"repliedBy,omitempty"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CreateInput holds a contact form submission.
type CreateInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Body    string `json:"message"`
}

// ListParams controls filtering and pagination of messages.
type ListParams struct {
	Status string
	Query  string
	Limit  int
	Offset int
}
