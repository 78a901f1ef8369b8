package announcement

import "time"

// Priority values, highest urgency first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// PriorityRank maps a priority to its sort rank: lower rank is shown first.
// Unknown or missing priorities are treated as normal.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Announcement is a site-wide announcement. Listing order is a total order by
// (priority rank ascending, publish date descending).
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Priority    string    `json:"priority"`
	Active      bool      `json:"active"`
	PublishDate time.Time `json:"publishDate"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput holds the fields required to create an announcement.
type CreateInput struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Priority    string     `json:"priority"`
	Active      *bool      `json:"active,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	CreatedBy   string     `json:"-"`
}

// UpdateInput holds optional fields for a partial announcement update.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Body        *string    `json:"body,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Active      *bool      `json:"active,omitempty"`
	PublishDate *time.Time `json:"publishDate,omitempty"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
}

// ListParams controls filtering and pagination of announcements.
type ListParams struct {
	ActiveOnly bool
	Priority   string
	Limit      int
	Offset     int
}
