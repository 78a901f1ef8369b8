package event

import "time"

// Event is a club event, upcoming or past.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Status      string    `json:"status"` // upcoming, ongoing, completed or cancelled
	EventDate   time.Time `json:"eventDate"`
	PhotoPath   string    `json:"photoPath,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput holds the fields required to create a new event.
type CreateInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	EventDate   time.Time `json:"eventDate"`
	PhotoPath   string    `json:"-"`
	CreatedBy   string    `json:"-"`
}

// UpdateInput holds optional fields for a partial event update.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Status      *string    `json:"status,omitempty"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	PhotoPath   *string    `json:"-"`
}

// ListParams controls filtering and pagination of events.
type ListParams struct {
	Status   string
	Category string
	Query    string
	Limit    int
	Offset   int
}
