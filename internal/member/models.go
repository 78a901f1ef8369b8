package member

import "time"

// Member status values. Self-registrations start pending until an admin
// approves them.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidStatus reports whether s is a recognized member status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}

// Member is a registered club member. Members are a public-facing roster
// entity, distinct from the administrative accounts that manage the site.
type Member struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Occupation string    `json:"occupation"`
	Status     string    `json:"status"` // pending, active or inactive
	JoinedAt   time.Time `json:"joinedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateInput holds the fields for member registration. Self-registrations
// always start in status pending; the admin create path may set it directly.
type CreateInput struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Occupation string `json:"occupation"`
	Status     string `json:"status"`
}

// UpdateInput holds optional fields for a partial member update.
type UpdateInput struct {
	FullName   *string `json:"fullName,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Occupation *string `json:"occupation,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// ListParams controls filtering and pagination of the member roster.
type ListParams struct {
	Status string
	Query  string
	Limit  int
	Offset int
}
