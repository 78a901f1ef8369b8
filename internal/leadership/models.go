package leadership

import "time"

// Position is a leadership role entry shown on the public site, ordered by
// DisplayOrder ascending.
type Position struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Bio          string    `json:"bio,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PhotoPath    string    `json:"photoPath,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateInput holds the fields required to create a leadership position.
type CreateInput struct {
	Name         string `json:"name"`
	Title        string `json:"title"`
	Bio          string `json:"bio"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PhotoPath    string `json:"-"`
	DisplayOrder int    `json:"displayOrder"`
	Active       *bool  `json:"active,omitempty"`
}

// UpdateInput holds optional fields for a partial position update.
type UpdateInput struct {
	Name         *string `json:"name,omitempty"`
	Title        *string `json:"title,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	PhotoPath    *string `json:"-"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
	Active       *bool   `json:"active,omitempty"`
}
