package settings

import "time"

// Setting is a site configuration entry. Secret values are stored encrypted
// and never returned in list responses.
type Setting struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Secret    bool      `json:"secret"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpsertInput holds a setting write. Key is taken from the URL for updates.
type UpsertInput struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Secret *bool  `json:"secret,omitempty"`
}

// Redacted returns a copy safe for list responses: secret values are masked.
func (s *Setting) Redacted() *Setting {
	if !s.Secret {
		return s
	}
	out := *s
	out.Value = "********"
	return &out
}

// Flag is a named feature toggle.
type Flag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description,omitempty"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FlagInput holds a feature flag create request.
type FlagInput struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// FlagUpdate holds optional fields for a partial flag update.
type FlagUpdate struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	Description *string `json:"description,omitempty"`
}
