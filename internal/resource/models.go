package resource

import "time"

// Resource is a downloadable document or form with a download counter.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	FilePath    string    `json:"filePath"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Downloads   int64     `json:"downloads"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput holds the fields for a new resource. File fields come from the
// upload handler.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	FilePath    string `json:"-"`
	MimeType    string `json:"-"`
	SizeBytes   int64  `json:"-"`
	CreatedBy   string `json:"-"`
}

// UpdateInput holds optional fields for a partial resource update.
type UpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// ListParams controls filtering and pagination of resources.
type ListParams struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}
