package gallery

import "time"

// Item is an uploaded gallery media item.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Category  string    `json:"category"`
	FilePath  string    `json:"filePath"`
	ThumbPath string    `json:"thumbPath,omitempty"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput holds the fields for a new gallery item. File fields come from
// the upload handler, not the client body.
type CreateInput struct {
	Title     string `json:"title"`
	Caption   string `json:"caption"`
	Category  string `json:"category"`
	FilePath  string `json:"-"`
	ThumbPath string `json:"-"`
	MimeType  string `json:"-"`
	SizeBytes int64  `json:"-"`
	CreatedBy string `json:"-"`
}

// UpdateInput holds optional fields for a partial gallery item update.
type UpdateInput struct {
	Title    *string `json:"title,omitempty"`
	Caption  *string `json:"caption,omitempty"`
	Category *string `json:"category,omitempty"`
}

// ListParams controls filtering and pagination of gallery items.
type ListParams struct {
	Category string
	Query    string
	Limit    int
	Offset   int
}
