package news

import "time"

// Post is a news post.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Published bool      `json:"published"`
	Views     int       `json:"views"`
	CoverPath string    `json:"coverPath,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput holds the fields required to create a news post.
type CreateInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Category  string `json:"category"`
	Published bool   `json:"published"`
	CoverPath string `json:"-"`
	CreatedBy string `json:"-"`
}

// UpdateInput holds optional fields for a partial news post update.
type UpdateInput struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Category  *string `json:"category,omitempty"`
	Published *bool   `json:"published,omitempty"`
	CoverPath *string `json:"-"`
}

// ListParams controls filtering and pagination of news posts.
type ListParams struct {
	Category      string
	PublishedOnly bool
	Query         string
	Limit         int
	Offset        int
}

// Comment is a reader comment on a news post. The author name and email are
// snapshots taken at write time; later profile edits do not retroactively
// change historical comments. UserID is nil for guest comments, which is a
// deliberately lower-trust path keyed only on a caller-supplied identity.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    *string   `json:"userId,omitempty"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentInput holds the fields for creating a comment. UserID/UserName/
// UserEmail are filled from the hydrated account when one is present,
// otherwise from the guest-supplied name and email.
type CommentInput struct {
	PostID    string
	UserID    *string
	UserName  string
	UserEmail string
	Body      string
}

// Like is a per-account like on a news post, with the same name snapshot
// semantics as comments.
type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}
