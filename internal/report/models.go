package report

import "time"

// Report type values.
const (
	TypeMeetingMinutes = "meeting_minutes"
	TypeFinancial      = "financial"
	TypeActivity       = "activity"
	TypeAnnual         = "annual"
	TypeOther          = "other"
)

// ValidType reports whether t is a recognized report type.
func ValidType(t string) bool {
	switch t {
	case TypeMeetingMinutes, TypeFinancial, TypeActivity, TypeAnnual, TypeOther:
		return true
	}
	return false
}

// Report is a club report document, optionally with an attached file.
type Report struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ReportType  string    `json:"reportType"`
	ReportDate  time.Time `json:"reportDate"`
	FilePath    string    `json:"filePath,omitempty"`
	MimeType    string    `json:"mimeType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput holds the fields for a new report.
type CreateInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ReportType  string     `json:"reportType"`
	ReportDate  *time.Time `json:"reportDate,omitempty"`
	FilePath    string     `json:"-"`
	MimeType    string     `json:"-"`
	SizeBytes   int64      `json:"-"`
	CreatedBy   string     `json:"-"`
}

// UpdateInput holds optional fields for a partial report update.
type UpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ReportType  *string    `json:"reportType,omitempty"`
	ReportDate  *time.Time `json:"reportDate,omitempty"`
}

// ListParams controls filtering and pagination of reports.
type ListParams struct {
	ReportType string
	Query      string
	Limit      int
	Offset     int
}
