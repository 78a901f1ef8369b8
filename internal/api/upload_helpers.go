package api

import (
	"errors"
	"net/http"

	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/upload"
)

// saveFormFile stores the named multipart file if one was sent. A request
// without that field returns (nil, nil) so handlers can treat the file as
// optional.
func saveFormFile(r *http.Request, saver *upload.Saver, field string, kind upload.Kind, m *metrics.Metrics) (*upload.Result, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res, err := saver.Save(file, header, kind)
	if err != nil {
		m.ObserveUpload(string(kind), 0, false)
		return nil, err
	}
	m.ObserveUpload(string(kind), res.SizeBytes, true)
	return res, nil
}

// writeUploadError maps upload validation failures to 400 responses.
func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upload.ErrTooLarge),
		errors.Is(err, upload.ErrBadType),
		errors.Is(err, upload.ErrNoFile),
		errors.Is(err, upload.ErrEmptyUpload):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to store upload")
	}
}

// removeUploadQuietly deletes a stored file, logging instead of failing the
// request when the file is already gone.
func removeUploadQuietly(r *http.Request, saver *upload.Saver, relPath string) {
	if relPath == "" {
		return
	}
	if err := saver.Remove(relPath); err != nil {
		auditLog(r, "upload_remove_failed", "file", relPath, "error", err.Error())
	}
}
