package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// maxBodySize is the maximum allowed request body size (1 MB). File uploads
// go through multipart parsing with their own limits.
const maxBodySize = 1 << 20

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeSuccess writes the standard success envelope, merging payload keys
// beside the success flag.
func writeSuccess(w http.ResponseWriter, statusCode int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, statusCode, body)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"message": message,
	})
}

// writeStoreError maps a store failure to a response: missing rows become
// 404 with the given message, a malformed id becomes a 400, anything else
// is a 500.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	if isInvalidID(err) {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// isInvalidID reports whether err is Postgres rejecting a value that cannot
// be cast to the column type (invalid_text_representation), which is how a
// non-UUID path id surfaces from the stores.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// isUniqueViolation reports whether err is a Postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v any) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}
