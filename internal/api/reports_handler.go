package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/report"
	"github.com/clubworks/clubd/internal/upload"
)

// reportsHandler groups club report handlers.
type reportsHandler struct {
	reports *report.Store
	uploads *upload.Saver
	metrics *metrics.Metrics
}

func newReportsHandler(store *report.Store, uploads *upload.Saver, m *metrics.Metrics) *reportsHandler {
	return &reportsHandler{reports: store, uploads: uploads, metrics: m}
}

// CreateReport handles POST /api/reports, JSON or multipart with an optional
// attached document.
func (h *reportsHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req report.CreateInput
	var doc *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		doc, err = saveFormFile(r, h.uploads, "file", upload.KindDocument, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		req.ReportType = r.FormValue("reportType")
		if v := r.FormValue("reportDate"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				removeUploadQuietly(r, h.uploads, uploadPath(doc))
				writeError(w, http.StatusBadRequest, "reportDate must be RFC 3339")
				return
			}
			req.ReportDate = &t
		}
	} else if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if req.Title == "" {
		removeUploadQuietly(r, h.uploads, uploadPath(doc))
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.ReportType != "" && !report.ValidType(req.ReportType) {
		removeUploadQuietly(r, h.uploads, uploadPath(doc))
		writeError(w, http.StatusBadRequest,
			"reportType must be meeting_minutes, financial, activity, annual or other")
		return
	}

	if doc != nil {
		req.FilePath = doc.Path
		req.MimeType = doc.MimeType
		req.SizeBytes = doc.SizeBytes
	}
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		req.CreatedBy = claims.ID
	}

	rp, err := h.reports.Create(r.Context(), req)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(doc))
		writeError(w, http.StatusInternalServerError, "failed to create report")
		return
	}

	auditLog(r, "report_create", "report", rp.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"report": rp})
}

// ListReports handles GET /api/reports.
func (h *reportsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	params := report.ListParams{
		ReportType: r.URL.Query().Get("type"),
		Query:      r.URL.Query().Get("search"),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	}

	reports, total, err := h.reports.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []*report.Report{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"reports": reports, "total": total})
}

// GetReport handles GET /api/reports/{id}.
func (h *reportsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rp, err := h.reports.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "report not found")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"report": rp})
}

// UpdateReport handles PUT /api/reports/{id}, metadata only.
func (h *reportsHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input report.UpdateInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if input.ReportType != nil && !report.ValidType(*input.ReportType) {
		writeError(w, http.StatusBadRequest,
			"reportType must be meeting_minutes, financial, activity, annual or other")
		return
	}

	rp, err := h.reports.Update(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, err, "report not found")
		return
	}

	auditLog(r, "report_update", "report", rp.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"report": rp})
}

// DeleteReport handles DELETE /api/reports/{id}.
func (h *reportsHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filePath, err := h.reports.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "report not found")
		return
	}
	removeUploadQuietly(r, h.uploads, filePath)

	auditLog(r, "report_delete", "report", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "report deleted"})
}
