package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/news"
	"github.com/clubworks/clubd/internal/upload"
)

// newsHandler groups news post, comment and like handlers.
type newsHandler struct {
	news    *news.Store
	uploads *upload.Saver
	metrics *metrics.Metrics
}

func newNewsHandler(store *news.Store, uploads *upload.Saver, m *metrics.Metrics) *newsHandler {
	return &newsHandler{news: store, uploads: uploads, metrics: m}
}

// CreatePost handles POST /api/news, JSON or multipart with an optional
// cover image.
func (h *newsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req news.CreateInput
	var cover *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		cover, err = saveFormFile(r, h.uploads, "cover", upload.KindImage, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		req.Title = r.FormValue("title")
		req.Body = r.FormValue("body")
		req.Category = r.FormValue("category")
		req.Published = r.FormValue("published") == "true"
	} else if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	if req.Title == "" || req.Body == "" {
		removeUploadQuietly(r, h.uploads, uploadPath(cover))
		writeError(w, http.StatusBadRequest, "title and body are required")
		return
	}

	if cover != nil {
		req.CoverPath = cover.Path
	}
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		req.CreatedBy = claims.ID
	}

	p, err := h.news.Create(r.Context(), req)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(cover))
		writeError(w, http.StatusInternalServerError, "failed to create news post")
		return
	}

	auditLog(r, "news_create", "news", p.ID)
	writeSuccess(w, http.StatusCreated, map[string]any{"post": p})
}

// ListPosts handles GET /api/news. Anonymous callers see published posts
// only; staff see everything.
func (h *newsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	params := news.ListParams{
		Category:      r.URL.Query().Get("category"),
		Query:         r.URL.Query().Get("search"),
		Limit:         queryInt(r, "limit"),
		Offset:        queryInt(r, "offset"),
		PublishedOnly: auth.ClaimsFromContext(r.Context()) == nil,
	}

	posts, total, err := h.news.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list news posts")
		return
	}
	if posts == nil {
		posts = []*news.Post{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"news": posts, "total": total})
}

// GetPost handles GET /api/news/{id} and bumps the view counter.
func (h *newsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.news.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "news post not found")
		return
	}
	if !p.Published && auth.ClaimsFromContext(r.Context()) == nil {
		writeError(w, http.StatusNotFound, "news post not found")
		return
	}

	if err := h.news.IncrementViews(r.Context(), id); err == nil {
		p.Views++
		h.metrics.IncPostView()
	}

	likes, err := h.news.LikeCount(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"post": p, "likes": likes})
}

// UpdatePost handles PUT /api/news/{id}.
func (h *newsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input news.UpdateInput
	var cover *upload.Result

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		cover, err = saveFormFile(r, h.uploads, "cover", upload.KindImage, h.metrics)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		formString(r, "title", &input.Title)
		formString(r, "body", &input.Body)
		formString(r, "category", &input.Category)
		if v := r.FormValue("published"); v != "" {
			published := v == "true"
			input.Published = &published
		}
	} else if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}

	var oldCover string
	if cover != nil {
		existing, err := h.news.GetByID(r.Context(), id)
		if err != nil {
			removeUploadQuietly(r, h.uploads, cover.Path)
			writeStoreError(w, err, "news post not found")
			return
		}
		oldCover = existing.CoverPath
		input.CoverPath = &cover.Path
	}

	p, err := h.news.Update(r.Context(), id, input)
	if err != nil {
		removeUploadQuietly(r, h.uploads, uploadPath(cover))
		writeStoreError(w, err, "news post not found")
		return
	}

	if cover != nil && oldCover != "" && oldCover != cover.Path {
		removeUploadQuietly(r, h.uploads, oldCover)
	}

	auditLog(r, "news_update", "news", p.ID)
	writeSuccess(w, http.StatusOK, map[string]any{"post": p})
}

// DeletePost handles DELETE /api/news/{id}.
func (h *newsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	coverPath, err := h.news.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "news post not found")
		return
	}
	removeUploadQuietly(r, h.uploads, coverPath)

	auditLog(r, "news_delete", "news", id)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "news post deleted"})
}

// ListComments handles GET /api/news/{id}/comments.
func (h *newsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.news.GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "news post not found")
		return
	}

	comments, err := h.news.ListComments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	if comments == nil {
		comments = []*news.Comment{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"comments": comments})
}

// CreateComment handles POST /api/news/{id}/comments. Authenticated callers
// get their identity snapshotted from the live account; guests must supply a
// name and email.
func (h *newsHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Body  string `json:"body"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse request body")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "comment body is required")
		return
	}

	if _, err := h.news.GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "news post not found")
		return
	}

	in := news.CommentInput{PostID: id, Body: req.Body}
	if acc := auth.AccountFromContext(r.Context()); acc != nil {
		in.UserID = &acc.ID
		in.UserName = strings.TrimSpace(acc.FirstName + " " + acc.LastName)
		if in.UserName == "" {
			in.UserName = acc.Username
		}
		in.UserEmail = acc.Email
	} else {
		if req.Name == "" || req.Email == "" {
			writeError(w, http.StatusBadRequest, "name and email are required for guest comments")
			return
		}
		in.UserName = req.Name
		in.UserEmail = req.Email
	}

	c, err := h.news.CreateComment(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]any{"comment": c})
}

// UpdateComment handles PUT /api/news/{id}/comments/{commentID}. Ownership is
// enforced in the store query, so a comment that exists but belongs to
// someone else is indistinguishable from a missing one.
func (h *newsHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentID")

	acc := auth.AccountFromContext(r.Context())
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, "comment body is required")
		return
	}

	c, err := h.news.UpdateComment(r.Context(), commentID, acc.ID, req.Body)
	if err != nil {
		writeStoreError(w, err, "comment not found or no permission")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"comment": c})
}

// DeleteComment handles DELETE /api/news/{id}/comments/{commentID}, with the
// same ownership contract as UpdateComment.
func (h *newsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentID")

	acc := auth.AccountFromContext(r.Context())
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.news.DeleteComment(r.Context(), commentID, acc.ID); err != nil {
		writeStoreError(w, err, "comment not found or no permission")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"message": "comment deleted"})
}

// ToggleLike handles POST /api/news/{id}/like.
func (h *newsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	acc := auth.AccountFromContext(r.Context())
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if _, err := h.news.GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "news post not found")
		return
	}

	name := strings.TrimSpace(acc.FirstName + " " + acc.LastName)
	if name == "" {
		name = acc.Username
	}
	liked, count, err := h.news.ToggleLike(r.Context(), id, acc.ID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"liked": liked, "likes": count})
}
