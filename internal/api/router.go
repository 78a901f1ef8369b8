package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clubworks/clubd/internal/account"
	"github.com/clubworks/clubd/internal/announcement"
	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/contact"
	"github.com/clubworks/clubd/internal/event"
	"github.com/clubworks/clubd/internal/gallery"
	"github.com/clubworks/clubd/internal/leadership"
	"github.com/clubworks/clubd/internal/member"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/news"
	"github.com/clubworks/clubd/internal/ratelimit"
	"github.com/clubworks/clubd/internal/report"
	"github.com/clubworks/clubd/internal/resource"
	"github.com/clubworks/clubd/internal/settings"
	"github.com/clubworks/clubd/internal/stats"
	"github.com/clubworks/clubd/internal/token"
	"github.com/clubworks/clubd/internal/upload"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Accounts      *account.Store
	MemberStore   *member.Store
	Issuer        *token.Issuer
	LoginLimiter  *ratelimit.Limiter
	Metrics       *metrics.Metrics
	Uploads       *upload.Saver
	CORSOrigins   []string
	Stats         *stats.Service
	EventStore    *event.Store
	NewsStore     *news.Store
	Announcements *announcement.Store
	Gallery       *gallery.Store
	Leadership    *leadership.Store
	Resources     *resource.Store
	Reports       *report.Store
	Contacts      *contact.Store
	Settings      *settings.Store
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.CORSOrigins))
	r.Use(slogRequestLogger)
	r.Use(metricsMiddleware(deps.Metrics))

	lookup := account.NewAuthAdapter(deps.Accounts)
	verify := auth.VerifyToken(deps.Issuer)
	optional := auth.OptionalToken(deps.Issuer)
	hydrate := auth.HydrateCurrentUser(lookup)

	staff := auth.RequireRole(auth.RoleSuperAdmin, auth.RoleAdmin, auth.RoleEditor)
	admins := auth.RequireRole(auth.RoleSuperAdmin, auth.RoleAdmin)
	superOnly := auth.RequireRole(auth.RoleSuperAdmin)

	authH := newAuthHandler(deps.Accounts, deps.Issuer, deps.LoginLimiter, deps.Metrics)
	usersH := newUsersHandler(deps.Accounts)
	membersH := newMembersHandler(deps.MemberStore)
	eventsH := newEventsHandler(deps.EventStore, deps.Uploads, deps.Metrics)
	newsH := newNewsHandler(deps.NewsStore, deps.Uploads, deps.Metrics)
	annH := newAnnouncementsHandler(deps.Announcements)
	galleryH := newGalleryHandler(deps.Gallery, deps.Uploads, deps.Metrics)
	leadH := newLeadershipHandler(deps.Leadership, deps.Uploads, deps.Metrics)
	resH := newResourcesHandler(deps.Resources, deps.Uploads, deps.Metrics)
	repH := newReportsHandler(deps.Reports, deps.Uploads, deps.Metrics)
	contactH := newContactsHandler(deps.Contacts)
	settingsH := newSettingsHandler(deps.Settings)
	flagsH := newFlagsHandler(deps.Settings)
	dashH := newDashboardHandler(deps.Stats)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus exposition.
	r.Get("/metrics", promhttp.HandlerFor(
		deps.Metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)

	// Uploaded files.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(deps.Uploads.Dir()))))

	// Authentication.
	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/login", authH.Login)
		ar.Post("/forgot-password", authH.ForgotPassword)
		ar.Post("/reset-password", authH.ResetPassword)
		ar.With(verify, hydrate).Get("/me", authH.Me)
	})

	// Public member registration.
	r.Post("/api/members/register", membersH.Register)

	// Contact messages: public submission, staff triage, admin workflow.
	r.Route("/api/contact", func(cr chi.Router) {
		cr.Post("/", contactH.SubmitMessage)
		cr.With(verify, hydrate, staff).Get("/", contactH.ListMessages)
		cr.With(verify, hydrate, staff).Get("/{id}", contactH.GetMessage)
		cr.With(verify, hydrate, admins).Patch("/{id}/status", contactH.UpdateStatus)
		cr.With(verify, hydrate, admins).Post("/{id}/reply", contactH.Reply)
		cr.With(verify, hydrate, admins).Delete("/{id}", contactH.DeleteMessage)
	})

	// Events: public reads, staff writes, admin deletes.
	r.Route("/api/events", func(er chi.Router) {
		er.Get("/", eventsH.ListEvents)
		er.Get("/{id}", eventsH.GetEvent)
		er.With(verify, hydrate, staff).Post("/", eventsH.CreateEvent)
		er.With(verify, hydrate, staff).Put("/{id}", eventsH.UpdateEvent)
		er.With(verify, hydrate, admins).Delete("/{id}", eventsH.DeleteEvent)
	})

	// News: optional token on reads so staff see unpublished posts; comments
	// accept guests, likes require a live account.
	r.Route("/api/news", func(nr chi.Router) {
		nr.With(optional).Get("/", newsH.ListPosts)
		nr.With(optional).Get("/{id}", newsH.GetPost)
		nr.With(verify, hydrate, staff).Post("/", newsH.CreatePost)
		nr.With(verify, hydrate, staff).Put("/{id}", newsH.UpdatePost)
		nr.With(verify, hydrate, admins).Delete("/{id}", newsH.DeletePost)

		nr.Get("/{id}/comments", newsH.ListComments)
		nr.With(optional, hydrate).Post("/{id}/comments", newsH.CreateComment)
		nr.With(verify, hydrate).Put("/{id}/comments/{commentID}", newsH.UpdateComment)
		nr.With(verify, hydrate).Delete("/{id}/comments/{commentID}", newsH.DeleteComment)
		nr.With(verify, hydrate).Post("/{id}/like", newsH.ToggleLike)
	})

	// Announcements.
	r.Route("/api/announcements", func(ar chi.Router) {
		ar.With(optional).Get("/", annH.ListAnnouncements)
		ar.With(optional).Get("/{id}", annH.GetAnnouncement)
		ar.With(verify, hydrate, staff).Post("/", annH.CreateAnnouncement)
		ar.With(verify, hydrate, staff).Put("/{id}", annH.UpdateAnnouncement)
		ar.With(verify, hydrate, admins).Delete("/{id}", annH.DeleteAnnouncement)
	})

	// Gallery.
	r.Route("/api/gallery", func(gr chi.Router) {
		gr.Get("/", galleryH.ListItems)
		gr.Get("/{id}", galleryH.GetItem)
		gr.With(verify, hydrate, staff).Post("/", galleryH.CreateItem)
		gr.With(verify, hydrate, staff).Put("/{id}", galleryH.UpdateItem)
		gr.With(verify, hydrate, admins).Delete("/{id}", galleryH.DeleteItem)
	})

	// Leadership: public reads, all writes restricted to admins.
	r.Route("/api/leadership", func(lr chi.Router) {
		lr.With(optional).Get("/", leadH.ListPositions)
		lr.Get("/{id}", leadH.GetPosition)
		lr.With(verify, hydrate, admins).Post("/", leadH.CreatePosition)
		lr.With(verify, hydrate, admins).Put("/{id}", leadH.UpdatePosition)
		lr.With(verify, hydrate, admins).Delete("/{id}", leadH.DeletePosition)
	})

	// Resources.
	r.Route("/api/resources", func(rr chi.Router) {
		rr.Get("/", resH.ListResources)
		rr.Get("/{id}", resH.GetResource)
		rr.Get("/{id}/download", resH.DownloadResource)
		rr.With(verify, hydrate, staff).Post("/", resH.CreateResource)
		rr.With(verify, hydrate, staff).Put("/{id}", resH.UpdateResource)
		rr.With(verify, hydrate, admins).Delete("/{id}", resH.DeleteResource)
	})

	// Reports: public reads, staff create/update, admin delete.
	r.Route("/api/reports", func(rr chi.Router) {
		rr.Get("/", repH.ListReports)
		rr.Get("/{id}", repH.GetReport)
		rr.With(verify, hydrate, staff).Post("/", repH.CreateReport)
		rr.With(verify, hydrate, staff).Put("/{id}", repH.UpdateReport)
		rr.With(verify, hydrate, admins).Delete("/{id}", repH.DeleteReport)
	})

	// Admin area.
	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(verify, hydrate)

		// Account management is super_admin territory.
		ar.Route("/users", func(ur chi.Router) {
			ur.Use(superOnly)
			ur.Post("/", usersH.CreateUser)
			ur.Get("/", usersH.ListUsers)
			ur.Get("/{id}", usersH.GetUser)
			ur.Put("/{id}", usersH.UpdateUser)
			ur.Delete("/{id}", usersH.DeleteUser)
		})

		// Member roster management.
		ar.Route("/members", func(mr chi.Router) {
			mr.Use(admins)
			mr.Post("/", membersH.CreateMember)
			mr.Get("/", membersH.ListMembers)
			mr.Get("/{id}", membersH.GetMember)
			mr.Put("/{id}", membersH.UpdateMember)
			mr.Delete("/{id}", membersH.DeleteMember)
		})

		// Site settings.
		ar.Route("/settings", func(sr chi.Router) {
			sr.With(admins).Get("/", settingsH.ListSettings)
			sr.With(admins).Get("/{key}", settingsH.GetSetting)
			sr.With(admins).Put("/{key}", settingsH.UpsertSetting)
			sr.With(superOnly).Delete("/{key}", settingsH.DeleteSetting)
		})

		// Feature flags: admins toggle, super_admin creates and deletes.
		ar.Route("/flags", func(fr chi.Router) {
			fr.With(admins).Get("/", flagsH.ListFlags)
			fr.With(admins).Get("/{name}", flagsH.GetFlag)
			fr.With(superOnly).Post("/", flagsH.CreateFlag)
			fr.With(admins).Put("/{name}", flagsH.UpdateFlag)
			fr.With(superOnly).Delete("/{name}", flagsH.DeleteFlag)
		})

		// Dashboard is open to all staff.
		ar.With(staff).Get("/dashboard", dashH.GetDashboard)

		// Live metrics summary.
		ar.With(admins).Get("/metrics", deps.Metrics.Handler())
	})

	return r
}
