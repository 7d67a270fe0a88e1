package app

import (
	"net/http"

	"eventhost-backend/internal/announcements"
	"eventhost-backend/internal/auth"
	"eventhost-backend/internal/collaborators"
	"eventhost-backend/internal/config"
	"eventhost-backend/internal/database"
	"eventhost-backend/internal/emails"
	"eventhost-backend/internal/events"
	"eventhost-backend/internal/groups"
	"eventhost-backend/internal/guestlists"
	"eventhost-backend/internal/health"
	"eventhost-backend/internal/hosts"
	"eventhost-backend/internal/invitations"
	"eventhost-backend/internal/messages"
	"eventhost-backend/internal/middleware"
	"eventhost-backend/internal/polls"
	"eventhost-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. The DB and Redis handles are returned for startup checks.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); the Redis client is reused by the health marker
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{Rdb: rdb, DB: dbPinger(db)}
	app.Get("/health/json", healthHandlers.JSON)

	if db == nil || rdb == nil {
		return app, db, rdb, nil
	}

	sender := &emails.ResendClient{APIKey: cfg.ResendAPIKey, MailFrom: cfg.MailFrom}

	// Auth (no auth middleware)
	authHandlers := &auth.Handlers{Service: &auth.Service{DB: db}, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", authHandlers.Signup)
	authGroup.Post("/signin", authHandlers.Signin)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Post("/signout", authHandlers.Signout)

	// Invitations: guest-facing routes are token-addressed, host routes hang
	// off /api/events below
	invService := &invitations.Service{DB: db, Email: sender, BaseURL: cfg.BaseURL}
	invHandlers := &invitations.Handlers{Service: invService}
	app.Get("/api/invitations/:token", invHandlers.GetByToken)
	app.Post("/api/invitations/:token/rsvp", invHandlers.RSVP)
	app.Get("/api/rsvp/:token/:response", invHandlers.RSVPRedirect)

	// Events. Messages stay session-or-token so RequireAuth is attached per
	// route rather than on the group.
	eventsService := &events.Service{DB: db, Email: sender}
	eventsHandlers := &events.Handlers{Service: eventsService, Invites: invService}
	msgHandlers := &messages.Handlers{Service: &messages.Service{DB: db}}
	collabHandlers := &collaborators.Handlers{Service: &collaborators.Service{DB: db}}

	requireAuth := middleware.RequireAuth()
	eventsGroup := app.Group("/api/events")
	eventsGroup.Post("/", requireAuth, eventsHandlers.CreateEvent)
	eventsGroup.Get("/", requireAuth, eventsHandlers.ListEvents)
	eventsGroup.Get("/:id", requireAuth, eventsHandlers.GetEvent)
	eventsGroup.Put("/:id", requireAuth, eventsHandlers.UpdateEvent)
	eventsGroup.Delete("/:id", requireAuth, eventsHandlers.DeleteEvent)
	eventsGroup.Post("/:id/cancel", requireAuth, eventsHandlers.CancelEvent)

	eventsGroup.Get("/:id/invitations", requireAuth, invHandlers.ListForEvent)
	eventsGroup.Post("/:id/invitations", requireAuth, invHandlers.AddInvitations)
	eventsGroup.Post("/:id/invitations/resend", requireAuth, invHandlers.Resend)
	eventsGroup.Put("/:id/invitations/:invitationId/suspend", requireAuth, invHandlers.SetFlag(invitations.FlagSuspended))
	eventsGroup.Put("/:id/invitations/:invitationId/block", requireAuth, invHandlers.SetFlag(invitations.FlagBlocked))
	eventsGroup.Put("/:id/invitations/:invitationId/block-messages", requireAuth, invHandlers.SetFlag(invitations.FlagMessageBlocked))

	eventsGroup.Get("/:id/messages", msgHandlers.ListMessages)
	eventsGroup.Post("/:id/messages", msgHandlers.SendMessage)

	eventsGroup.Get("/:id/collaborators", requireAuth, collabHandlers.ListForEvent)
	eventsGroup.Post("/:id/collaborators", requireAuth, collabHandlers.Invite)
	eventsGroup.Put("/:id/collaborators/:collaboratorId", requireAuth, collabHandlers.Update)
	eventsGroup.Delete("/:id/collaborators/:collaboratorId", requireAuth, collabHandlers.Remove)

	// Polls: vote, vote-email and the tally read are public
	pollHandlers := &polls.Handlers{
		Service: &polls.Service{DB: db, Email: sender, BaseURL: cfg.BaseURL},
		BaseURL: cfg.BaseURL,
	}
	pollGroup := app.Group("/api/polls")
	pollGroup.Post("/", requireAuth, pollHandlers.CreatePoll)
	pollGroup.Get("/", requireAuth, pollHandlers.ListPolls)
	pollGroup.Get("/:id", pollHandlers.GetPoll)
	pollGroup.Put("/:id", requireAuth, pollHandlers.UpdatePoll)
	pollGroup.Delete("/:id", requireAuth, pollHandlers.DeletePoll)
	pollGroup.Post("/:id/vote", pollHandlers.Vote)
	pollGroup.Get("/:id/vote-email", pollHandlers.VoteEmail)
	pollGroup.Post("/:id/invite", requireAuth, pollHandlers.InvitePoll)
	pollGroup.Post("/:id/end", requireAuth, pollHandlers.EndPoll)
	pollGroup.Post("/:id/convert-to-event", requireAuth, pollHandlers.ConvertToEvent)

	// Event groups
	groupHandlers := &groups.Handlers{Service: &groups.Service{DB: db}}
	groupGroup := app.Group("/api/event-groups", requireAuth)
	groupGroup.Post("/", groupHandlers.CreateGroup)
	groupGroup.Get("/", groupHandlers.ListGroups)
	groupGroup.Get("/:id", groupHandlers.GetGroup)
	groupGroup.Put("/:id", groupHandlers.UpdateGroup)
	groupGroup.Delete("/:id", groupHandlers.DeleteGroup)
	groupGroup.Post("/:id/guest-lists", groupHandlers.LinkGuestList)
	groupGroup.Delete("/:id/guest-lists/:guestListId", groupHandlers.UnlinkGuestList)

	// Guest lists
	glHandlers := &guestlists.Handlers{Service: &guestlists.Service{DB: db}}
	glGroup := app.Group("/api/guest-lists", requireAuth)
	glGroup.Post("/", glHandlers.CreateGuestList)
	glGroup.Get("/", glHandlers.ListGuestLists)
	glGroup.Get("/:id", glHandlers.GetGuestList)
	glGroup.Put("/:id", glHandlers.UpdateGuestList)
	glGroup.Delete("/:id", glHandlers.DeleteGuestList)
	glGroup.Get("/:id/members", glHandlers.ListMembers)
	glGroup.Post("/:id/members", glHandlers.AddMembers)
	glGroup.Delete("/:id/members/:memberId", glHandlers.RemoveMember)

	// Announcements
	annHandlers := &announcements.Handlers{Service: &announcements.Service{DB: db, Email: sender}}
	annGroup := app.Group("/api/announcements", requireAuth)
	annGroup.Post("/", annHandlers.CreateAnnouncement)
	annGroup.Get("/", annHandlers.ListAnnouncements)
	annGroup.Get("/:id", annHandlers.GetAnnouncement)
	annGroup.Put("/:id", annHandlers.UpdateAnnouncement)
	annGroup.Delete("/:id", annHandlers.DeleteAnnouncement)
	annGroup.Post("/:id/publish", annHandlers.Publish)

	// Host profile + uploads
	uploadService := &uploads.Service{
		Client:            &uploads.SidecarClient{},
		PrivateDir:        cfg.PrivateObjectDir,
		PublicSearchPaths: cfg.PublicObjectSearchPaths,
	}
	hostHandlers := &hosts.Handlers{Service: &hosts.Service{DB: db}, Uploads: uploadService}
	app.Get("/api/hosts/me", requireAuth, hostHandlers.GetMe)
	app.Put("/api/hosts/me", requireAuth, hostHandlers.UpdateMe)
	app.Put("/api/host-pictures", requireAuth, hostHandlers.SetPicture)

	uploadHandlers := &uploads.Handlers{Service: uploadService}
	app.Post("/api/objects/upload", requireAuth, uploadHandlers.GetUploadURL)
	app.Get("/objects/*", uploadHandlers.ServeObject)

	return app, db, rdb, nil
}

// dbPinger adapts the GORM connection to the health check. A nil db reports
// as disconnected.
func dbPinger(db *gorm.DB) health.DBPinger {
	if db == nil {
		return nil
	}
	return pingFunc(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
}

type pingFunc func() error

func (f pingFunc) Ping() error { return f() }

// Handler returns an http.Handler so the app can run behind a serverless
// adapter as well as a plain listener.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
