package app

import (
	"net/http"

	"equitymd-backend/internal/auth"
	"equitymd-backend/internal/config"
	"equitymd-backend/internal/dashboard"
	"equitymd-backend/internal/database"
	"equitymd-backend/internal/deals"
	"equitymd-backend/internal/drafts"
	"equitymd-backend/internal/emails"
	"equitymd-backend/internal/health"
	"equitymd-backend/internal/middleware"
	"equitymd-backend/internal/models"
	"equitymd-backend/internal/payments"
	"equitymd-backend/internal/storage"
	"equitymd-backend/internal/submit"
	"equitymd-backend/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"gorm.io/gorm"
)

// DealImagesBucket is the Supabase storage bucket for deal gallery uploads.
const DealImagesBucket = "deal-images"

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               int(cfg.MaxImageSizeBytes) * (cfg.MaxImagesPerDeal + 1),
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Stripe webhook mounted before the session middleware so the raw body
	// and signature header reach the handler untouched.
	stripeWebhook := &payments.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

	// Session (Redis); the client is shared with the health marker and drafts
	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		stripeWebhook.DB = db
	}

	// --- Health (no auth) ---
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             dbPinger(db),
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	mailer := &emails.ResendClient{APIKey: cfg.ResendAPIKey, MailFrom: cfg.MailFrom}

	// --- Auth (no auth middleware) ---
	var finder auth.ProfileFinder
	if db != nil {
		finder = &auth.GormProfileFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		DB:       db,
		Finder:   finder,
		Rdb:      rdb,
		Config:   sessionCfg,
		Notifier: &emails.AdminNotifier{Sender: mailer, AdminEmail: cfg.AdminEmail},
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/signup", authHandlers.Signup)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected modules ---
	if db != nil && rdb != nil {
		draftStore := drafts.NewStore(rdb)
		uploader := &storage.SupabaseClient{
			BaseURL:   cfg.SupabaseURL,
			SecretKey: cfg.SupabaseSecretKey,
		}
		publisher := &submit.Orchestrator{
			DB:      db,
			Storage: uploader,
			Bucket:  DealImagesBucket,
		}
		registry := wizard.NewRegistry(cfg.SessionIdleWindow)

		wizardHandlers := &deals.WizardHandlers{
			Registry:         registry,
			Drafts:           draftStore,
			Publisher:        publisher,
			MaxImages:        cfg.MaxImagesPerDeal,
			MaxImageSize:     cfg.MaxImageSizeBytes,
			AutoSaveInterval: cfg.AutoSaveInterval,
		}
		wizardGroup := app.Group("/api/v1/wizard",
			middleware.RequireAuth(),
			middleware.RequireRole(models.RoleSyndicator, models.RoleAdmin))
		wizardGroup.Post("/start", wizardHandlers.Start)
		wizardGroup.Get("/state", wizardHandlers.State)
		wizardGroup.Patch("/fields", wizardHandlers.SetFields)
		wizardGroup.Post("/highlights", wizardHandlers.Highlights)
		wizardGroup.Post("/advance", wizardHandlers.Advance)
		wizardGroup.Post("/retreat", wizardHandlers.Retreat)
		wizardGroup.Post("/jump", wizardHandlers.Jump)
		wizardGroup.Post("/images", wizardHandlers.UploadImages)
		wizardGroup.Delete("/images/:index", wizardHandlers.RemoveImage)
		wizardGroup.Post("/images/reorder", wizardHandlers.ReorderImage)
		wizardGroup.Post("/images/cover", wizardHandlers.SetCover)
		wizardGroup.Post("/save", wizardHandlers.Save)
		wizardGroup.Get("/video-preview", wizardHandlers.VideoPreview)
		wizardGroup.Post("/publish", wizardHandlers.Publish)

		// Deals module (reads)
		dealsService := &deals.Service{DB: db}
		dealsHandlers := &deals.Handlers{Service: dealsService}
		app.Get("/api/v1/deals/active", dealsHandlers.GetAllActiveDeals)
		app.Get("/api/v1/deals/:deal_id", dealsHandlers.GetDeal)
		app.Get("/api/v1/my-deals", middleware.RequireAuth(), dealsHandlers.GetMyDeals)

		// Dashboards
		dashService := &dashboard.Service{DB: db}
		dashHandlers := &dashboard.Handlers{Service: dashService}
		dashGroup := app.Group("/api/v1/dashboard", middleware.RequireAuth())
		dashGroup.Get("/syndicator", middleware.RequireRole(models.RoleSyndicator, models.RoleAdmin), dashHandlers.SyndicatorStats)
		dashGroup.Get("/investor", dashHandlers.InvestorStats)

		// Emails
		emailHandlers := &emails.Handlers{Sender: mailer, Config: cfg}
		app.Post("/api/v1/emails/send", middleware.RequireAuth(), emailHandlers.Send)

		// Payments (Stripe billing actions)
		paymentHandlers := &payments.Handlers{
			DB:      db,
			Gateway: payments.NewLiveGateway(cfg.StripeSecretKey),
		}
		app.Post("/api/v1/payments", middleware.RequireAuth(), paymentHandlers.Action)
	}

	return app, nil
}

// dbPinger adapts *gorm.DB to the health check interface; nil stays nil.
func dbPinger(db *gorm.DB) health.DBPinger {
	if db == nil {
		return nil
	}
	return gormPinger{db}
}

type gormPinger struct{ db *gorm.DB }

func (p gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Handler returns the Fiber app as a net/http handler.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
