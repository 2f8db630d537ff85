package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"findus-backend/internal/auth"
	"findus-backend/internal/config"
	"findus-backend/internal/database"
	"findus-backend/internal/health"
	"findus-backend/internal/listings"
	"findus-backend/internal/middleware"
	"findus-backend/internal/profiles"
	"findus-backend/internal/reviews"
	"findus-backend/internal/saved"
	"findus-backend/internal/uploads"
)

// CreateApp builds the Fiber app with production dependencies: Postgres via
// DATABASE_URL and Redis via REDIS_URL.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redis.NewClient(opt)

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

	return New(cfg, db, rdb), db, rdb, nil
}

// New wires the app around explicit dependencies (tests inject in-memory
// SQLite and miniredis here).
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLSuffix,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.SessionWithClient(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	healthHandlers := &health.Handlers{Rdb: rdb, DB: gormPinger(db)}
	app.Get("/health/json", healthHandlers.JSON)

	authService := &auth.Service{DB: db}
	authHandlers := &auth.Handlers{Service: authService, Rdb: rdb, Config: sessionCfg}
	app.Post("/", authHandlers.RegisterCustomer)
	app.Post("/register", authHandlers.RegisterCraftsman)
	app.Post("/signin", authHandlers.SignIn)
	app.Get("/logout", authHandlers.Logout)
	app.Post("/change-password", middleware.RequireAuth(), authHandlers.ChangePassword)

	listingsService := &listings.Service{DB: db}
	listingsHandlers := &listings.Handlers{Service: listingsService}
	app.Get("/customer-dashboard", middleware.RequireCustomer(), listingsHandlers.CustomerDashboard)
	app.Post("/save-location", middleware.RequireCustomer(), listingsHandlers.SaveLocation)
	app.Get("/service/:id", middleware.RequireAuth(), listingsHandlers.ServiceDetail)
	app.Get("/craftsman-dashboard", middleware.RequireCraftsman(), listingsHandlers.CraftsmanDashboard)
	app.Post("/craftsman-dashboard", middleware.RequireCraftsman(), listingsHandlers.SaveService)

	reviewService := &reviews.Service{DB: db}
	reviewHandlers := &reviews.Handlers{Service: reviewService}
	app.Post("/service/:id/reviews", middleware.RequireCustomer(), reviewHandlers.CreateReview)

	savedService := &saved.Service{DB: db}
	savedHandlers := &saved.Handlers{Service: savedService}
	app.Get("/saved-services", middleware.RequireCustomer(), savedHandlers.ListSaved)
	app.Post("/save-service/:id", middleware.RequireCustomer(), savedHandlers.SaveService)
	app.Post("/unsave-service/:id", middleware.RequireCustomer(), savedHandlers.UnsaveService)

	profileService := &profiles.Service{DB: db}
	profileHandlers := &profiles.Handlers{Service: profileService, Listings: listingsService}
	app.Get("/customer-profile", middleware.RequireCustomer(), profileHandlers.CustomerProfile)
	app.Put("/customer-profile", middleware.RequireCustomer(), profileHandlers.UpdateCustomerProfile)
	app.Get("/craftsman-profile", middleware.RequireCraftsman(), profileHandlers.CraftsmanProfile)
	app.Put("/craftsman-profile", middleware.RequireCraftsman(), profileHandlers.UpdateCraftsmanProfile)
	app.Get("/craftsman/:id", profileHandlers.PublicCraftsman)

	storageClient := &uploads.HTTPClient{
		BaseURL:   cfg.SupabaseURL,
		SecretKey: cfg.SupabaseSecretKey,
	}
	uploadService := &uploads.Service{Client: storageClient, SupabaseURL: cfg.SupabaseURL}
	uploadHandlers := &uploads.Handlers{Service: uploadService}
	uploadGroup := app.Group("/uploads", middleware.RequireCraftsman())
	uploadGroup.Post("/service-image", uploadHandlers.UploadServiceImage)
	uploadGroup.Post("/profile-photo", uploadHandlers.UploadProfilePhoto)

	return app
}

// gormPinger adapts *gorm.DB to the health check's DBPinger.
func gormPinger(db *gorm.DB) health.DBPinger {
	if db == nil {
		return nil
	}
	return pingerFunc(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
}

type pingerFunc func() error

func (f pingerFunc) Ping() error { return f() }
