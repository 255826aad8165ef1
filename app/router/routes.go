// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/app/dto"
	"github.com/SwipeCast-Vellena/vellena-backend/app/handlers"
	"github.com/SwipeCast-Vellena/vellena-backend/app/middleware"
	"github.com/SwipeCast-Vellena/vellena-backend/config"
	_ "github.com/SwipeCast-Vellena/vellena-backend/docs"
	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app             *fiber.App
	cfg             *config.ProductionConfig
	authMiddleware  *middleware.AuthMiddleware
	authHandler     handlers.AuthHandlerInterface
	profileHandler  handlers.ProfileHandlerInterface
	campaignHandler handlers.CampaignHandlerInterface
	appHandler      handlers.ApplicationHandlerInterface
	matchHandler    handlers.MatchHandlerInterface
	favoriteHandler handlers.FavoriteHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	authMiddleware *middleware.AuthMiddleware,
	authHandler handlers.AuthHandlerInterface,
	profileHandler handlers.ProfileHandlerInterface,
	campaignHandler handlers.CampaignHandlerInterface,
	appHandler handlers.ApplicationHandlerInterface,
	matchHandler handlers.MatchHandlerInterface,
	favoriteHandler handlers.FavoriteHandlerInterface,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Vellena API",
		ServerHeader: "Vellena",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:             app,
		cfg:             cfg,
		authMiddleware:  authMiddleware,
		authHandler:     authHandler,
		profileHandler:  profileHandler,
		campaignHandler: campaignHandler,
		appHandler:      appHandler,
		matchHandler:    matchHandler,
		favoriteHandler: favoriteHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		r.app.Get("/swagger", r.serveSwaggerUI)
		log.Println("API documentation enabled for development")
	}

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")

	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signup", r.authHandler.Signup)
	auth.Post("/login", r.authHandler.Login)
	auth.Post("/refresh", r.authHandler.Refresh)
	auth.Post("/logout", r.authHandler.Logout)
	auth.Get("/captcha", r.authHandler.GetCaptcha)

	authenticated := api.Group("", r.authMiddleware.Authenticate())

	// Profiles
	profiles := authenticated.Group("/profiles")
	profiles.Put("/model", r.profileHandler.UpsertModelProfile, r.authMiddleware.RequireRole(models.AccountRoleModel))
	profiles.Get("/model", r.profileHandler.GetModelProfile)
	profiles.Put("/agency", r.profileHandler.UpsertAgencyProfile, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	profiles.Get("/agency", r.profileHandler.GetAgencyProfile)
	profiles.Get("/models", r.profileHandler.ListModelProfiles, r.authMiddleware.RequireRole(models.AccountRoleAgency))

	// Campaigns
	campaigns := authenticated.Group("/campaigns")
	campaigns.Post("", r.campaignHandler.CreateCampaign, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	campaigns.Get("", r.campaignHandler.ListCampaigns)
	campaigns.Get("/mine", r.campaignHandler.ListOwnCampaigns, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	campaigns.Get("/:id", r.campaignHandler.GetCampaign)
	campaigns.Patch("/:id", r.campaignHandler.UpdateCampaign, r.authMiddleware.RequireRole(models.AccountRoleAgency))

	// Applications
	campaigns.Post("/:id/apply", r.appHandler.Apply, r.authMiddleware.RequireRole(models.AccountRoleModel))
	campaigns.Get("/:id/match-status", r.appHandler.GetMatchStatus, r.authMiddleware.RequireRole(models.AccountRoleModel))

	// Matches
	matches := authenticated.Group("/matches")
	matches.Get("/pending", r.matchHandler.ListPendingMatches, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	matches.Get("/approved", r.matchHandler.ListApprovedMatches)
	matches.Get("/approved/export", r.matchHandler.ExportApprovedMatches, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	matches.Post("/:campaign_id/:model_profile_id/approve", r.matchHandler.ApproveMatch, r.authMiddleware.RequireRole(models.AccountRoleAgency))

	// Favorites
	favorites := authenticated.Group("/favorites")
	favorites.Get("", r.favoriteHandler.ListFavorites, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	favorites.Get("/of-me", r.favoriteHandler.ListFavoritedBy, r.authMiddleware.RequireRole(models.AccountRoleModel))
	favorites.Put("/:model_profile_id", r.favoriteHandler.Favorite, r.authMiddleware.RequireRole(models.AccountRoleAgency))
	favorites.Delete("/:model_profile_id", r.favoriteHandler.Unfavorite, r.authMiddleware.RequireRole(models.AccountRoleAgency))

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
		}))
	}

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "vellena-api",
		},
	})
}

// Serve Swagger UI HTML page
func (r *FiberRouter) serveSwaggerUI(c fiber.Ctx) error {
	htmlContent := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Vellena API - Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
    <style>
        body {
            margin:0;
            background: #fafafa;
        }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/v1/swagger.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis],
                validatorUrl: null
            });
        };
    </script>
</body>
</html>`

	c.Set("Content-Type", "text/html")
	return c.SendString(htmlContent)
}

// Serve Swagger JSON specification
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	swaggerData, err := os.ReadFile("docs/swagger.json")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(swaggerData)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
