package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/thejerf/suture/v4"

	"github.com/HSouheill/storefront_backend/cache"
	"github.com/HSouheill/storefront_backend/config"
	"github.com/HSouheill/storefront_backend/controllers"
	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/metrics"
	"github.com/HSouheill/storefront_backend/middleware"
	"github.com/HSouheill/storefront_backend/routes"
	"github.com/HSouheill/storefront_backend/security"
	"github.com/HSouheill/storefront_backend/services"
	"github.com/HSouheill/storefront_backend/websocket"
)

// Stores are the persistence dependencies. Production wires the Mongo
// repositories; tests wire in-memory fakes.
type Stores struct {
	Accounts      services.AccountStore
	Categories    services.CategoryStore
	Users         services.UserStore
	Orders        services.OrderStore
	Notifications services.NotificationStore
	Logs          services.LogStore
	Blog          services.BlogStore
	Tickets       services.TicketStore
	Content       services.ContentStore
	Settings      services.SettingsStore
}

// Externals are the optional outbound integrations. Nil fields disable the
// matching notification channel.
type Externals struct {
	Cache  cache.Store
	FCM    services.FCMSender
	Mailer services.Mailer
	// Health reports whether the database answers; nil always reports healthy.
	Health func() error
}

type app struct {
	echo       *echo.Echo
	hub        *websocket.Hub
	tokens     *security.TokenManager
	background []suture.Service
}

func newApp(cfg *config.Config, st Stores, ext Externals) *app {
	if ext.Cache == nil {
		ext.Cache = cache.NewMemory()
	}

	audit := services.NewAuditLogger(st.Logs)
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	blacklist := security.NewBlacklist(ext.Cache)
	hub := websocket.NewHub()

	channels := []services.Channel{services.NewWebSocketChannel(hub)}
	if push := services.NewPushChannel(ext.FCM); push != nil {
		channels = append(channels, push)
	}
	email := services.NewEmailChannel(ext.Mailer)
	if email != nil {
		channels = append(channels, email)
	}

	carts := services.NewCartService(st.Users, st.Accounts, audit)
	tracking := services.NewTrackingService(st.Users, st.Accounts, st.Notifications, carts)
	logs := services.NewLogService(st.Logs)
	settings := services.NewSettingsService(st.Settings, audit)

	ctrl := &routes.Controllers{
		Auth:          controllers.NewAuthController(services.NewAuthService(st.Users, tokens, blacklist, audit)),
		Accounts:      controllers.NewAccountController(services.NewAccountService(st.Accounts, audit)),
		Categories:    controllers.NewCategoryController(services.NewCategoryService(st.Categories, ext.Cache, audit)),
		Users:         controllers.NewUserController(services.NewUserService(st.Users, audit)),
		Cart:          controllers.NewCartController(carts),
		Orders:        controllers.NewOrderController(services.NewOrderService(st.Orders, st.Users, st.Accounts, audit)),
		Notifications: controllers.NewNotificationController(services.NewNotificationService(st.Notifications, st.Users, st.Settings, carts, audit, channels...)),
		Tracking:      controllers.NewTrackingController(tracking),
		Tickets:       controllers.NewTicketController(services.NewTicketService(st.Tickets, st.Users, email, audit)),
		Blog:          controllers.NewBlogController(services.NewBlogService(st.Blog, audit)),
		Content:       controllers.NewContentController(services.NewContentService(st.Content, audit)),
		Admin: controllers.NewAdminController(
			services.NewDashboardService(st.Accounts, st.Users, st.Orders, st.Tickets),
			logs,
			settings,
		),
		WebSocket: websocket.NewHandler(hub, tracking, cfg.Tracking.Interval, cfg.AllowedOrigins()),
	}

	rateLimiter := middleware.NewRateLimiter()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = controllers.JSONSerializer{}
	e.Validator = controllers.NewValidator()

	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS(cfg.AllowedOrigins()))
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		ConnectSources: cfg.AllowedOrigins(),
		HSTS:           !cfg.IsDevelopment(),
	}))
	e.Use(httpsRedirect())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{http.MethodGet, http.MethodHead}, "/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Storefront backend is running",
			"version": "1.0",
		})
	})
	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		if ext.Health != nil {
			if err := ext.Health(); err != nil {
				logging.Ctx(c.Request().Context()).Error().Err(err).Msg("health check failed")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status":   "unhealthy",
					"database": "unreachable",
					"cache":    cache.Kind(ext.Cache),
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":   "healthy",
			"database": "connected",
			"cache":    cache.Kind(ext.Cache),
		})
	})
	e.GET("/metrics", metrics.Handler())

	routes.SetupRoutes(e, ctrl, routes.Guards{
		JWT:      middleware.JWTMiddleware(tokens, blacklist),
		Activity: middleware.ActivityTracker(st.Users),
	})

	return &app{
		echo:   e,
		hub:    hub,
		tokens: tokens,
		background: []suture.Service{
			hub,
			rateLimiter,
			services.NewLogRetention(st.Logs, st.Settings, time.Hour),
			services.NewPresenceMarker(st.Users, 30*time.Minute, 5*time.Minute),
		},
	}
}

// httpsRedirect sends plain-HTTP requests that came through a TLS-terminating
// proxy to the https origin.
func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(http.StatusMovedPermanently, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
