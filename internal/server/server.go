package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/handler"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

const serviceName = "reservation-service"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Log           *logger.Logger
	DB            Pinger
	Tokens        middleware.TokenParser
	Bookings      service.BookingService
	Notifications service.NotificationService
	Users         service.UserService
	Location      *time.Location

	// AuthLimiter throttles the register and login endpoints. Nil disables it.
	AuthLimiter    *middleware.LimiterStore
	RateLimitStats middleware.RateLimitStats
}

// New builds the HTTP surface. CORS runs before everything else so error
// responses carry the headers too.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.NewErrorHandler(d.Log)
	e.Validator = middleware.NewRequestValidator()

	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders: []string{"X-Unread-Count", "Retry-After", echo.HeaderXRequestID},
	}))
	e.Use(echoMw.RequestID())
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			d.Log.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", health(d.DB))

	api := e.Group("/api")

	authGroup := api.Group("/auth", middleware.RateLimit(middleware.RateLimitConfig{
		Store: d.AuthLimiter,
		Stats: d.RateLimitStats,
	}))
	handler.NewAuthHandler(d.Users).RegisterRoutes(authGroup)

	requireUser := middleware.RequireUser(d.Tokens)
	handler.NewBookingHandler(d.Bookings, d.Location).RegisterRoutes(api.Group("/bookings", requireUser))
	handler.NewNotificationHandler(d.Notifications).RegisterRoutes(api.Group("/notifications", requireUser))
	handler.NewAdminHandler(d.Bookings, d.Location).RegisterRoutes(api.Group("/admin", middleware.RequireAdmin(d.Tokens)))

	return e
}

func health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := map[string]string{"status": "ok", "service": serviceName}
		if db == nil {
			return c.JSON(http.StatusOK, status)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["database"] = "ok"
		return c.JSON(http.StatusOK, status)
	}
}
