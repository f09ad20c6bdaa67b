package middleware

import (
	"strings"

	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/auth"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireUser admits any request carrying a valid bearer token.
func RequireUser(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := authenticate(c, tokens)
			if err != nil {
				return err
			}
			c.Set(userIDKey, claims.UserID)
			c.Set(roleKey, claims.Role)
			return next(c)
		}
	}
}

// RequireAdmin additionally demands the admin role claim.
func RequireAdmin(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := authenticate(c, tokens)
			if err != nil {
				return err
			}
			if !claims.IsAdmin() {
				return apperrors.Forbidden("Admin access required")
			}
			c.Set(userIDKey, claims.UserID)
			c.Set(roleKey, claims.Role)
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func authenticate(c echo.Context, tokens TokenParser) (*auth.Claims, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	claims, err := tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid or expired token")
	}
	return claims, nil
}
