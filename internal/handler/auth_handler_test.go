package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/dto"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/service"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Handler_Success(t *testing.T) {
	users := &mockUserService{
		registerFn: func(ctx context.Context, email, password string) (*service.AuthResult, error) {
			return &service.AuthResult{
				User:  &models.User{ID: "user-1", Email: email, Role: models.RoleUser},
				Token: "token-1",
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/register", `{"email":"a@b.com","password":"secret1"}`, "")

	require.NoError(t, NewAuthHandler(users).Register(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, "a@b.com", resp.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_Handler_ShortPassword(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":"a@b.com","password":"123"}`, "")

	err := NewAuthHandler(&mockUserService{}).Register(c)

	appErr := requireKind(t, err, apperrors.KindValidation)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "password", appErr.Details[0].Field)
}

func TestRegister_Handler_BadEmail(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"email":"nope","password":"secret1"}`, "")

	err := NewAuthHandler(&mockUserService{}).Register(c)

	appErr := requireKind(t, err, apperrors.KindValidation)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "Invalid email format", appErr.Details[0].Message)
}

func TestLogin_Handler_InvalidCredentials(t *testing.T) {
	users := &mockUserService{
		loginFn: func(ctx context.Context, email, password string) (*service.AuthResult, error) {
			return nil, apperrors.Unauthenticated("Invalid email or password")
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"secret1"}`, "")

	err := NewAuthHandler(users).Login(c)

	requireKind(t, err, apperrors.KindAuthentication)
}

func TestAdminLogin_Handler(t *testing.T) {
	users := &mockUserService{
		adminLoginFn: func(ctx context.Context, email, password string) (string, error) {
			assert.Equal(t, "admin@booking.com", email)
			assert.Equal(t, "admin123", password)
			return "admin-token", nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/auth/admin/login", `{"email":"admin@booking.com","password":"admin123"}`, "")

	require.NoError(t, NewAuthHandler(users).AdminLogin(c))

	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin-token", resp.Token)
}

func TestAdminLogin_Handler_MissingPassword(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/api/auth/admin/login", `{"email":"admin@booking.com"}`, "")

	err := NewAuthHandler(&mockUserService{}).AdminLogin(c)

	requireKind(t, err, apperrors.KindValidation)
}

func TestRegister_Handler_PasswordTooLong(t *testing.T) {
	body := `{"email":"a@b.com","password":"` + strings.Repeat("x", 80) + `"}`
	c, _ := newContext(http.MethodPost, "/api/auth/register", body, "")

	err := NewAuthHandler(&mockUserService{}).Register(c)

	appErr := requireKind(t, err, apperrors.KindValidation)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "password", appErr.Details[0].Field)
	assert.Equal(t, "password must be at most 72 characters", appErr.Details[0].Message)
}
