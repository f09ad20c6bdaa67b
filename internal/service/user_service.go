package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/booking-microservice/reservation-service/internal/models"
	"github.com/Eursukkul/booking-microservice/reservation-service/internal/repository"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/apperrors"
	"github.com/Eursukkul/booking-microservice/reservation-service/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints bearer tokens for authenticated accounts.
type TokenIssuer interface {
	IssueUserToken(userID string) (string, error)
	IssueAdminToken(adminID string) (string, error)
}

type AuthResult struct {
	User  *models.User
	Token string
}

type UserService interface {
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	log      *logger.Logger
	hashCost int
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, log *logger.Logger) UserService {
	return &userService{
		users:    users,
		tokens:   tokens,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *userService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to register user", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.Validation("Password is too long",
			apperrors.FieldIssue{Field: "password", Message: "password must be at most 72 bytes"})
	}
	if err != nil {
		return nil, apperrors.Unexpected("Failed to register user", err)
	}

	user := &models.User{Email: email, Password: string(hash), Role: models.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("User with this email already exists")
		}
		return nil, apperrors.Unexpected("Failed to register user", err)
	}

	token, err := s.tokens.IssueUserToken(user.ID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to generate token", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperrors.Unexpected("Failed to log in", err)
	}
	if user == nil || !passwordMatches(user.Password, password) {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	token, err := s.tokens.IssueUserToken(user.ID)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to generate token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", apperrors.Unexpected("Failed to log in", err)
	}
	if user == nil || user.Role != models.RoleAdmin || !passwordMatches(user.Password, password) {
		s.log.Warn("rejected admin login", "email", email)
		return "", apperrors.Unauthenticated("Invalid admin credentials")
	}

	token, err := s.tokens.IssueAdminToken(user.ID)
	if err != nil {
		s.log.Error("admin token signing failed", "error", err)
		return "", apperrors.Unexpected("Failed to generate token", err)
	}
	return token, nil
}

// EnsureAdmin creates the administrator account, or resets its password when
// the configured one no longer matches. An existing non-admin account with the
// same email is left alone and reported as an error.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up admin account: %w", err)
	}
	if existing != nil && existing.Role != models.RoleAdmin {
		return fmt.Errorf("account %s exists without the admin role", email)
	}
	if existing != nil && passwordMatches(existing.Password, password) {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if existing != nil {
		if err := s.users.UpdatePassword(ctx, existing.ID, string(hash)); err != nil {
			return fmt.Errorf("update admin password: %w", err)
		}
		s.log.Info("admin password rotated", "user_id", existing.ID)
		return nil
	}

	admin := &models.User{Email: email, Password: string(hash), Role: models.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	s.log.Info("admin account created", "user_id", admin.ID)
	return nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
