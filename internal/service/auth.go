package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/launchdev/internal/apperror"
	"github.com/iliyamo/launchdev/internal/queue"
	"github.com/iliyamo/launchdev/internal/repository"
	"github.com/iliyamo/launchdev/internal/utils"
)

const (
	msgMissingCredentials = "Missing email/password"
	msgInvalidCredentials = "Invalid credentials"
	msgNoToken            = "No token provided"
	msgInvalidToken       = "Invalid or expired token"
	msgServerError        = "Server error"
)

// SessionTTL is the lifetime of a session token and of its cookie.
const SessionTTL = time.Hour

// SignupInput carries the signup form.  Name is optional.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// AuthConfig holds the signing and hashing parameters of AuthService.
type AuthConfig struct {
	Secret     string
	BcryptCost int
}

// AuthService registers users, checks credentials and issues and verifies
// session tokens.
type AuthService struct {
	users  UserStore
	events *Events
	cfg    AuthConfig
	log    *slog.Logger
	now    func() time.Time
}

func NewAuthService(users UserStore, events *Events, cfg AuthConfig, log *slog.Logger) *AuthService {
	return &AuthService{users: users, events: events, cfg: cfg, log: log, now: time.Now}
}

// Signup hashes the password and inserts an unpaid user without a plan.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return 0, apperror.NewValidationError(msgMissingCredentials)
	}
	var name *string
	if n := strings.TrimSpace(in.Name); n != "" {
		name = &n
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return 0, apperror.NewInternalError(msgServerError, err)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	id, err := s.users.Create(ctx, email, hash, name)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, apperror.NewConflictError("Email already registered", err)
		}
		return 0, apperror.NewInternalError(msgServerError, err)
	}

	s.events.emit(ctx, queue.UserSignedUpQueue, queue.UserSignedUpEvent{
		UserID:     id,
		Email:      email,
		SignedUpAt: s.now().UTC().Format(time.RFC3339),
	})
	return id, nil
}

// Login checks the password and returns a signed session token.  Unknown
// emails and wrong passwords produce the same error and take comparable time.
func (s *AuthService) Login(ctx context.Context, email, password string) (utils.SessionToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return utils.SessionToken{}, apperror.NewValidationError(msgMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.BurnPasswordCheck(password, s.cfg.BcryptCost)
			return utils.SessionToken{}, apperror.NewAuthError(msgInvalidCredentials, err)
		}
		return utils.SessionToken{}, apperror.NewInternalError(msgServerError, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return utils.SessionToken{}, apperror.NewAuthError(msgInvalidCredentials, nil)
	}

	tok, err := utils.NewSessionToken(s.cfg.Secret, u.ID, u.Email, s.now(), SessionTTL)
	if err != nil {
		return utils.SessionToken{}, apperror.NewInternalError(msgServerError, err)
	}
	return tok, nil
}

// VerifySession checks the signature and expiry of a raw session token.
func (s *AuthService) VerifySession(raw string) (Identity, error) {
	claims, err := utils.ParseSessionToken(s.cfg.Secret, raw, s.now())
	if err != nil {
		if errors.Is(err, utils.ErrTokenMissing) {
			return Identity{}, apperror.NewAuthError(msgNoToken, err)
		}
		return Identity{}, apperror.NewAuthError(msgInvalidToken, err)
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
