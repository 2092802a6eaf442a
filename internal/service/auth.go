package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type AuthService struct {
	Users  UserRepo
	Tokens *tokens.Service
	Events EventPublisher
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		l.Warn("register_error", "status", 400, "reason", "missing fields", "fields", missing)
		return nil, apperr.ErrMissingFields.With(missing...)
	}

	_, err := s.Users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		l.Warn("register_error", "status", 400, "reason", "user already exists")
		return nil, apperr.ErrEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		l.Error("register_error", "status", 500, "reason", "lookup failed", "error", err)
		return nil, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, apperr.Internal(err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: pwHash}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 400, "reason", "user already exists")
			return nil, apperr.ErrEmailTaken
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	token, exp, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), "user_registered", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	l.Info("user_registered", "user_id", user.ID)

	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// Login does not say whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		l.Warn("login failed", "status", 401, "reason", "missing credentials")
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login failed", "status", 401, "reason", "invalid email or password")
			return nil, apperr.ErrInvalidCredentials
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}

	if !s.MatchPassword(user, password) {
		l.Warn("login failed", "status", 401, "reason", "invalid email or password")
		return nil, apperr.ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID.String(), "user_logged_in", map[string]any{
		"user_id": user.ID,
	})

	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// ResolveUser verifies token and loads its user. A token for a user that no
// longer exists is reported as invalid.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.ErrTokenInvalid.Wrap(errors.New("user no longer exists"))
		}
		return nil, apperr.Internal(fmt.Errorf("lookup user: %w", err))
	}
	return user, nil
}

func (s *AuthService) MatchPassword(user *models.User, plaintext string) bool {
	if user == nil {
		return false
	}
	return hash.CheckPassword(user.PasswordHash, plaintext)
}
