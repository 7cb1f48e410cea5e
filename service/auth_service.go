package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"optinet-backend/auth"
	"optinet-backend/models"
	"optinet-backend/notify"
	"optinet-backend/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced when setting a new password.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrServerMisconfigured is returned when signing secrets are absent.
	ErrServerMisconfigured = errors.New("server misconfigured")
	// ErrUserNotFound is returned when a token references a deleted user.
	ErrUserNotFound = errors.New("user not found")
	// ErrResetTokenInvalid is returned for unknown or expired reset tokens.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
	// ErrPasswordTooShort is returned when a new password is below the minimum.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrMissingCredentials is returned when email or password is absent.
	ErrMissingCredentials = errors.New("email and password are required")
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error)
}

// EmailSender dispatches an HTML email with an optional PDF attachment.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, attachmentName string) error
}

// AuthService handles login, token verification, refresh rotation and the
// password reset flow.
type AuthService struct {
	users     UserStore
	tokens    *auth.TokenManager
	mailer    EmailSender
	clientURL string
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

// AuthWithUserStore sets the user store
func AuthWithUserStore(users UserStore) AuthServiceOption {
	return func(s *AuthService) {
		s.users = users
	}
}

// AuthWithTokenManager sets the token manager
func AuthWithTokenManager(tokens *auth.TokenManager) AuthServiceOption {
	return func(s *AuthService) {
		s.tokens = tokens
	}
}

// AuthWithMailer sets the email sender used for password reset mail
func AuthWithMailer(mailer EmailSender) AuthServiceOption {
	return func(s *AuthService) {
		s.mailer = mailer
	}
}

// AuthWithClientURL sets the public site URL embedded in reset links
func AuthWithClientURL(url string) AuthServiceOption {
	return func(s *AuthService) {
		s.clientURL = url
	}
}

// NewAuthService creates a new auth service
func NewAuthService(opts ...AuthServiceOption) *AuthService {
	s := &AuthService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult carries the authenticated user and issued tokens. The
// refresh token is empty when no rotation secret is configured.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Login validates the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	if s.tokens == nil || !s.tokens.Configured() {
		return nil, ErrServerMisconfigured
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Verify validates an access token and loads the referenced user.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*models.User, error) {
	if s.tokens == nil || !s.tokens.Configured() {
		return nil, ErrServerMisconfigured
	}

	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// Refresh validates a refresh token and rotates the pair: a new access
// token and a new refresh token are issued together.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if s.tokens == nil || !s.tokens.RefreshEnabled() {
		return nil, ErrServerMisconfigured
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*LoginResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{User: user, AccessToken: accessToken}

	if s.tokens.RefreshEnabled() {
		refreshToken, err := s.tokens.GenerateRefreshToken(user.ID.String(), user.Email)
		if err != nil {
			return nil, err
		}
		result.RefreshToken = refreshToken
	}

	return result, nil
}

// ForgotPassword stores a random reset token with a 1-hour expiry and
// dispatches the reset email. When the account does not exist it returns
// nil all the same, so callers always answer with a generic success
// message. An email dispatch failure is returned without reverting the
// stored token.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return ErrMissingCredentials
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	token := hex.EncodeToString(buf)

	err := s.users.SetResetToken(ctx, email, token, time.Now().Add(time.Hour))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Anti-enumeration: report success for unknown accounts.
			return nil
		}
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, token)
	body, err := notify.RenderResetEmail(user.Name, resetURL)
	if err != nil {
		return err
	}

	if s.mailer == nil {
		return fmt.Errorf("mailer not configured")
	}
	return s.mailer.Send(ctx, user.Email, "Password Reset", body, nil, "")
}

// ResetPassword replaces the password for the account whose stored,
// non-expired token matches. The hash swap and reset-field clear happen in
// a single conditional update.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.ResetPasswordByToken(ctx, token, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	return nil
}
