package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"optinet-backend/auth"
	"optinet-backend/models"
	"optinet-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	return nil
}

func (s *fakeUserStore) ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error) {
	for _, u := range s.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpires != nil && u.ResetTokenExpires.After(time.Now()) {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpires = nil
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeMailer struct {
	sent    []sentMail
	failure error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, attachmentName string) error {
	if m.failure != nil {
		return m.failure
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         models.RoleAdmin,
	}
}

func testAuthService(store UserStore, mailer EmailSender) *AuthService {
	tokens := auth.NewTokenManager([]byte("access-secret"), []byte("refresh-secret"), time.Hour, time.Hour)
	return NewAuthService(
		AuthWithUserStore(store),
		AuthWithTokenManager(tokens),
		AuthWithMailer(mailer),
		AuthWithClientURL("https://optinet.example.com"),
	)
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	svc := testAuthService(newFakeUserStore(user), &fakeMailer{})

	result, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestLoginUnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	svc := testAuthService(newFakeUserStore(user), &fakeMailer{})

	_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "password123"})
	_, errWrong := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "wrong"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
}

func TestLoginMissingCredentials(t *testing.T) {
	svc := testAuthService(newFakeUserStore(), &fakeMailer{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Password: "password123"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoginUnconfiguredSecrets(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	svc := NewAuthService(
		AuthWithUserStore(newFakeUserStore(user)),
		AuthWithTokenManager(auth.NewTokenManager(nil, nil, 0, 0)),
	)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrServerMisconfigured)
}

func TestVerifyRoundTrip(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	svc := testAuthService(newFakeUserStore(user), &fakeMailer{})

	result, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestVerifyDeletedUser(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	store := newFakeUserStore(user)
	svc := testAuthService(store, &fakeMailer{})

	result, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)

	delete(store.users, user.ID)

	_, err = svc.Verify(context.Background(), result.AccessToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefreshRotatesPair(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	svc := testAuthService(newFakeUserStore(user), &fakeMailer{})

	login, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	svc := testAuthService(newFakeUserStore(user), &fakeMailer{})

	login, err := svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	mailer := &fakeMailer{}
	svc := testAuthService(newFakeUserStore(), mailer)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestForgotPasswordStoresTokenAndMails(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	store := newFakeUserStore(user)
	mailer := &fakeMailer{}
	svc := testAuthService(store, mailer)

	err := svc.ForgotPassword(context.Background(), "admin@example.com")
	require.NoError(t, err)

	require.NotNil(t, user.ResetToken)
	assert.Len(t, *user.ResetToken, 64)
	require.NotNil(t, user.ResetTokenExpires)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *user.ResetTokenExpires, time.Minute)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "admin@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, *user.ResetToken)
}

func TestResetPasswordFlow(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	store := newFakeUserStore(user)
	svc := testAuthService(store, &fakeMailer{})

	require.NoError(t, svc.ForgotPassword(context.Background(), "admin@example.com"))
	token := *user.ResetToken

	require.NoError(t, svc.ResetPassword(context.Background(), token, "newpassword"))

	// Token is single-use and the new password works.
	assert.Nil(t, user.ResetToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpassword")))

	err := svc.ResetPassword(context.Background(), token, "anotherpassword")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	user := testUser(t, "admin@example.com", "password123")
	token := "expired-token"
	expires := time.Now().Add(-time.Minute)
	user.ResetToken = &token
	user.ResetTokenExpires = &expires

	svc := testAuthService(newFakeUserStore(user), &fakeMailer{})

	err := svc.ResetPassword(context.Background(), token, "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordTooShort(t *testing.T) {
	svc := testAuthService(newFakeUserStore(), &fakeMailer{})

	err := svc.ResetPassword(context.Background(), "some-token", "abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
