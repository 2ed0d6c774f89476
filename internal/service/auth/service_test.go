package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/jwt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testPassword   = "password123"
)

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// fakeJWTRepo mirrors the transactional store: RotateRefreshToken is
// all-or-nothing, so a failure mutates nothing.
type fakeJWTRepo struct {
	tokens     map[string]bool // token -> revoked
	rotations  int
	failRotate bool
}

func newFakeJWTRepo() *fakeJWTRepo {
	return &fakeJWTRepo{tokens: make(map[string]bool)}
}

func (f *fakeJWTRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	f.tokens[token] = false
	return nil
}

func (f *fakeJWTRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	revoked, ok := f.tokens[token]
	if !ok {
		return false, errors.New("token not found")
	}
	return revoked, nil
}

func (f *fakeJWTRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	if _, ok := f.tokens[token]; ok {
		f.tokens[token] = true
	}
	return nil
}

func (f *fakeJWTRepo) RotateRefreshToken(ctx context.Context, oldToken string, userID string, newToken string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	f.rotations++
	if f.failRotate {
		return errors.New("token store unavailable")
	}
	f.tokens[oldToken] = true
	f.tokens[newToken] = false
	return nil
}

func newTestAuthService(t *testing.T, jwtRepo *fakeJWTRepo) auth.AuthService {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := &fakeUserRepo{users: []user.User{{
		ID:           "user-1",
		CompanyID:    "company-1",
		Email:        "hr@example.com",
		PasswordHash: string(hashed),
		IsAdmin:      true,
	}}}
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	return NewAuthService(userRepo, jwtService, jwtRepo)
}

func testSession() auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}
}

func TestAuthService_Login_Success(t *testing.T) {
	jwtRepo := newFakeJWTRepo()
	svc := newTestAuthService(t, jwtRepo)

	response, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "hr@example.com",
		Password: testPassword,
	}, testSession())

	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.Greater(t, response.AccessExpiresAt, int64(0))
	revoked, err := jwtRepo.IsRefreshTokenRevoked(context.Background(), response.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService(t, newFakeJWTRepo())

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), auth.LoginRequest{
			Email:    "hr@example.com",
			Password: "not-the-password",
		}, testSession())
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), auth.LoginRequest{
			Email:    "nobody@example.com",
			Password: testPassword,
		}, testSession())
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	jwtRepo := newFakeJWTRepo()
	svc := newTestAuthService(t, jwtRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "hr@example.com", Password: testPassword}, testSession())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.RefreshToken}, testSession())

	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, 1, jwtRepo.rotations)

	// presented token is now revoked, replacement is live
	revoked, err := jwtRepo.IsRefreshTokenRevoked(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = jwtRepo.IsRefreshTokenRevoked(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_Refresh_FailedRotationKeepsPresentedToken(t *testing.T) {
	jwtRepo := newFakeJWTRepo()
	svc := newTestAuthService(t, jwtRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "hr@example.com", Password: testPassword}, testSession())
	require.NoError(t, err)

	jwtRepo.failRotate = true
	_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.RefreshToken}, testSession())

	require.Error(t, err)
	// rotation is all-or-nothing: the presented token survives the failure
	revoked, revErr := jwtRepo.IsRefreshTokenRevoked(ctx, login.RefreshToken)
	require.NoError(t, revErr)
	assert.False(t, revoked)
	assert.Len(t, jwtRepo.tokens, 1)

	// and it still works once the store recovers
	jwtRepo.failRotate = false
	refreshed, err := svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.RefreshToken}, testSession())
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthService_Refresh_RejectsRevokedToken(t *testing.T) {
	jwtRepo := newFakeJWTRepo()
	svc := newTestAuthService(t, jwtRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "hr@example.com", Password: testPassword}, testSession())
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, auth.RefreshRequest{RefreshToken: login.RefreshToken}, testSession())

	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_Refresh_RejectsGarbageToken(t *testing.T) {
	svc := newTestAuthService(t, newFakeJWTRepo())

	_, err := svc.Refresh(context.Background(), auth.RefreshRequest{RefreshToken: "not-a-jwt"}, testSession())

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	jwtRepo := newFakeJWTRepo()
	svc := newTestAuthService(t, jwtRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "hr@example.com", Password: testPassword}, testSession())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	revoked, err := jwtRepo.IsRefreshTokenRevoked(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)
}
