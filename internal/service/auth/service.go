package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attrition-backend-go/internal/repository/postgresql"
)

type authServiceImpl struct {
	userRepo   user.UserRepository
	jwtService jwt.Service
	jwtRepo    postgresql.JWTRepository
}

func NewAuthService(userRepo user.UserRepository, jwtService jwt.Service, jwtRepo postgresql.JWTRepository) auth.AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		jwtRepo:    jwtRepo,
	}
}

// Login implements auth.AuthService.
func (s *authServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	usr, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, usr, session)
}

// Refresh implements auth.AuthService. The presented refresh token is
// rotated: revoked and replaced by a fresh pair.
func (s *authServiceImpl) Refresh(ctx context.Context, req auth.RefreshRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userID, err := s.jwtService.DecodeRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := s.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}
	if revoked {
		return auth.TokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrUserNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(usr.ID, usr.Email, usr.CompanyID, usr.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(usr.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Revoke-and-replace runs in one transaction so a failed rotation leaves
	// the presented token usable.
	if err := s.jwtRepo.RotateRefreshToken(ctx, req.RefreshToken, usr.ID, refreshToken, refreshExpiresAt, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, usr user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(usr.ID, usr.Email, usr.CompanyID, usr.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(usr.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.jwtRepo.CreateRefreshToken(ctx, usr.ID, refreshToken, refreshExpiresAt, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
