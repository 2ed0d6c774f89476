package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/database"
)

// JWTRepository persists refresh-token state for the auth surface. Tokens are
// never stored in the clear; every operation works on a digest.
type JWTRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RotateRefreshToken(ctx context.Context, oldToken string, userID string, newToken string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error
}

type jwtRepositoryImpl struct {
	db *database.DB
}

func NewJWTRepository(db *database.DB) JWTRepository {
	return &jwtRepositoryImpl{db: db}
}

// hashToken digests a token with SHA256, base64-encoded for the token_hash column.
func (j *jwtRepositoryImpl) hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (j *jwtRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, j.db)
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`
	tokenHash := j.hashToken(token)
	_, err := q.Exec(ctx, query, userID, tokenHash, time.Unix(expiresAt, 0).UTC(), sessionReq.UserAgent, sessionReq.IPAddress)
	return err
}

func (j *jwtRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`
	tokenHash := j.hashToken(token)

	var revokedAt *time.Time
	var expiresAt time.Time

	err := q.QueryRow(ctx, query, tokenHash).Scan(&revokedAt, &expiresAt)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if revokedAt != nil || !expiresAt.After(now) {
		return true, nil
	}
	return false, nil
}

// RotateRefreshToken revokes the presented token and stores its replacement
// in a single transaction. A rotation either completes or leaves the
// presented token valid; it never strands the user with neither.
func (j *jwtRepositoryImpl) RotateRefreshToken(ctx context.Context, oldToken string, userID string, newToken string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	return WithTransaction(ctx, j.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := j.RevokeRefreshToken(txCtx, oldToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		if err := j.CreateRefreshToken(txCtx, userID, newToken, expiresAt, sessionReq); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
		return nil
	})
}

func (j *jwtRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, j.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	tokenHash := j.hashToken(token)

	_, err := q.Exec(ctx, query, tokenHash)
	return err
}
