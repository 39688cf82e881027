package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// TokenPrefix identifies Potluck tokens
	TokenPrefix = "potluck_"
	// TokenLength is the total length of random bytes (32 bytes = 256 bits)
	TokenLength = 32
)

// ErrInvalidToken is returned when a presented token is malformed, unknown,
// revoked, or expired. Callers must not distinguish these cases to clients.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenGenerator generates and validates API tokens
type TokenGenerator struct{}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator() *TokenGenerator {
	return &TokenGenerator{}
}

// GenerateToken creates a new API token.
// Format: potluck_<base64url(32 random bytes)>
func (tg *TokenGenerator) GenerateToken() (token string, tokenHash string, tokenPrefix string, err error) {
	randomBytes := make([]byte, TokenLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encodedToken := base64.RawURLEncoding.EncodeToString(randomBytes)
	fullToken := TokenPrefix + encodedToken

	// SHA-256 hash for storage; plaintext is never persisted.
	hash := sha256.Sum256([]byte(fullToken))
	hashStr := hex.EncodeToString(hash[:])

	// First 8 chars after the prefix, for identification in listings.
	prefix := TokenPrefix
	if len(encodedToken) >= 8 {
		prefix = TokenPrefix + encodedToken[:8]
	}

	return fullToken, hashStr, prefix, nil
}

// HashToken computes the SHA-256 hash of a token for lookup
func (tg *TokenGenerator) HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidateTokenFormat checks if a token has the correct format
func (tg *TokenGenerator) ValidateTokenFormat(token string) error {
	if !strings.HasPrefix(token, TokenPrefix) {
		return fmt.Errorf("token must start with %q", TokenPrefix)
	}

	encodedPart := strings.TrimPrefix(token, TokenPrefix)
	if len(encodedPart) == 0 {
		return fmt.Errorf("token is too short")
	}

	if _, err := base64.RawURLEncoding.DecodeString(encodedPart); err != nil {
		return fmt.Errorf("invalid token encoding: %w", err)
	}

	return nil
}

// TokenManager manages API token lifecycle against the database
type TokenManager struct {
	db        *sql.DB
	generator *TokenGenerator
}

// NewTokenManager creates a new token manager
func NewTokenManager(db *sql.DB) *TokenManager {
	return &TokenManager{
		db:        db,
		generator: NewTokenGenerator(),
	}
}

// CreateToken creates a new API token for a user. The plaintext token is
// returned once and never stored.
func (tm *TokenManager) CreateToken(ctx context.Context, userID int64, name string, expiresAt *time.Time) (*APIToken, string, error) {
	token, tokenHash, tokenPrefix, err := tm.generator.GenerateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	apiToken := &APIToken{
		UserID:      userID,
		TokenHash:   tokenHash,
		TokenPrefix: tokenPrefix,
		Name:        name,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}

	query := `
		INSERT INTO api_tokens (user_id, token_hash, token_prefix, name, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = tm.db.QueryRowContext(ctx, query,
		apiToken.UserID, apiToken.TokenHash, apiToken.TokenPrefix,
		apiToken.Name, apiToken.ExpiresAt, apiToken.CreatedAt,
	).Scan(&apiToken.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to store token: %w", err)
	}

	return apiToken, token, nil
}

// ValidateToken validates a presented token and returns the owning user.
// Revoked, expired, and unknown tokens all fail with ErrInvalidToken.
func (tm *TokenManager) ValidateToken(ctx context.Context, token string) (*User, *APIToken, error) {
	if err := tm.generator.ValidateTokenFormat(token); err != nil {
		return nil, nil, ErrInvalidToken
	}

	tokenHash := tm.generator.HashToken(token)

	query := `
		SELECT t.id, t.user_id, t.token_prefix, t.name, t.expires_at, t.last_used_at, t.created_at, t.revoked_at,
		       u.id, u.username, u.email, u.is_active, u.created_at, u.updated_at
		FROM api_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = $1
	`
	apiToken := &APIToken{TokenHash: tokenHash}
	user := &User{}
	var email sql.NullString
	err := tm.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&apiToken.ID, &apiToken.UserID, &apiToken.TokenPrefix, &apiToken.Name,
		&apiToken.ExpiresAt, &apiToken.LastUsedAt, &apiToken.CreatedAt, &apiToken.RevokedAt,
		&user.ID, &user.Username, &email, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}

	if apiToken.RevokedAt != nil {
		return nil, nil, ErrInvalidToken
	}
	if apiToken.ExpiresAt != nil && apiToken.ExpiresAt.Before(time.Now()) {
		return nil, nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, nil, ErrInvalidToken
	}

	// Best effort; validation does not fail if the timestamp write does.
	_, _ = tm.db.ExecContext(ctx, `UPDATE api_tokens SET last_used_at = $1 WHERE id = $2`, time.Now(), apiToken.ID)

	return user, apiToken, nil
}

// RevokeToken revokes a token owned by the given user
func (tm *TokenManager) RevokeToken(ctx context.Context, tokenID, userID int64) error {
	result, err := tm.db.ExecContext(ctx,
		`UPDATE api_tokens SET revoked_at = $1 WHERE id = $2 AND user_id = $3 AND revoked_at IS NULL`,
		time.Now(), tokenID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("token not found")
	}
	return nil
}

// ListTokens returns all non-revoked tokens for a user
func (tm *TokenManager) ListTokens(ctx context.Context, userID int64) ([]*APIToken, error) {
	query := `
		SELECT id, user_id, token_prefix, name, expires_at, last_used_at, created_at, revoked_at
		FROM api_tokens
		WHERE user_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := tm.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*APIToken
	for rows.Next() {
		t := &APIToken{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.TokenPrefix, &t.Name,
			&t.ExpiresAt, &t.LastUsedAt, &t.CreatedAt, &t.RevokedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
