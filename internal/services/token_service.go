package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/denizocal/photostream/internal/dto"
	"github.com/denizocal/photostream/internal/models"
	"github.com/denizocal/photostream/internal/store"
	"github.com/denizocal/photostream/internal/token"
	"github.com/google/uuid"
)

// ErrUnauthorized means the token's signature checked out but the whitelist
// rejected it: unknown jti, already revoked (replay), digest mismatch, or the
// owning user is gone. Deliberately indistinguishable to the client.
var ErrUnauthorized = errors.New("refresh token rejected")

// Whitelist is the persistence contract for issued refresh tokens.
type Whitelist interface {
	Put(ctx context.Context, jti uuid.UUID, hashedToken string, userID uuid.UUID) (*models.RefreshToken, error)
	Get(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error)
	Revoke(ctx context.Context, jti uuid.UUID) (bool, error)
	RevokeAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserDirectory resolves token owners.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// TokenService issues, rotates and revokes access/refresh token pairs. Access
// tokens are never stored; refresh tokens are tracked in the whitelist so they
// stay revocable despite being self-contained JWTs.
type TokenService struct {
	signer    *token.Signer
	whitelist Whitelist
	users     UserDirectory
}

func NewTokenService(signer *token.Signer, whitelist Whitelist, users UserDirectory) *TokenService {
	return &TokenService{signer: signer, whitelist: whitelist, users: users}
}

// IssuePair mints a fresh access/refresh pair for user and whitelists the
// refresh token under a new random jti.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User) (*dto.TokenPair, error) {
	jti := uuid.New()

	accessToken, err := s.signer.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.signer.IssueRefresh(user.ID, jti)
	if err != nil {
		return nil, err
	}

	if _, err := s.whitelist.Put(ctx, jti, token.HashToken(refreshToken), user.ID); err != nil {
		return nil, err
	}

	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Rotate exchanges a valid, unused refresh token for a brand-new pair and
// revokes the presented one. Signature and claim checks run before any store
// access so forged tokens are rejected cheaply. The conditional revoke makes
// the token single-use even under concurrent rotation: only the caller that
// flips the revoked flag gets the new pair.
func (s *TokenService) Rotate(ctx context.Context, presented string) (*dto.TokenPair, error) {
	claims, err := s.signer.VerifyRefresh(presented)
	if err != nil {
		return nil, err
	}
	jti, err := claims.JTI()
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, token.ErrInvalidToken
	}

	entry, err := s.whitelist.Get(ctx, jti)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if entry.Revoked {
		return nil, ErrUnauthorized
	}

	digest := token.HashToken(presented)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(entry.HashedToken)) != 1 {
		slog.Warn("refresh token digest mismatch", "jti", jti, "user_id", entry.UserID)
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	flipped, err := s.whitelist.Revoke(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		// Lost a race with a concurrent rotation of the same token.
		return nil, ErrUnauthorized
	}

	return s.IssuePair(ctx, user)
}

// Revoke invalidates a single presented refresh token (logout). Revoking an
// already revoked or unknown token is not an error.
func (s *TokenService) Revoke(ctx context.Context, presented string) error {
	claims, err := s.signer.VerifyRefresh(presented)
	if err != nil {
		return err
	}
	jti, err := claims.JTI()
	if err != nil {
		return err
	}
	_, err = s.whitelist.Revoke(ctx, jti)
	return err
}

// RevokeAllForUser invalidates every outstanding refresh token for userID.
// Used for "log out everywhere" and compromised-account response.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.whitelist.RevokeAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	slog.Info("revoked refresh tokens", "user_id", userID, "count", count)
	return count, nil
}
