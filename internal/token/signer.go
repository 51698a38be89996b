package token

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and wrong
	// signing methods.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is distinct so clients can attempt a refresh
	// instead of a full re-login.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the claim set carried by both token kinds. Access tokens carry
// only UserID; refresh tokens additionally carry their whitelist key in the
// registered jti claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// UserUUID parses the userId claim.
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// JTI parses the registered jti claim. Empty or malformed ids are rejected,
// which is what stops a forged token from ever reaching the whitelist.
func (c *Claims) JTI() (uuid.UUID, error) {
	if c.ID == "" {
		return uuid.Nil, fmt.Errorf("%w: missing jti claim", ErrInvalidToken)
	}
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed jti claim", ErrInvalidToken)
	}
	return id, nil
}

// Signer creates and verifies the two token kinds. Access and refresh tokens
// use independent secrets, so neither secret can forge the other kind.
type Signer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewSigner(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *Signer {
	return &Signer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccess signs a short-lived access token for userID.
func (s *Signer) IssueAccess(userID uuid.UUID) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID.String(),
	}, s.accessSecret)
}

// IssueRefresh signs a refresh token for userID carrying jti, the key of its
// whitelist entry.
func (s *Signer) IssueRefresh(userID, jti uuid.UUID) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID.String(),
	}, s.refreshSecret)
}

// VerifyAccess checks signature and expiry against the access secret.
func (s *Signer) VerifyAccess(tokenString string) (*Claims, error) {
	return verify(tokenString, s.accessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh secret.
func (s *Signer) VerifyRefresh(tokenString string) (*Claims, error) {
	return verify(tokenString, s.refreshSecret)
}

func (s *Signer) sign(claims Claims, secret []byte) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the SHA-512 hex digest of a token string. The whitelist
// stores this digest instead of the raw token, so a leaked table cannot be
// replayed; the digest is compared on rotation, never used for authentication
// on its own.
func HashToken(tokenString string) string {
	h := sha512.Sum512([]byte(tokenString))
	return fmt.Sprintf("%x", h)
}
