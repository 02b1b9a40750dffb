package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// DefaultTokenTTL matches the original deployment's 30-day tokens.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenClaims is the identity carried by a validated token.
type TokenClaims struct {
	SubjectID string
	Role      domain.Role
}

// TokenCodec issues and validates signed identity tokens. The signing secret
// is process-wide configuration; rotating it invalidates every outstanding
// token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewTokenCodec builds a codec with the given secret and ttl. A non-positive
// ttl falls back to DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration, log zerolog.Logger) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, log: log, now: time.Now}
}

// Issue produces a signed HS256 token for the subject.
func (c *TokenCodec) Issue(subjectID string, role domain.Role) (string, error) {
	now := c.now().UTC()
	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Validate verifies signature and expiry. Malformed, expired and badly signed
// tokens are distinguished in the server log but all surface to callers as
// ErrInvalidToken so the client only ever sees a 401.
func (c *TokenCodec) Validate(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil || !parsed.Valid {
		c.log.Debug().Str("reason", tokenFailureReason(err)).Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		c.log.Debug().Str("reason", "missing_subject").Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role, ok := domain.ParseRole(roleStr)
	if !ok {
		role = domain.RoleStudent
	}

	return &TokenClaims{SubjectID: sub, Role: role}, nil
}

func tokenFailureReason(err error) string {
	switch {
	case err == nil:
		return "invalid"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
