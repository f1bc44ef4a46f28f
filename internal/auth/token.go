package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workplace-access-backend/internal/apperror"
)

// AccessToken is a signed HS256 JWT along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an access token for a caller. The JWT
// carries the subject (sub), role, expiration (exp) and issued-at (iat)
// claims.
func NewAccessToken(secret string, subjectID string, role Role, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseToken validates a raw token string and returns the caller's Claims.
// All failure modes (bad signature, wrong algorithm, expiry, malformed
// claims) collapse into Unauthorized.
func ParseToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.Unauthorized("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, apperror.Unauthorized("invalid token")
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperror.Unauthorized("invalid claims")
	}
	sub, _ := mc["sub"].(string)
	roleStr, _ := mc["role"].(string)
	if sub == "" {
		return Claims{}, apperror.Unauthorized("missing subject claim")
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return Claims{}, err
	}
	return Claims{Role: role, SubjectID: sub}, nil
}
