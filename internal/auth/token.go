package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAToken means the credential does not look like a JWT. The run
// proceeds anyway: the remote service is the authority and a bad token
// surfaces as a remote-call failure.
var ErrNotAToken = errors.New("credential is not a parseable token")

// TokenInfo is what can be read from the access credential without
// verifying it. Tesseract issues JWTs carrying the student identity and
// an expiry; the signature cannot be checked locally.
type TokenInfo struct {
	Username  string
	Name      string
	College   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry in the past.
// Tokens without an exp claim are never reported expired.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(now)
}

// Inspect parses the credential without signature verification, so a
// run can warn about an expired token before the first remote call.
func Inspect(credential string) (TokenInfo, error) {
	raw := strings.TrimSpace(credential)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer"))
	if raw == "" {
		return TokenInfo{}, ErrNotAToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return TokenInfo{}, errors.Join(ErrNotAToken, err)
	}

	info := TokenInfo{
		Username: stringClaim(claims, "username"),
		Name:     stringClaim(claims, "name"),
		College:  stringClaim(claims, "collegeName"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}
