// Package tokeninfo reads the registered claims of a bearer token without verifying it.
// The result is only a scheduling hint; the backend stays the authority on validity.
package tokeninfo

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info describes what could be read from a token.
type Info struct {
	IsJWT     bool
	Subject   string
	ExpiresAt time.Time // zero when the token has no exp claim
}

// HasExpiry reports whether an exp claim was present.
func (i Info) HasExpiry() bool {
	return !i.ExpiresAt.IsZero()
}

// Inspect parses token as an unverified JWT. Opaque tokens yield IsJWT=false.
func Inspect(token string) Info {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}
	}

	info := Info{
		IsJWT:   true,
		Subject: claims.Subject,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}

// RefreshAt returns when a token expiring at info.ExpiresAt should be refreshed, threshold ahead
// of expiry. ok is false for tokens with no expiry.
func (i Info) RefreshAt(threshold time.Duration) (time.Time, bool) {
	if !i.HasExpiry() {
		return time.Time{}, false
	}
	return i.ExpiresAt.Add(-threshold), true
}
