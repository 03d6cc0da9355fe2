package tokeninfo

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	tests := []struct {
		name      string
		token     string
		wantJWT   bool
		wantSub   string
		wantExp   time.Time
		hasExpiry bool
	}{
		{
			name:      "jwt with exp",
			token:     signed(t, jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(exp)}),
			wantJWT:   true,
			wantSub:   "42",
			wantExp:   exp,
			hasExpiry: true,
		},
		{
			name:    "jwt without exp",
			token:   signed(t, jwt.RegisteredClaims{Subject: "7"}),
			wantJWT: true,
			wantSub: "7",
		},
		{
			name:  "opaque token",
			token: "tok12345678",
		},
		{
			name:  "empty token",
			token: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Inspect(tt.token)
			require.Equal(t, tt.wantJWT, info.IsJWT)
			require.Equal(t, tt.wantSub, info.Subject)
			require.Equal(t, tt.hasExpiry, info.HasExpiry())
			if tt.hasExpiry {
				require.True(t, tt.wantExp.Equal(info.ExpiresAt))
			}
		})
	}
}

func TestInspect_ExpiredTokenStillReadable(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	info := Inspect(signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}))

	require.True(t, info.IsJWT)
	require.True(t, exp.Equal(info.ExpiresAt))
}

func TestInfo_RefreshAt(t *testing.T) {
	exp := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	at, ok := Info{IsJWT: true, ExpiresAt: exp}.RefreshAt(5 * time.Minute)
	require.True(t, ok)
	require.Equal(t, exp.Add(-5*time.Minute), at)

	_, ok = Info{}.RefreshAt(5 * time.Minute)
	require.False(t, ok)
}
