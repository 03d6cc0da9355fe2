package authapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ryan-Har/vibesession/pkg/models"
)

func TestHTTPClient_Me_Success(t *testing.T) {
	var gotAuth, gotRequestID, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(requestIDHeader)
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"display_id":"ana.v","first_name":"Ana","last_name":"Silva","email":"a@x.com","bio":null,"location":"Recife"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	p, err := c.Me(context.Background(), "tok12345678")
	require.NoError(t, err)

	require.Equal(t, "Bearer tok12345678", gotAuth)
	require.Equal(t, "/auth/me", gotPath)
	require.NotEmpty(t, gotRequestID)

	require.Equal(t, int64(7), p.ID)
	require.Equal(t, "Ana", p.FirstName)
	require.Equal(t, "Silva", p.LastName)
	require.Empty(t, p.Bio)
}

func TestHTTPClient_Me_StatusErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantDetail   string
		unauthorized bool
	}{
		{
			name:         "unauthorized with detail",
			status:       http.StatusUnauthorized,
			body:         `{"detail":"Could not validate credentials"}`,
			wantDetail:   "Could not validate credentials",
			unauthorized: true,
		},
		{
			name:         "forbidden without body",
			status:       http.StatusForbidden,
			unauthorized: true,
		},
		{
			name:   "server error with html body",
			status: http.StatusInternalServerError,
			body:   "<html>oops</html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := NewHTTPClient(srv.URL).Me(context.Background(), "tok")
			require.Nil(t, p)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			require.Equal(t, tt.status, se.StatusCode)
			require.Equal(t, tt.wantDetail, se.Detail)
			require.Equal(t, tt.unauthorized, IsUnauthorized(err))
		})
	}
}

func TestHTTPClient_Me_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Me(context.Background(), "tok")
	require.Error(t, err)

	var te *models.TransformationError
	require.True(t, errors.As(err, &te))
}

func TestHTTPClient_Me_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
	_, err := c.Me(context.Background(), "tok")
	require.Error(t, err)
	require.False(t, IsUnauthorized(err))
}

func TestProfile_ToUser(t *testing.T) {
	p := Profile{
		ID:        1,
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "a@x.com",
		Location:  "Recife",
	}

	u := p.ToUser("tok12345678")
	require.Equal(t, "Ana Silva", u.Name)
	require.Equal(t, "tok12345678", u.Token)
	require.Equal(t, "Recife", u.Location)
	require.Equal(t, models.DefaultBio, u.Bio)
	require.Equal(t, models.DefaultJoinDate, u.JoinDate)

	p.LastName = ""
	require.Equal(t, "Ana", p.ToUser("t").Name)
}
