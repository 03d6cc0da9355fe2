// Package authapi talks to the Vibe backend to resolve a bearer token into the profile it belongs to.
package authapi

import (
	"context"
	"strings"

	"github.com/Ryan-Har/vibesession/pkg/models"
)

//go:generate mockgen -source=authapi.go -destination=../../internal/mocks/authapi_mock.go -package=mocks

// Client resolves the identity behind a bearer token.
type Client interface {
	// Me returns the profile of the token owner. Any error means the token could not be confirmed.
	Me(ctx context.Context, token string) (*Profile, error)
}

// Profile is the /auth/me payload as sent by the backend.
type Profile struct {
	ID                 int64  `json:"id"`
	DisplayID          string `json:"display_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	Avatar             string `json:"avatar"`
	CoverPhoto         string `json:"cover_photo"`
	Bio                string `json:"bio"`
	Location           string `json:"location"`
	Username           string `json:"username"`
	Nickname           string `json:"nickname"`
	Phone              string `json:"phone"`
	Website            string `json:"website"`
	BirthDate          string `json:"birth_date"`
	Gender             string `json:"gender"`
	RelationshipStatus string `json:"relationship_status"`
	Work               string `json:"work"`
	Education          string `json:"education"`
}

// ToUser maps the payload onto the session user for token, joining first and last name
// and filling the profile defaults.
func (p Profile) ToUser(token string) models.User {
	u := models.User{
		ID:                 p.ID,
		DisplayID:          p.DisplayID,
		Name:               strings.TrimSpace(p.FirstName + " " + p.LastName),
		Email:              p.Email,
		Avatar:             p.Avatar,
		CoverPhoto:         p.CoverPhoto,
		Bio:                p.Bio,
		Location:           p.Location,
		Username:           p.Username,
		Nickname:           p.Nickname,
		Phone:              p.Phone,
		Website:            p.Website,
		BirthDate:          p.BirthDate,
		Gender:             p.Gender,
		RelationshipStatus: p.RelationshipStatus,
		Work:               p.Work,
		Education:          p.Education,
		Token:              token,
	}
	u.ApplyDefaults()
	return u
}
