package models

import "strings"

// Profile defaults applied whenever the backend leaves a field empty.
const (
	DefaultBio      = "Apaixonado por conexões genuínas e boas vibes! 🌟"
	DefaultLocation = "São Paulo, Brasil"
	DefaultJoinDate = "Janeiro 2025"
)

// LoginParams is the identity handed over by the login form once the backend accepted the credentials.
type LoginParams struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Validate reports whether the params are usable for a login.
func (p LoginParams) Validate() error {
	if strings.TrimSpace(p.Token) == "" {
		return NewValidationError("token must not be empty")
	}
	if p.ID <= 0 {
		return NewValidationError("id must be a positive number")
	}
	return nil
}

// User is the profile of the signed in user as held by the session.
// Token is never serialised so cached profiles don't carry the credential.
type User struct {
	ID                 int64  `json:"id"`
	DisplayID          string `json:"display_id,omitempty"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Avatar             string `json:"avatar,omitempty"`
	CoverPhoto         string `json:"cover_photo,omitempty"`
	Bio                string `json:"bio,omitempty"`
	Location           string `json:"location,omitempty"`
	JoinDate           string `json:"joinDate,omitempty"`
	Username           string `json:"username,omitempty"`
	Nickname           string `json:"nickname,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Website            string `json:"website,omitempty"`
	BirthDate          string `json:"birth_date,omitempty"`
	Gender             string `json:"gender,omitempty"`
	RelationshipStatus string `json:"relationship_status,omitempty"`
	Work               string `json:"work,omitempty"`
	Education          string `json:"education,omitempty"`
	Token              string `json:"-"`
}

// UserFromLogin builds the session user for a fresh login with the profile defaults filled in.
func UserFromLogin(p LoginParams) User {
	u := User{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Token: p.Token,
	}
	u.ApplyDefaults()
	return u
}

// ApplyDefaults fills the empty bio, location and join date fields.
func (u *User) ApplyDefaults() {
	if u.Bio == "" {
		u.Bio = DefaultBio
	}
	if u.Location == "" {
		u.Location = DefaultLocation
	}
	if u.JoinDate == "" {
		u.JoinDate = DefaultJoinDate
	}
}
