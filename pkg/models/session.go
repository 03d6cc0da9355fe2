package models

import "time"

// SessionStatus is a point in time snapshot of the session.
type SessionStatus struct {
	SessionID     string        // Identifier of the current signed in period, empty when logged out
	User          *User         // Copy of the current user, nil when logged out
	Loading       bool          // True only while the initial restore is running
	Expired       bool          // True once the inactivity budget ran out
	LastActivity  time.Time     // Last observed interaction
	IdleTime      time.Duration // Time since LastActivity
	RemainingTime time.Duration // Time left before expiry, zero when logged out
}

// LoggedIn reports whether the snapshot holds a user.
func (s SessionStatus) LoggedIn() bool {
	return s.User != nil
}
