package domain

import "time"

// Session is the per-client login state. It is never persisted.
type Session struct {
	ID        string    `json:"-"`
	LoggedIn  bool      `json:"logged_in"`
	UserID    int       `json:"user_id,omitzero"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// AnonymousSession returns the session of a client that is not logged in.
func AnonymousSession() Session {
	return Session{}
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s Session) Authenticated() bool {
	return s.LoggedIn && s.UserID != 0
}
