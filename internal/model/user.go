package model

import "time"

// GoogleSentinelHash marks accounts provisioned through Google OAuth.
// It is not a valid bcrypt hash, so it can never verify against any password;
// local login additionally refuses these accounts outright.
const GoogleSentinelHash = "google"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// OAuthOnly reports whether the user was created via OAuth and has no local password.
func (u *User) OAuthOnly() bool {
	return u.PasswordHash == GoogleSentinelHash
}
