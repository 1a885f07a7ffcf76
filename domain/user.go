package domain

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned by user lookups when no record matches.
var ErrUserNotFound = errors.New("user not found")

// ErrUserAlreadyExists is returned when a user with the same ID is already stored.
var ErrUserAlreadyExists = errors.New("user already exists")

// User is a local account mirrored from an OpenStreetMap identity.
// The ID is the OSM user id; it never changes once the record is created.
type User struct {
	ID             int64      `bson:"_id"`
	Username       string     `bson:"username"`
	EmailAddress   *string    `bson:"email_address,omitempty"`
	ChangesetCount int        `bson:"changeset_count"`
	PictureURL     string     `bson:"picture_url,omitempty"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
	LastLoginAt    *time.Time `bson:"last_login_at,omitempty"`
}

// HasEmail reports whether an email address has been recorded for the user.
func (u *User) HasEmail() bool {
	return u.EmailAddress != nil && *u.EmailAddress != ""
}
