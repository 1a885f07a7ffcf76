package dto

import (
	"time"

	"github.com/pilab-dev/osm-auth/domain"
)

// UserResponse is the public view of a stored user.
type UserResponse struct {
	ID             int64      `json:"id" yaml:"id"`
	Username       string     `json:"username" yaml:"username"`
	EmailAddress   string     `json:"email_address,omitempty" yaml:"email_address,omitempty"`
	ChangesetCount int        `json:"changeset_count" yaml:"changeset_count"`
	PictureURL     string     `json:"picture_url,omitempty" yaml:"picture_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" yaml:"updated_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" yaml:"last_login_at,omitempty"`
}

// FromDomainUser converts domain.User to UserResponse.
func FromDomainUser(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	resp := &UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		ChangesetCount: user.ChangesetCount,
		PictureURL:     user.PictureURL,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		LastLoginAt:    user.LastLoginAt,
	}
	if user.EmailAddress != nil {
		resp.EmailAddress = *user.EmailAddress
	}
	return resp
}
