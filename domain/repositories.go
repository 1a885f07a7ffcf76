package domain

import (
	"context"
)

// UserRepository persists local users.
//
//go:generate go run go.uber.org/mock/mockgen -source=$GOFILE -destination=mocks/mock_$GOFILE -package=mock_$GOPACKAGE
type UserRepository interface {
	// FindByID returns ErrUserNotFound when no user has the given id.
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByUsername returns ErrUserNotFound when no user has the given username.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Create returns ErrUserAlreadyExists if the id is taken.
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// MessageRepository persists in-app messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	CountForUser(ctx context.Context, userID int64) (int64, error)
}
