package users

import (
	"context"
	"errors"

	"invest/internal/domain"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username unique constraint fails.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the email unique constraint fails.
	ErrEmailTaken = errors.New("email already registered")
)

// Repository defines persistence operations for users.
type Repository interface {
	GetUserByID(ctx context.Context, id int) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, u domain.User) (int64, error)
	UpdateUserTOTP(ctx context.Context, userID int, secret string) error
}
