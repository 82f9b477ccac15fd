package wiring

import (
	"context"

	"invest/internal/domain"
)

// Users.
func (d Deps) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	return d.repos.Users.GetUserByID(ctx, id)
}

func (d Deps) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return d.repos.Users.GetUserByEmail(ctx, email)
}

func (d Deps) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	return d.repos.Users.CreateUser(ctx, u)
}

func (d Deps) UpdateUserTOTP(ctx context.Context, userID int, secret string) error {
	return d.repos.Users.UpdateUserTOTP(ctx, userID, secret)
}
