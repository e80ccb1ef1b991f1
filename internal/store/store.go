// Package store persists users, their subscription rows and admin profiles.
package store

import (
	"context"
	"errors"

	"subscription-app/internal/domain/billing"
	"subscription-app/internal/domain/users"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Store interface {
	// CreateUser inserts the user and its subscription atomically.
	CreateUser(ctx context.Context, u *users.User, sub *billing.Subscription) error
	FindUserByEmail(ctx context.Context, email string) (*users.User, error)
	FindUserByID(ctx context.Context, id string) (*users.User, error)
	FindUserByCustomerID(ctx context.Context, customerID string) (*users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	SetUserCustomerID(ctx context.Context, userID, customerID string) error

	FindSubscription(ctx context.Context, userID string) (*billing.Subscription, error)
	SaveSubscription(ctx context.Context, sub *billing.Subscription) error

	FindAdminProfile(ctx context.Context, userID string) (*users.AdminProfile, error)
	SaveAdminProfile(ctx context.Context, p *users.AdminProfile) error
}
