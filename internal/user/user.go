// Package user serves the account listing consumed by the staff front end.
// Password hashes never leave the repository layer.
package user

import (
	"context"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/user"
)

type Repository interface {
	ListAll(ctx context.Context) ([]*user.User, error)
}

type ServiceAPI interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
}
