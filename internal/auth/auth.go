// Package auth owns credential verification and registration for both
// principal kinds. Users are registered by staff and log in with a 13-digit
// identity number; staff self-register and log in with an email address.
// Successful verification hands off to the session manager.
package auth

import (
	"context"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/session"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/staff"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/user"
)

// UserRepository is the credential-store contract for portal users.
type UserRepository interface {
	GetByIDNumber(ctx context.Context, idNumber string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

// StaffRepository is the credential-store contract for staff.
type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*staff.Staff, error)
	Create(ctx context.Context, st *staff.Staff) error
}

// ServiceAPI is what the HTTP handler needs from the auth service.
type ServiceAPI interface {
	RegisterUser(ctx context.Context, dto RegisterUserDTO) error
	RegisterStaff(ctx context.Context, dto RegisterStaffDTO) error
	LoginUser(ctx context.Context, dto LoginDTO) (*session.Session, error)
	LoginStaff(ctx context.Context, dto StaffLoginDTO) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
}
