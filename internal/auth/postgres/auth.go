package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/auth"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/staff"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByIDNumber(ctx context.Context, idNumber string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id_number = ?", idNumber).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		// Unique-index backstop for registrations racing past the lookup.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateIDNumber
		}
		return err
	}
	return nil
}

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) auth.StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	var st staff.Staff
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *StaffRepository) Create(ctx context.Context, st *staff.Staff) error {
	if err := r.db.WithContext(ctx).Create(st).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateEmail
		}
		return err
	}
	return nil
}
