package postgres

import (
	"context"

	"gorm.io/gorm"

	userpkg "github.com/frahmantamala/payment-portal/internal/user"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) userpkg.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, err
}
