package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	paymentpkg "github.com/frahmantamala/payment-portal/internal/payment"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) paymentpkg.Repository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentpkg.ErrRecordNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) ListByAccount(ctx context.Context, account string) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	err := r.db.WithContext(ctx).
		Where("paid_from_account = ? OR recipient_account_number = ?", account, account).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status payment.Status) error {
	return r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("id = ?", id).
		Update("status", status).Error
}
