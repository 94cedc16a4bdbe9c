// Package payment implements the funds-transfer request workflow: creation
// with validation, per-account and staff-wide listings, and the staff-only
// status state machine over {Pending, Completed, Failed}.
package payment

import (
	"context"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/payment"
)

// Repository is the persistence contract for payment records.
type Repository interface {
	Create(ctx context.Context, p *payment.Payment) error
	GetByID(ctx context.Context, id int64) (*payment.Payment, error)
	ListAll(ctx context.Context) ([]*payment.Payment, error)
	// ListByAccount returns payments where the account appears as either
	// source or recipient.
	ListByAccount(ctx context.Context, account string) ([]*payment.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status payment.Status) error
}

// ServiceAPI is what the HTTP handler needs from the payment service.
type ServiceAPI interface {
	CreatePayment(ctx context.Context, dto CreatePaymentDTO) (*payment.Payment, error)
	PaymentsForAccount(ctx context.Context, account string) ([]*payment.Payment, error)
	AllPayments(ctx context.Context) ([]*payment.Payment, error)
	UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO, changedBy string) (*payment.Payment, error)
}
