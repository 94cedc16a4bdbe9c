package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/core/events"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/payment"
)

// ErrRecordNotFound is returned by repositories when no payment matches.
var ErrRecordNotFound = errors.New("payment record not found")

type Service struct {
	repo        Repository
	bus         *events.EventBus
	allowReopen bool
	logger      *slog.Logger
}

// NewService wires the workflow. allowReopen controls whether Completed or
// Failed payments may transition anywhere else again; the portal has
// historically permitted this so staff can correct mistakes.
func NewService(repo Repository, bus *events.EventBus, allowReopen bool, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		bus:         bus,
		allowReopen: allowReopen,
		logger:      logger,
	}
}

func (s *Service) CreatePayment(ctx context.Context, dto CreatePaymentDTO) (*payment.Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &payment.Payment{
		PaidFromAccount:        dto.PaidFromAccount,
		RecipientName:          dto.RecipientName,
		RecipientAccountNumber: dto.RecipientAccountNumber,
		BranchCode:             dto.BranchCode,
		Amount:                 dto.Amount,
		Status:                 dto.EffectiveStatus(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create payment", "error", err)
		return nil, internal.NewInternalError("failed to create payment", err)
	}

	s.logger.Info("payment created", "payment_id", p.ID, "amount", p.Amount, "status", p.Status)

	if s.bus != nil {
		if err := s.bus.PublishSync(ctx, events.NewPaymentCreatedEvent(p.ID, p.PaidFromAccount, p.Amount)); err != nil {
			s.logger.Error("payment created event failed", "error", err, "payment_id", p.ID)
		}
	}

	return p, nil
}

func (s *Service) PaymentsForAccount(ctx context.Context, account string) ([]*payment.Payment, error) {
	payments, err := s.repo.ListByAccount(ctx, account)
	if err != nil {
		s.logger.Error("failed to list payments for account", "error", err)
		return nil, internal.NewInternalError("failed to fetch payments", err)
	}
	return payments, nil
}

func (s *Service) AllPayments(ctx context.Context) ([]*payment.Payment, error) {
	payments, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list payments", "error", err)
		return nil, internal.NewInternalError("failed to fetch payments", err)
	}
	return payments, nil
}

// UpdateStatus transitions a payment's status. The target status must be one
// of the three known values; repeating an update with the same status is
// idempotent and succeeds. With reopening disabled, Completed and Failed
// only accept their own status again.
func (s *Service) UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO, changedBy string) (*payment.Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	target := payment.Status(dto.Status)

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, internal.ErrPaymentNotFound
		}
		return nil, internal.NewInternalError("failed to load payment", err)
	}

	if !s.allowReopen && current.Status.Terminal() && target != current.Status {
		return nil, internal.NewValidationError("Payment status can no longer be changed", internal.ErrCodeStatusLocked)
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, internal.NewInternalError("failed to update payment status", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to reload payment", err)
	}

	s.logger.Info("payment status updated",
		"payment_id", id,
		"old_status", current.Status,
		"new_status", updated.Status)

	if s.bus != nil && current.Status != updated.Status {
		event := events.NewPaymentStatusChangedEvent(id, string(current.Status), string(updated.Status), changedBy)
		if err := s.bus.PublishSync(ctx, event); err != nil {
			s.logger.Error("status changed event failed", "error", err, "payment_id", id)
		}
	}

	return updated, nil
}
