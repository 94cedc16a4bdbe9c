package payment

import (
	errors "github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/core/common/validation"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/payment"
)

// CreatePaymentDTO carries a new funds-transfer request. Status is optional
// and defaults to Pending.
type CreatePaymentDTO struct {
	PaidFromAccount        string  `json:"paidFromAccount"`
	RecipientName          string  `json:"recipientName"`
	RecipientAccountNumber string  `json:"recipientAccountNumber"`
	BranchCode             string  `json:"branchCode"`
	Amount                 float64 `json:"amount"`
	Status                 string  `json:"status,omitempty"`
}

func (d CreatePaymentDTO) Validate() error {
	v := validation.NewValidator()

	v.Field("paidFromAccount", d.PaidFromAccount).Required().MaxLength(64)
	v.Field("recipientName", d.RecipientName).Required().MaxLength(150)
	v.Field("recipientAccountNumber", d.RecipientAccountNumber).Required().MaxLength(32)
	v.Field("branchCode", d.BranchCode).Required().MaxLength(20)
	v.Field("amount", d.Amount).MinFloat(0, errors.ErrCodeInvalidAmount)
	v.Field("status", d.Status).Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s != "" && !payment.Status(s).Valid() {
			return errors.NewValidationFieldError("status", "Invalid status value", errors.ErrCodeInvalidStatus)
		}
		return nil
	})

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// EffectiveStatus resolves the default.
func (d CreatePaymentDTO) EffectiveStatus() payment.Status {
	if d.Status == "" {
		return payment.StatusPending
	}
	return payment.Status(d.Status)
}

// UpdateStatusDTO carries the staff status transition.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	if !payment.Status(d.Status).Valid() {
		return errors.NewValidationError("Invalid status value", errors.ErrCodeInvalidStatus)
	}
	return nil
}
