package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentCreated       = "payment.created"
	EventTypePaymentStatusChanged = "payment.status_changed"
)

type PaymentCreatedEvent struct {
	BaseEvent
	PaymentID       int64   `json:"payment_id"`
	PaidFromAccount string  `json:"paid_from_account"`
	Amount          float64 `json:"amount"`
}

func NewPaymentCreatedEvent(paymentID int64, paidFromAccount string, amount float64) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":        paymentID,
				"paid_from_account": paidFromAccount,
				"amount":            amount,
			},
		},
		PaymentID:       paymentID,
		PaidFromAccount: paidFromAccount,
		Amount:          amount,
	}
}

type PaymentStatusChangedEvent struct {
	BaseEvent
	PaymentID int64  `json:"payment_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
}

func NewPaymentStatusChangedEvent(paymentID int64, oldStatus, newStatus, changedBy string) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"old_status": oldStatus,
				"new_status": newStatus,
				"changed_by": changedBy,
			},
		},
		PaymentID: paymentID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
	}
}
