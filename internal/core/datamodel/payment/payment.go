package payment

import "time"

// Status is the three-state payment lifecycle. After creation only this
// field is ever mutated, and only through the staff status update path.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is an end state under the strict transition
// policy. With reopening allowed no state is terminal.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Payment struct {
	ID                     int64     `gorm:"primaryKey" json:"id"`
	PaidFromAccount        string    `gorm:"column:paid_from_account;not null" json:"paidFromAccount"`
	RecipientName          string    `gorm:"column:recipient_name;not null" json:"recipientName"`
	RecipientAccountNumber string    `gorm:"column:recipient_account_number;not null" json:"recipientAccountNumber"`
	BranchCode             string    `gorm:"column:branch_code;not null" json:"branchCode"`
	Amount                 float64   `gorm:"column:amount;not null" json:"amount"`
	Status                 Status    `gorm:"column:status;default:Pending" json:"status"`
	CreatedAt              time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt              time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
