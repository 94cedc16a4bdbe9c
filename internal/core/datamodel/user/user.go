package user

import "time"

// User is a portal customer. Accounts are opened by staff; there is no
// self-registration path for this type.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	IDNumber     string    `gorm:"column:id_number;uniqueIndex;not null" json:"idNumber"`
	FirstName    string    `gorm:"column:first_name;not null" json:"firstName"`
	Surname      string    `gorm:"column:surname;not null" json:"surname"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
