package staff

import "time"

// Staff is a back-office principal keyed by email. Emails are stored
// lowercased so uniqueness is case-insensitive.
type Staff struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	FirstName    string    `gorm:"column:first_name;not null" json:"firstName"`
	Surname      string    `gorm:"column:surname;not null" json:"surname"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}
