package session

import "time"

// Session binds one principal to ongoing request activity. The ID is an
// opaque crypto-random token and doubles as the cookie value; nothing about
// the principal is derivable from it.
type Session struct {
	ID            string    `gorm:"primaryKey;column:id"`
	PrincipalID   string    `gorm:"column:principal_id;not null"`
	PrincipalKind string    `gorm:"column:principal_kind;not null"`
	LastActivity  time.Time `gorm:"column:last_activity;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

// IdleFor returns how long the session has been idle at the given instant.
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}
