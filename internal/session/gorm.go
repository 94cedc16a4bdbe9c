package session

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/payment-portal/internal/core/datamodel/session"
	"gorm.io/gorm"
)

// GormStore persists sessions in the sessions table. Atomicity of Refresh
// comes from running the expiry check inside a single conditional UPDATE.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, sess *session.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var sess session.Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *GormStore) Refresh(ctx context.Context, id string, cutoff, now time.Time) (bool, error) {
	// last_activity stays monotonic non-decreasing even under clock skew.
	res := s.db.WithContext(ctx).
		Model(&session.Session{}).
		Where("id = ? AND last_activity >= ?", id, cutoff).
		Update("last_activity", gorm.Expr("CASE WHEN last_activity > ? THEN last_activity ELSE ? END", now, now))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&session.Session{}, "id = ?", id).Error
}
