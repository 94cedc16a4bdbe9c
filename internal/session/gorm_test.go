package session

import (
	"context"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	sessionmodel "github.com/frahmantamala/payment-portal/internal/core/datamodel/session"
)

var _ = ginkgo.Describe("GormStore", func() {
	var (
		store *GormStore
		ctx   context.Context
		base  time.Time
	)

	ginkgo.BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(db.AutoMigrate(&sessionmodel.Session{})).To(gomega.Succeed())

		store = NewGormStore(db)
		ctx = context.Background()
		base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})

	seed := func(id string, lastActivity time.Time) {
		err := store.Create(ctx, &sessionmodel.Session{
			ID:            id,
			PrincipalID:   "9001015800087",
			PrincipalKind: "user",
			LastActivity:  lastActivity,
			CreatedAt:     lastActivity,
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	ginkgo.Describe("Get", func() {
		ginkgo.It("should map a missing row onto ErrNotFound", func() {
			_, err := store.Get(ctx, "missing")

			gomega.Expect(err).To(gomega.MatchError(ErrNotFound))
		})

		ginkgo.It("should load a stored session", func() {
			seed("token", base)

			sess, err := store.Get(ctx, "token")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.PrincipalID).To(gomega.Equal("9001015800087"))
			gomega.Expect(sess.PrincipalKind).To(gomega.Equal("user"))
		})
	})

	ginkgo.Describe("Refresh", func() {
		ginkgo.It("should bump last activity for a session inside the window", func() {
			seed("token", base)
			now := base.Add(5 * time.Minute)

			refreshed, err := store.Refresh(ctx, "token", now.Add(-10*time.Minute), now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed).To(gomega.BeTrue())

			sess, err := store.Get(ctx, "token")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.LastActivity.UTC()).To(gomega.BeTemporally("==", now))
		})

		ginkgo.It("should decline for a session past the cutoff", func() {
			seed("token", base)
			now := base.Add(11 * time.Minute)

			refreshed, err := store.Refresh(ctx, "token", now.Add(-10*time.Minute), now)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed).To(gomega.BeFalse())

			sess, err := store.Get(ctx, "token")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.LastActivity.UTC()).To(gomega.BeTemporally("==", base))
		})

		ginkgo.It("should decline for an unknown id without error", func() {
			refreshed, err := store.Refresh(ctx, "missing", base.Add(-10*time.Minute), base)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed).To(gomega.BeFalse())
		})

		ginkgo.It("should never move last activity backwards", func() {
			ahead := base.Add(2 * time.Second)
			seed("token", ahead)

			refreshed, err := store.Refresh(ctx, "token", base.Add(-10*time.Minute), base)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed).To(gomega.BeTrue())

			sess, err := store.Get(ctx, "token")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.LastActivity.UTC()).To(gomega.BeTemporally("==", ahead))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove the session", func() {
			seed("token", base)

			gomega.Expect(store.Delete(ctx, "token")).To(gomega.Succeed())

			_, err := store.Get(ctx, "token")
			gomega.Expect(err).To(gomega.MatchError(ErrNotFound))
		})

		ginkgo.It("should be a no-op for an unknown id", func() {
			gomega.Expect(store.Delete(ctx, "missing")).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("with the Manager", func() {
		ginkgo.It("should drive the same lifecycle as the in-memory store", func() {
			manager := NewManager(store, 10*time.Minute, newQuietLogger())

			sess, err := manager.Issue(ctx, "9001015800087", "user")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			touched, err := manager.Touch(ctx, sess.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(touched.PrincipalID).To(gomega.Equal("9001015800087"))

			gomega.Expect(manager.Destroy(ctx, sess.ID)).To(gomega.Succeed())

			_, err = manager.Touch(ctx, sess.ID)
			gomega.Expect(err).To(gomega.MatchError(ErrNotFound))
		})
	})
})
