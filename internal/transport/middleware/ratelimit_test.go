package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RateLimiter", func() {
	var (
		limiter *RateLimiter
		clock   time.Time
	)

	ginkgo.BeforeEach(func() {
		limiter = NewRateLimiter(15*time.Minute, 5, false, testLogger())
		clock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return clock }
	})

	ginkgo.Describe("Allow", func() {
		ginkgo.It("should admit requests up to the budget and reject the next one", func() {
			for i := 0; i < 5; i++ {
				gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeTrue())
			}
			gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeFalse())
		})

		ginkgo.It("should keep budgets separate per client", func() {
			for i := 0; i < 5; i++ {
				gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeTrue())
			}
			gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeFalse())
			gomega.Expect(limiter.Allow("10.0.0.2")).To(gomega.BeTrue())
		})

		ginkgo.It("should reset the budget when the window rolls over", func() {
			for i := 0; i < 6; i++ {
				limiter.Allow("10.0.0.1")
			}
			gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeFalse())

			clock = clock.Add(15 * time.Minute)

			gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeTrue())
		})

		ginkgo.It("should keep rejecting inside the same window", func() {
			for i := 0; i < 6; i++ {
				limiter.Allow("10.0.0.1")
			}

			clock = clock.Add(14 * time.Minute)

			gomega.Expect(limiter.Allow("10.0.0.1")).To(gomega.BeFalse())
		})

		ginkgo.It("should admit exactly the budget under concurrent load", func() {
			var admitted int64
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if limiter.Allow("10.0.0.1") {
						atomic.AddInt64(&admitted, 1)
					}
				}()
			}
			wg.Wait()

			gomega.Expect(admitted).To(gomega.Equal(int64(5)))
		})
	})

	ginkgo.Describe("Middleware", func() {
		var (
			recorder *httptest.ResponseRecorder
			wrapped  http.Handler
		)

		ginkgo.BeforeEach(func() {
			recorder = httptest.NewRecorder()
			wrapped = limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
		})

		ginkgo.It("should reject an over-budget client with 429", func() {
			for i := 0; i < 5; i++ {
				req := httptest.NewRequest("GET", "/users", nil)
				req.RemoteAddr = "10.0.0.1:55000"
				wrapped.ServeHTTP(httptest.NewRecorder(), req)
			}

			req := httptest.NewRequest("GET", "/users", nil)
			req.RemoteAddr = "10.0.0.1:55001"
			wrapped.ServeHTTP(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusTooManyRequests))
			gomega.Expect(recorder.Body.String()).To(gomega.ContainSubstring("Too many requests"))
		})

		ginkgo.It("should key on the socket address and ignore the port", func() {
			for port := 0; port < 5; port++ {
				req := httptest.NewRequest("GET", "/users", nil)
				req.RemoteAddr = fmt.Sprintf("10.0.0.1:%d", 50000+port)
				wrapped.ServeHTTP(httptest.NewRecorder(), req)
			}

			req := httptest.NewRequest("GET", "/users", nil)
			req.RemoteAddr = "10.0.0.1:59999"
			wrapped.ServeHTTP(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusTooManyRequests))
		})

		ginkgo.It("should ignore X-Forwarded-For when no proxy is trusted", func() {
			for i := 0; i < 6; i++ {
				req := httptest.NewRequest("GET", "/users", nil)
				req.RemoteAddr = "10.0.0.1:55000"
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
				recorder = httptest.NewRecorder()
				wrapped.ServeHTTP(recorder, req)
			}

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusTooManyRequests))
		})

		ginkgo.Context("behind a trusted proxy", func() {
			ginkgo.BeforeEach(func() {
				limiter = NewRateLimiter(15*time.Minute, 5, true, testLogger())
				limiter.now = func() time.Time { return clock }
				wrapped = limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))
			})

			ginkgo.It("should key on the first forwarded address", func() {
				for i := 0; i < 6; i++ {
					req := httptest.NewRequest("GET", "/users", nil)
					req.RemoteAddr = "10.0.0.1:55000"
					req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
					recorder = httptest.NewRecorder()
					wrapped.ServeHTTP(recorder, req)
				}
				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusTooManyRequests))

				other := httptest.NewRequest("GET", "/users", nil)
				other.RemoteAddr = "10.0.0.1:55000"
				other.Header.Set("X-Forwarded-For", "198.51.100.8")
				otherRecorder := httptest.NewRecorder()
				wrapped.ServeHTTP(otherRecorder, other)

				gomega.Expect(otherRecorder.Code).To(gomega.Equal(http.StatusOK))
			})
		})
	})
})
