package middleware

import (
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/payment-portal/internal"
)

func guardRequest(p *internal.Principal) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	if p != nil {
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
	}
	return req
}

var _ = ginkgo.Describe("RouteGuards", func() {
	var (
		recorder   *httptest.ResponseRecorder
		nextCalled bool
		next       http.Handler
	)

	ginkgo.BeforeEach(func() {
		recorder = httptest.NewRecorder()
		nextCalled = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		})
	})

	ginkgo.Describe("RequireStaff", func() {
		ginkgo.It("should pass a staff principal through", func() {
			p := &internal.Principal{ID: "clerk@portal.local", Kind: internal.PrincipalStaff}

			RequireStaff(next).ServeHTTP(recorder, guardRequest(p))

			gomega.Expect(nextCalled).To(gomega.BeTrue())
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should reject an anonymous request with the staff denial", func() {
			RequireStaff(next).ServeHTTP(recorder, guardRequest(nil))

			gomega.Expect(nextCalled).To(gomega.BeFalse())
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(recorder.Body.String()).To(gomega.ContainSubstring("Staff login required"))
		})

		ginkgo.It("should reject a user session on a staff route", func() {
			p := &internal.Principal{ID: "9001015800087", Kind: internal.PrincipalUser}

			RequireStaff(next).ServeHTTP(recorder, guardRequest(p))

			gomega.Expect(nextCalled).To(gomega.BeFalse())
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RequireUser", func() {
		ginkgo.It("should pass a user principal through", func() {
			p := &internal.Principal{ID: "9001015800087", Kind: internal.PrincipalUser}

			RequireUser(next).ServeHTTP(recorder, guardRequest(p))

			gomega.Expect(nextCalled).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a staff session on a user route", func() {
			p := &internal.Principal{ID: "clerk@portal.local", Kind: internal.PrincipalStaff}

			RequireUser(next).ServeHTTP(recorder, guardRequest(p))

			gomega.Expect(nextCalled).To(gomega.BeFalse())
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject an anonymous request", func() {
			RequireUser(next).ServeHTTP(recorder, guardRequest(nil))

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.Describe("RequireSession", func() {
		ginkgo.It("should admit either principal kind", func() {
			for _, p := range []*internal.Principal{
				{ID: "9001015800087", Kind: internal.PrincipalUser},
				{ID: "clerk@portal.local", Kind: internal.PrincipalStaff},
			} {
				recorder = httptest.NewRecorder()
				nextCalled = false

				RequireSession(next).ServeHTTP(recorder, guardRequest(p))

				gomega.Expect(nextCalled).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should reject an anonymous request", func() {
			RequireSession(next).ServeHTTP(recorder, guardRequest(nil))

			gomega.Expect(nextCalled).To(gomega.BeFalse())
			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
