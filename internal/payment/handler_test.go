package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/payment"
	paymentPkg "github.com/frahmantamala/payment-portal/internal/payment"
)

type mockPaymentService struct {
	createError       error
	listError         error
	updateStatusError error
	created           *payment.Payment
	payments          []*payment.Payment
	updated           *payment.Payment
	listedAccount     string
	updateChangedBy   string
}

func (m *mockPaymentService) CreatePayment(_ context.Context, dto paymentPkg.CreatePaymentDTO) (*payment.Payment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if m.createError != nil {
		return nil, m.createError
	}
	return m.created, nil
}

func (m *mockPaymentService) PaymentsForAccount(_ context.Context, account string) ([]*payment.Payment, error) {
	m.listedAccount = account
	if m.listError != nil {
		return nil, m.listError
	}
	return m.payments, nil
}

func (m *mockPaymentService) AllPayments(_ context.Context) ([]*payment.Payment, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.payments, nil
}

func (m *mockPaymentService) UpdateStatus(_ context.Context, id int64, dto paymentPkg.UpdateStatusDTO, changedBy string) (*payment.Payment, error) {
	m.updateChangedBy = changedBy
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if m.updateStatusError != nil {
		return nil, m.updateStatusError
	}
	return m.updated, nil
}

func userPrincipal(idNumber string) *internal.Principal {
	return &internal.Principal{ID: idNumber, Kind: internal.PrincipalUser, SessionID: "session-token"}
}

func staffPrincipal(email string) *internal.Principal {
	return &internal.Principal{ID: email, Kind: internal.PrincipalStaff, SessionID: "session-token"}
}

func requestWithPrincipal(method, target string, body []byte, p *internal.Principal) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
	}
	return req
}

var _ = Describe("PaymentHandler", func() {
	var (
		handler  *paymentPkg.Handler
		service  *mockPaymentService
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		service = &mockPaymentService{}
		handler = paymentPkg.NewHandler(service)
		recorder = httptest.NewRecorder()
	})

	Describe("CreatePayment", func() {
		It("should accept an anonymous submission and return the created record", func() {
			service.created = &payment.Payment{ID: 7, Status: payment.StatusPending}
			body, _ := json.Marshal(map[string]interface{}{
				"paidFromAccount":        "9001015800087",
				"recipientName":          "Naledi Khumalo",
				"recipientAccountNumber": "62000001234",
				"branchCode":             "250655",
				"amount":                 1500.50,
			})
			req := requestWithPrincipal("POST", "/payments", body, nil)

			handler.CreatePayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			var response payment.Payment
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response.ID).To(Equal(int64(7)))
			Expect(response.Status).To(Equal(payment.StatusPending))
		})

		It("should return bad request for invalid JSON", func() {
			req := requestWithPrincipal("POST", "/payments", []byte("not json"), nil)

			handler.CreatePayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return validation details for a missing recipient name", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"paidFromAccount":        "9001015800087",
				"recipientAccountNumber": "62000001234",
				"branchCode":             "250655",
				"amount":                 10.0,
			})
			req := requestWithPrincipal("POST", "/payments", body, nil)

			handler.CreatePayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(ContainSubstring("recipientName"))
		})

		It("should reject unknown body fields", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"paidFromAccount":        "9001015800087",
				"recipientName":          "Naledi Khumalo",
				"recipientAccountNumber": "62000001234",
				"branchCode":             "250655",
				"amount":                 10.0,
				"unexpected":             "field",
			})
			req := requestWithPrincipal("POST", "/payments", body, nil)

			handler.CreatePayment(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GetUserPayments", func() {
		Context("when a user session is present", func() {
			It("should list payments for the session identity number", func() {
				service.payments = []*payment.Payment{
					{ID: 1, PaidFromAccount: "9001015800087"},
					{ID: 2, RecipientAccountNumber: "9001015800087"},
				}
				req := requestWithPrincipal("GET", "/payments", nil, userPrincipal("9001015800087"))

				handler.GetUserPayments(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(service.listedAccount).To(Equal("9001015800087"))

				var response []payment.Payment
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response).To(HaveLen(2))
			})
		})

		Context("when no principal is attached", func() {
			It("should return unauthorized", func() {
				req := requestWithPrincipal("GET", "/payments", nil, nil)

				handler.GetUserPayments(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			})
		})

		Context("when a staff principal calls the user listing", func() {
			It("should return unauthorized", func() {
				req := requestWithPrincipal("GET", "/payments", nil, staffPrincipal("clerk@portal.local"))

				handler.GetUserPayments(recorder, req)

				Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			})
		})
	})

	Describe("GetAllPayments", func() {
		It("should return every payment", func() {
			service.payments = []*payment.Payment{{ID: 1}, {ID: 2}, {ID: 3}}
			req := requestWithPrincipal("GET", "/staffpayments", nil, staffPrincipal("clerk@portal.local"))

			handler.GetAllPayments(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))

			var response []payment.Payment
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response).To(HaveLen(3))
		})
	})

	Describe("UpdateStatus", func() {
		updateRequest := func(id string, body []byte, p *internal.Principal) *http.Request {
			req := requestWithPrincipal("PATCH", "/payments/"+id, body, p)
			routeCtx := chi.NewRouteContext()
			routeCtx.URLParams.Add("id", id)
			return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		}

		It("should update the status and return the record", func() {
			service.updated = &payment.Payment{ID: 5, Status: payment.StatusCompleted}
			body, _ := json.Marshal(map[string]string{"status": "Completed"})
			req := updateRequest("5", body, staffPrincipal("clerk@portal.local"))

			handler.UpdateStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.updateChangedBy).To(Equal("clerk@portal.local"))

			var response payment.Payment
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Status).To(Equal(payment.StatusCompleted))
		})

		It("should return bad request for a non-numeric id", func() {
			body, _ := json.Marshal(map[string]string{"status": "Completed"})
			req := updateRequest("abc", body, staffPrincipal("clerk@portal.local"))

			handler.UpdateStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return bad request for an unknown status value", func() {
			body, _ := json.Marshal(map[string]string{"status": "Cancelled"})
			req := updateRequest("5", body, staffPrincipal("clerk@portal.local"))

			handler.UpdateStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
			Expect(recorder.Body.String()).To(ContainSubstring("Invalid status value"))
		})

		It("should return not found when the payment does not exist", func() {
			service.updateStatusError = internal.ErrPaymentNotFound
			body, _ := json.Marshal(map[string]string{"status": "Completed"})
			req := updateRequest("999", body, staffPrincipal("clerk@portal.local"))

			handler.UpdateStatus(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusNotFound))
		})
	})
})
