package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/transport"
	"github.com/frahmantamala/payment-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// CreatePayment handles POST /payments. The route is deliberately open:
// the portal accepts payment submissions without a session and attributes
// them to whatever account the body names.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var dto CreatePaymentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.CreatePayment(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

// GetUserPayments handles GET /payments: every payment naming the session
// user as source or recipient.
func (h *Handler) GetUserPayments(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok || p.Kind != internal.PrincipalUser {
		h.HandleServiceError(w, internal.ErrUserRequired)
		return
	}

	payments, err := h.Service.PaymentsForAccount(r.Context(), p.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, payments)
}

// GetAllPayments handles GET /staffpayments.
func (h *Handler) GetAllPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.AllPayments(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, payments)
}

// UpdateStatus handles PATCH /payments/{id}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payment ID")
		return
	}

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	changedBy := ""
	if p, ok := internal.PrincipalFromContext(r.Context()); ok {
		changedBy = p.ID
	}

	updated, err := h.Service.UpdateStatus(r.Context(), id, dto, changedBy)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}
