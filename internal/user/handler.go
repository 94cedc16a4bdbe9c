package user

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payment-portal/internal/transport"
	"github.com/frahmantamala/payment-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListUsers handles GET /users. The route carries no session requirement;
// the JSON encoding of the model excludes the password hash.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, users)
}
