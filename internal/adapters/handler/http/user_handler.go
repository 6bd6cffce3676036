package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	log     *zap.Logger
}

func NewUserHandler(service ports.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	current := CurrentUser(r)
	if current == nil {
		respondError(w, r, h.log, errMissingToken)
		return
	}

	user, err := h.service.GetByID(r.Context(), current.ID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if user == nil {
		respondError(w, r, h.log, domain.NotFound("User not found"))
		return
	}

	respond(w, http.StatusOK, user, "Current user fetched successfully")
}
