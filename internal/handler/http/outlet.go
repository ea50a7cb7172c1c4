package http

import (
	"net/http"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/attenda-hq/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OutletHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type outletHandlerImpl struct {
	outletService outlet.OutletService
}

func NewOutletHandler(outletService outlet.OutletService) OutletHandler {
	return &outletHandlerImpl{
		outletService: outletService,
	}
}

// Get implements OutletHandler.
func (h *outletHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.outletService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements OutletHandler.
func (h *outletHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.outletService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
