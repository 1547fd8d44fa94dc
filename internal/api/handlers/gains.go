package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zackdotcomputer/capital-gains/internal/api/response"
	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/service"
	"github.com/zackdotcomputer/capital-gains/internal/validation"
)

// GainsHandler handles HTTP requests for realized-gains calculations.
type GainsHandler struct {
	gainsService *service.GainsService
}

// NewGainsHandler creates a new GainsHandler with the provided service dependency.
func NewGainsHandler(gainsService *service.GainsService) *GainsHandler {
	return &GainsHandler{
		gainsService: gainsService,
	}
}

// Gains handles GET requests to compute realized capital gains for a cached
// statement over an inclusive date window.
//
// Endpoint: GET /api/statement/{uuid}/gains?from=YYYY-MM-DD&to=YYYY-MM-DD
// Response: 200 OK with Calculations
// Error: 400 Bad Request if the window parameters are missing or invalid
// Error: 404 Not Found if statement not found
// Error: 409 Conflict if the ledger lacks the purchase history to cover a sale
// Error: 500 Internal Server Error if the computation fails
func (h *GainsHandler) Gains(w http.ResponseWriter, r *http.Request) {
	statementID := chi.URLParam(r, "uuid")

	from, to, err := validation.ValidateGainsWindow(
		r.URL.Query().Get("from"),
		r.URL.Query().Get("to"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	calculations, err := h.gainsService.Calculate(r.Context(), statementID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStatementNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStatementNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInsufficientHistory):
			response.RespondError(w, http.StatusConflict, "could not process this statement", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCalculateGains.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, calculations)
}
