package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zackdotcomputer/capital-gains/internal/api/request"
	"github.com/zackdotcomputer/capital-gains/internal/api/response"
	"github.com/zackdotcomputer/capital-gains/internal/apperrors"
	"github.com/zackdotcomputer/capital-gains/internal/service"
	"github.com/zackdotcomputer/capital-gains/internal/validation"
)

// StatementHandler handles HTTP requests for statement endpoints. It serves
// as the HTTP layer adapter, parsing requests and delegating business logic
// to the statementService.
type StatementHandler struct {
	statementService *service.StatementService
}

// NewStatementHandler creates a new StatementHandler with the provided service dependency.
func NewStatementHandler(statementService *service.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
	}
}

// Digest handles POST requests to normalize and cache a decoded statement
// document. The body carries the generic nested tree produced by the
// upstream statement decoder; the response carries the cache ID, the
// resolved and untracked security lists and the normalized account ledger.
//
// Endpoint: POST /api/statement/digest
// Response: 201 Created with StatementRecord
// Error: 400 Bad Request if the body is not valid JSON or fails validation
// Error: 422 Unprocessable Entity if the document cannot be parsed as a statement
// Error: 500 Internal Server Error if caching fails
func (h *StatementHandler) Digest(w http.ResponseWriter, r *http.Request) {
	var req request.DigestStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateDigestStatement(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	record, err := h.statementService.Digest(r.Context(), req.Document, req.Label)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDocument) || errors.Is(err, apperrors.ErrMalformedDate) {
			response.RespondError(w, http.StatusUnprocessableEntity, "could not process this statement", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDigestStatement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, record)
}

// ListStatements handles GET requests to retrieve summaries of all cached
// statements, newest first.
//
// Endpoint: GET /api/statement
// Response: 200 OK with array of StatementSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *StatementHandler) ListStatements(w http.ResponseWriter, r *http.Request) {
	statements, err := h.statementService.ListStatements(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveStatements.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, statements)
}

// GetStatement handles GET requests to retrieve one cached statement with
// its full parsed payload.
//
// Endpoint: GET /api/statement/{uuid}
// Response: 200 OK with StatementRecord
// Error: 400 Bad Request if statement ID is invalid (validated by middleware)
// Error: 404 Not Found if statement not found
// Error: 500 Internal Server Error if retrieval fails
func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	statementID := chi.URLParam(r, "uuid")

	record, err := h.statementService.GetStatement(r.Context(), statementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStatementNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStatementNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveStatement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, record)
}

// DeleteStatement handles DELETE requests to remove one cached statement.
//
// Endpoint: DELETE /api/statement/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if statement ID is invalid (validated by middleware)
// Error: 404 Not Found if statement not found
// Error: 500 Internal Server Error if deletion fails
func (h *StatementHandler) DeleteStatement(w http.ResponseWriter, r *http.Request) {
	statementID := chi.URLParam(r, "uuid")

	if err := h.statementService.DeleteStatement(r.Context(), statementID); err != nil {
		if errors.Is(err, apperrors.ErrStatementNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStatementNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteStatement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
