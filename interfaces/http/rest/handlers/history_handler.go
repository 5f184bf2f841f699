package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"personawriter-backend/application/services"
	"personawriter-backend/pkg/auth"
	"personawriter-backend/pkg/common"
	apperrors "personawriter-backend/pkg/errors"
)

// HistoryHandler serves the artifact history listing and its clear-all.
type HistoryHandler struct {
	generation *services.GenerationService
	logger     *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(generation *services.GenerationService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{generation: generation, logger: logger}
}

// List handles GET /history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	artifacts, err := h.generation.History(r.Context(), userCtx.UserID, services.DefaultHistoryLimit)
	if err != nil {
		h.logger.Error("Failed to fetch history", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatusOf(err), "Failed to fetch history")
		return
	}

	common.RespondJSON(w, http.StatusOK, artifacts)
}

// Clear handles DELETE /history. Only the caller's artifacts are removed.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if _, err := h.generation.ClearHistory(r.Context(), userCtx.UserID); err != nil {
		h.logger.Error("Failed to clear history", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatusOf(err), "Error clearing")
		return
	}

	common.RespondMessage(w, http.StatusOK, "Cleared")
}
