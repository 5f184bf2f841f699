package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"personawriter-backend/application/services"
	"personawriter-backend/domain/core/valueobjects"
	"personawriter-backend/pkg/auth"
	"personawriter-backend/pkg/common"
	apperrors "personawriter-backend/pkg/errors"
	"personawriter-backend/pkg/utils"
)

// PersonaHandler handles persona-related HTTP requests
type PersonaHandler struct {
	personas *services.PersonaService
	logger   *zap.Logger
}

// NewPersonaHandler creates a new persona handler
func NewPersonaHandler(personas *services.PersonaService, logger *zap.Logger) *PersonaHandler {
	return &PersonaHandler{personas: personas, logger: logger}
}

// CreatePersonaRequest represents the request body for creating a persona
type CreatePersonaRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Tone   string `json:"tone" validate:"max=200"`
	Style  string `json:"style" validate:"max=200"`
	Domain string `json:"domain" validate:"max=200"`
}

// DeletePersonaRequest represents the body-based delete variant
type DeletePersonaRequest struct {
	ID string `json:"id" validate:"required"`
}

// Create handles POST /personas
func (h *PersonaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonaRequest
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	persona, err := h.personas.Create(r.Context(), userCtx.UserID, valueobjects.VoiceProfile{
		Name:   req.Name,
		Tone:   req.Tone,
		Style:  req.Style,
		Domain: req.Domain,
	})
	if err != nil {
		h.logger.Error("Failed to create persona", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatusOf(err), "Failed to create persona")
		return
	}

	common.RespondJSON(w, http.StatusOK, persona)
}

// List handles GET /personas
func (h *PersonaHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	personas, err := h.personas.List(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("Failed to list personas", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatusOf(err), "Failed to fetch personas")
		return
	}

	common.RespondJSON(w, http.StatusOK, personas)
}

// Delete handles DELETE /personas with the id in the request body.
func (h *PersonaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeletePersonaRequest
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	h.deleteByID(w, r, req.ID)
}

// DeleteByID handles DELETE /personas/{id}. Same capability as Delete; the
// two routes share one enforced ownership contract.
func (h *PersonaHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, chi.URLParam(r, "personaID"))
}

func (h *PersonaHandler) deleteByID(w http.ResponseWriter, r *http.Request, personaID string) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.personas.Delete(r.Context(), userCtx.UserID, personaID); err != nil {
		h.logger.Warn("Failed to delete persona",
			zap.Error(err),
			zap.String("personaID", personaID),
			zap.String("userID", userCtx.UserID),
		)
		common.RespondError(w, apperrors.HTTPStatusOf(err), "Failed to delete")
		return
	}

	common.RespondMessage(w, http.StatusOK, "Deleted")
}
