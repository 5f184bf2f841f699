package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"personawriter-backend/application/services"
	"personawriter-backend/domain/core/valueobjects"
	"personawriter-backend/pkg/auth"
	"personawriter-backend/pkg/common"
	apperrors "personawriter-backend/pkg/errors"
	"personawriter-backend/pkg/utils"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20 // 1MB

// GenerationHandler handles content generation and artifact persistence.
type GenerationHandler struct {
	generation *services.GenerationService
	logger     *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generation *services.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{generation: generation, logger: logger}
}

// GenerateRequest represents the request body for generating content
type GenerateRequest struct {
	Persona  valueobjects.VoiceProfile `json:"persona"`
	Template string                    `json:"template" validate:"required"`
	Topic    string                    `json:"topic" validate:"required"`

	// Save opts into the combined workflow that records an artifact before
	// returning. Default keeps generation and persistence as two separate
	// calls (POST /saveGenerated).
	Save bool `json:"save,omitempty"`
}

// GenerateResponse represents the response for generated content
type GenerateResponse struct {
	Result string `json:"result"`
}

// SaveGeneratedRequest represents the request body for saving a result the
// client already received.
type SaveGeneratedRequest struct {
	Persona  valueobjects.VoiceProfile `json:"persona"`
	Topic    string                    `json:"topic" validate:"required"`
	Template string                    `json:"template" validate:"required"`
	Content  string                    `json:"content"`
}

// Generate handles POST /generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
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

	genReq := services.GenerateRequest{
		Persona:  req.Persona,
		Template: valueobjects.TemplateKind(req.Template),
		Topic:    req.Topic,
	}

	var result string
	if req.Save {
		result, err = h.generation.GenerateAndRecord(r.Context(), userCtx.UserID, genReq)
	} else {
		result, err = h.generation.Generate(r.Context(), genReq)
	}
	if err != nil {
		// Every provider failure variant collapses to one generic message at
		// this boundary; the variant was already logged with the error.
		common.RespondError(w, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	common.RespondJSON(w, http.StatusOK, GenerateResponse{Result: result})
}

// SaveGenerated handles POST /saveGenerated
func (h *GenerationHandler) SaveGenerated(w http.ResponseWriter, r *http.Request) {
	var req SaveGeneratedRequest
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

	artifact, err := h.generation.Record(r.Context(), userCtx.UserID, services.GenerateRequest{
		Persona:  req.Persona,
		Template: valueobjects.TemplateKind(req.Template),
		Topic:    req.Topic,
	}, req.Content)
	if err != nil {
		h.logger.Error("Failed to save generated content", zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatusOf(err), "Failed to save content")
		return
	}

	common.RespondJSON(w, http.StatusCreated, artifact)
}
