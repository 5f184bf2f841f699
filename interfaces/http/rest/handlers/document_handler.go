package handlers

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"

	"personawriter-backend/application/ports"
	"personawriter-backend/pkg/common"
)

// DocumentHandler handles one-shot document text extraction.
type DocumentHandler struct {
	extractor      ports.TextExtractor
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(extractor ports.TextExtractor, maxUploadBytes int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		extractor:      extractor,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ExtractTextResponse carries the extracted document text.
type ExtractTextResponse struct {
	Text string `json:"text"`
}

// UploadPDF handles POST /uploadPdf: multipart form field "pdf" in, plain
// text out. No generation is triggered; the client decides what to do with
// the text.
func (h *DocumentHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, _, err := r.FormFile("pdf")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	// The PDF reader needs random access, so buffer the upload.
	data, err := io.ReadAll(file)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	text, err := h.extractor.ExtractText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		h.logger.Warn("PDF extraction failed", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, ExtractTextResponse{Text: text})
}
