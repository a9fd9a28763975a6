package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voxform/internal/domain"
	"voxform/internal/service"
)

// FormHandler handles form management endpoints.
type FormHandler struct {
	formService service.FormService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

type createFormRequest struct {
	Title            string                  `json:"title" binding:"required"`
	Description      string                  `json:"description"`
	Question         string                  `json:"question" binding:"required"`
	ExtractionSchema domain.ExtractionSchema `json:"extraction_schema" binding:"required"`
	UIHints          []string                `json:"ui_hints"`
	OwnerID          uuid.UUID               `json:"owner_id" binding:"required"`
}

type updateFormRequest struct {
	Title            *string                  `json:"title"`
	Description      *string                  `json:"description"`
	Question         *string                  `json:"question"`
	ExtractionSchema *domain.ExtractionSchema `json:"extraction_schema"`
	UIHints          *[]string                `json:"ui_hints"`
	IsActive         *bool                    `json:"is_active"`
}

// Create handles POST /api/v1/forms
func (h *FormHandler) Create(c *gin.Context) {
	var req createFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "title, question, extraction_schema and owner_id are required")
		return
	}

	form, err := h.formService.Create(c.Request.Context(), &service.CreateFormInput{
		OwnerID:          req.OwnerID,
		Title:            req.Title,
		Description:      req.Description,
		Question:         req.Question,
		ExtractionSchema: req.ExtractionSchema,
		UIHints:          req.UIHints,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, form)
}

// List handles GET /api/v1/forms with an optional owner_id filter.
func (h *FormHandler) List(c *gin.Context) {
	var ownerID *uuid.UUID
	if raw := c.Query("owner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid owner_id")
			return
		}
		ownerID = &id
	}
	h.list(c, ownerID)
}

// ListByOwner handles GET /api/v1/forms/owner/:ownerId
func (h *FormHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := parseUUIDParam(c, "ownerId")
	if !ok {
		return
	}
	h.list(c, &ownerID)
}

func (h *FormHandler) list(c *gin.Context, ownerID *uuid.UUID) {
	forms, err := h.formService.List(c.Request.Context(), ownerID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, forms)
}

// GetByID handles GET /api/v1/forms/:id
func (h *FormHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	form, err := h.formService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, form)
}

// Update handles PATCH /api/v1/forms/:id
func (h *FormHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req updateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "invalid request body")
		return
	}

	form, err := h.formService.Update(c.Request.Context(), id, &service.UpdateFormInput{
		Title:            req.Title,
		Description:      req.Description,
		Question:         req.Question,
		ExtractionSchema: req.ExtractionSchema,
		UIHints:          req.UIHints,
		IsActive:         req.IsActive,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, form)
}

// Delete handles DELETE /api/v1/forms/:id
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "form deleted"})
}

// respondBindError reports schema decoding problems with their own code.
func respondBindError(c *gin.Context, err error, msg string) {
	if errors.Is(err, domain.ErrInvalidSchema) {
		HandleError(c, err)
		return
	}
	RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", msg)
}
