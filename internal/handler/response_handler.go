package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voxform/internal/export"
	"voxform/internal/service"
)

// ResponseHandler handles response submission and query endpoints.
type ResponseHandler struct {
	responseService service.ResponseService
}

// NewResponseHandler creates a new ResponseHandler.
func NewResponseHandler(responseService service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseService: responseService}
}

type submitRequest struct {
	FormID     uuid.UUID              `json:"form_id" binding:"required"`
	Transcript string                 `json:"transcript"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// Submit handles POST /api/v1/responses/submit
func (h *ResponseHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "form_id is required")
		return
	}

	var userAgent *string
	if ua := c.GetHeader("User-Agent"); ua != "" {
		userAgent = &ua
	}

	result, err := h.responseService.Submit(c.Request.Context(), &service.SubmitResponseInput{
		FormID:     req.FormID,
		Transcript: req.Transcript,
		Metadata:   req.Metadata,
		UserAgent:  userAgent,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// List handles GET /api/v1/responses with an optional form_id filter.
func (h *ResponseHandler) List(c *gin.Context) {
	var formID *uuid.UUID
	if raw := c.Query("form_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid form_id")
			return
		}
		formID = &id
	}
	offset, limit := parsePagination(c)

	records, total, err := h.responseService.List(c.Request.Context(), formID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/responses/:id
func (h *ResponseHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.responseService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}

// ListByForm handles GET /api/v1/responses/form/:formId
func (h *ResponseHandler) ListByForm(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "formId")
	if !ok {
		return
	}

	records, err := h.responseService.ListByForm(c.Request.Context(), formID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}

// Export handles GET /api/v1/forms/:id/responses/export?format=csv|xlsx
func (h *ResponseHandler) Export(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.responseService.Export(c.Request.Context(), formID, format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(formID)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
