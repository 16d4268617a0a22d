package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/optics
func (h *Handler) ListOptics(c *gin.Context) {
	optics, err := h.API.Optics.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, optics)
}

type autoValidateRequest struct {
	AutoValidate *bool `json:"autoValidate" binding:"required"`
}

// PUT /api/optics/:id/auto-validate
func (h *Handler) SetOpticAutoValidate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in autoValidateRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	if err := h.API.Optics.SetAutoValidate(c.Request.Context(), id, *in.AutoValidate); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/optics/:id/activate
func (h *Handler) ActivateOptic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Optics.Activate(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/optics/:id/deactivate
func (h *Handler) DeactivateOptic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Optics.Deactivate(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/optic-orders/:id/validate
func (h *Handler) ValidateOpticOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.OrderValidation
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.PaidAmount < 0 || in.TotalPrice < 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "amounts must not be negative", nil)
		return
	}
	if err := h.API.Optics.ValidateOrder(c.Request.Context(), id, in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.API.Category.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GET /api/categories/existing
func (h *Handler) ListExistingCategories(c *gin.Context) {
	cats, err := h.API.Category.ListExisting(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}
