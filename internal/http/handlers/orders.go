package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/cabinet/orders
func (h *Handler) ListCabinetOrders(c *gin.Context) {
	orders, err := h.API.Cabinet.ListOrders(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/cnam-orders
func (h *Handler) ListCnamOrders(c *gin.Context) {
	orders, err := h.API.Cnam.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// POST /api/cnam-orders
func (h *Handler) CreateCnamOrder(c *gin.Context) {
	body, _, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.API.Cnam.CreateJSON(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusCreated, out)
}

// PUT /api/cnam-orders/:id
func (h *Handler) UpdateCnamOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	body, _, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.API.Cnam.UpdateJSON(c.Request.Context(), id, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusOK, out)
}

// DELETE /api/cnam-orders/:id
func (h *Handler) DeleteCnamOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Cnam.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/cnam-orders/:id/invoice
func (h *Handler) CnamInvoicePDF(c *gin.Context) {
	h.printDocument(c, h.API.Cnam.PrintInvoice)
}

// GET /api/cnam-orders/:id/card
func (h *Handler) CnamCardPDF(c *gin.Context) {
	h.printDocument(c, h.API.Cnam.PrintCard)
}

// GET /api/essafwa-orders
func (h *Handler) ListEssafwaOrders(c *gin.Context) {
	orders, err := h.API.Essafwa.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// POST /api/essafwa-orders
func (h *Handler) CreateEssafwaOrder(c *gin.Context) {
	body, _, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.API.Essafwa.CreateJSON(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusCreated, out)
}

// PUT /api/essafwa-orders/:id
func (h *Handler) UpdateEssafwaOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	body, _, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.API.Essafwa.UpdateJSON(c.Request.Context(), id, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusOK, out)
}

// DELETE /api/essafwa-orders/:id
func (h *Handler) DeleteEssafwaOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Essafwa.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/essafwa-orders/:id/invoice
func (h *Handler) EssafwaInvoicePDF(c *gin.Context) {
	h.printDocument(c, h.API.Essafwa.PrintInvoice)
}

// POST /api/essafwa-orders/:id/send-invoice
func (h *Handler) SendEssafwaInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Essafwa.SendInvoice(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/essafwa-orders/:id/pay
func (h *Handler) PayEssafwaOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.Payment
	if !BindJSONOrError(c, &in) {
		return
	}
	if in.PaidAmount != nil && *in.PaidAmount < 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "paidAmount must not be negative", nil)
		return
	}
	if err := h.API.Essafwa.Pay(c.Request.Context(), id, in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/glasses-orders
func (h *Handler) ListGlassesOrders(c *gin.Context) {
	orders, err := h.API.Glasses.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// POST /api/glasses-orders
func (h *Handler) CreateGlassesOrder(c *gin.Context) {
	body, _, ok := bindObject(c)
	if !ok {
		return
	}
	out, err := h.API.Glasses.CreateJSON(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusCreated, out)
}

// POST /api/glasses-orders/:id/send-invoice?optic=true
func (h *Handler) SendGlassesInvoice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Glasses.SendInvoice(c.Request.Context(), id, boolQuery(c, "optic")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type markPaidRequest struct {
	OrderIDs []int64 `json:"orderIds"`
}

// POST /api/optics/:id/orders/paid
func (h *Handler) MarkOpticOrdersPaid(c *gin.Context) {
	opticID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in markPaidRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	if err := h.API.Glasses.MarkOpticOrdersPaid(c.Request.Context(), opticID, in.OrderIDs); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
