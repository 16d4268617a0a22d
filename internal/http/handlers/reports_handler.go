package handlers

import (
	"context"
	"net/http"
	"strconv"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

type reportFunc func(ctx context.Context, f services.ReportFilter) (models.Document, error)

func (h *Handler) report(c *gin.Context, pick func(services.ReportsService) reportFunc) {
	f := services.ReportFilter{UnpaidOnly: boolQuery(c, "unpaid")}
	if raw := c.Query("optic"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, http.StatusBadRequest, "invalid_id", "optic is not a valid id", nil)
			return
		}
		f.OpticID = id
	}
	svc := h.Reports
	svc.Docs.RequestID = middleware.GetRequestID(c)
	doc, err := pick(svc)(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendDocument(c, doc)
}

// GET /api/reports/cnam.pdf
func (h *Handler) CnamReport(c *gin.Context) {
	h.report(c, func(s services.ReportsService) reportFunc { return s.CnamReport })
}

// GET /api/reports/essafwa.pdf
func (h *Handler) EssafwaReport(c *gin.Context) {
	h.report(c, func(s services.ReportsService) reportFunc { return s.EssafwaReport })
}

// GET /api/reports/glasses.pdf
func (h *Handler) GlassesReport(c *gin.Context) {
	h.report(c, func(s services.ReportsService) reportFunc { return s.GlassesReport })
}

// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	d, err := h.Dashboard.Load(c.Request.Context(), middleware.GetRequestID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
