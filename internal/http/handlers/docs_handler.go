package handlers

import (
	"context"
	"net/http"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type documentFunc func(ctx context.Context, id int64) (models.Document, error)

// printDocument fetches a per-order PDF from the backend and relays it.
func (h *Handler) printDocument(c *gin.Context, fetch documentFunc) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	doc, err := fetch(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendDocument(c, doc)
}

// sendDocument streams a PDF inline, or as an attachment with ?download=true.
func sendDocument(c *gin.Context, doc models.Document) {
	disposition := "inline"
	if boolQuery(c, "download") {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
