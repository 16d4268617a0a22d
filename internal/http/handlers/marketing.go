package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
)

// normalizeMessage collapses the whitespace admins paste into titles. Only
// fields the caller sent are touched.
func normalizeMessage(fields map[string]json.RawMessage) error {
	if err := rewriteString(fields, "title", utils.NormalizeSpace); err != nil {
		return err
	}
	if err := rewriteString(fields, "messageFr", strings.TrimSpace); err != nil {
		return err
	}
	return rewriteString(fields, "messageAr", strings.TrimSpace)
}

// checkMessage validates the fields present. A full message (create) needs
// a title and at least one text. An update may send any subset, but a title
// it sends must not be blank and it may not blank both texts at once.
func checkMessage(fields map[string]json.RawMessage, full bool) error {
	var m models.MarketingMessage
	if err := json.Unmarshal(encodeObject(fields), &m); err != nil {
		return err
	}
	_, hasTitle := fields["title"]
	_, hasFr := fields["messageFr"]
	_, hasAr := fields["messageAr"]
	if (full || hasTitle) && m.Title == "" {
		return errors.New("title is required")
	}
	switch {
	case full && m.MessageFr == "" && m.MessageAr == "":
		return errors.New("at least one message is required")
	case !full && hasFr && hasAr && m.MessageFr == "" && m.MessageAr == "":
		return errors.New("at least one message is required")
	}
	return nil
}

func (h *Handler) bindMessage(c *gin.Context, full bool) (json.RawMessage, bool) {
	_, fields, ok := bindObject(c)
	if !ok {
		return nil, false
	}
	if full {
		delete(fields, "id")
	}
	if err := normalizeMessage(fields); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return nil, false
	}
	if err := checkMessage(fields, full); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return nil, false
	}
	return encodeObject(fields), true
}

// GET /api/marketing
func (h *Handler) ListMarketing(c *gin.Context) {
	msgs, err := h.API.Marketing.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// GET /api/marketing/:id
func (h *Handler) GetMarketing(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msg, err := h.API.Marketing.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// POST /api/marketing
func (h *Handler) CreateMarketing(c *gin.Context) {
	body, ok := h.bindMessage(c, true)
	if !ok {
		return
	}
	out, err := h.API.Marketing.CreateJSON(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusCreated, out)
}

// PUT /api/marketing/:id
func (h *Handler) UpdateMarketing(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	body, ok := h.bindMessage(c, false)
	if !ok {
		return
	}
	out, err := h.API.Marketing.UpdateJSON(c.Request.Context(), id, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondRelayed(c, http.StatusOK, out)
}

// DELETE /api/marketing/:id
func (h *Handler) DeleteMarketing(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.API.Marketing.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
