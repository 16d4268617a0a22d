package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid payload", err.Error())
		return false
	}
	return true
}

// maxRelayBody caps bodies the gateway relays to the backend.
const maxRelayBody = 1 << 20

// bindObject reads the body as a JSON object without decoding it into a DTO,
// so every field the caller sent (and only those) can be forwarded. raw is
// the body exactly as received.
func bindObject(c *gin.Context) (raw json.RawMessage, fields map[string]json.RawMessage, ok bool) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return nil, nil, false
	}
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRelayBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "request body could not be read", err.Error())
		return nil, nil, false
	}
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "body must be a JSON object", nil)
		return nil, nil, false
	}
	return raw, fields, true
}

// encodeObject re-encodes fields. Values are written back byte for byte.
func encodeObject(fields map[string]json.RawMessage) json.RawMessage {
	out, _ := json.Marshal(fields)
	return out
}

// rewriteString applies fn to the string field key when the caller sent it.
func rewriteString(fields map[string]json.RawMessage, key string, fn func(string) string) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%s must be a string", key)
	}
	enc, err := json.Marshal(fn(v))
	if err != nil {
		return err
	}
	fields[key] = enc
	return nil
}

// respondRelayed writes the backend's JSON answer as is.
func respondRelayed(c *gin.Context, status int, body json.RawMessage) {
	if len(body) == 0 {
		c.Status(status)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

// idParam parses a positive path id, answering 400 otherwise.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", name+" is not a valid id", nil)
		return 0, false
	}
	return id, true
}

func boolQuery(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}
