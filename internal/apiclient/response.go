package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"backoffice/internal/domain/models"
)

// Response is a fully read 2xx answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// envelopeKeys are the sibling keys tolerated next to "data" when unwrapping.
var envelopeKeys = map[string]bool{
	"data":    true,
	"message": true,
	"success": true,
	"status":  true,
	"code":    true,
}

// DecodeJSON decodes the body into dst, unwrapping a {"data": ...} envelope
// when the backend uses one. An empty body leaves dst untouched.
func (r *Response) DecodeJSON(dst any) error {
	body := bytes.TrimSpace(r.Body)
	if len(body) == 0 {
		return nil
	}
	if inner, ok := unwrapEnvelope(body); ok {
		body = inner
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unwrapEnvelope(body []byte) ([]byte, bool) {
	if body[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, false
	}
	data, ok := obj["data"]
	if !ok {
		return nil, false
	}
	for k := range obj {
		if !envelopeKeys[k] {
			return nil, false
		}
	}
	return data, true
}

// Document wraps a binary body, taking the filename from
// Content-Disposition when the backend sends one.
func (r *Response) Document(fallbackName string) models.Document {
	doc := models.Document{
		Filename:    fallbackName,
		ContentType: r.Header.Get("Content-Type"),
		Data:        r.Body,
	}
	if doc.ContentType == "" {
		doc.ContentType = "application/pdf"
	}
	if cd := r.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			doc.Filename = params["filename"]
		}
	}
	return doc
}
