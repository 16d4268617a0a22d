package api

import (
	"context"
	"encoding/json"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// Marketing manages bilingual marketing messages.
type Marketing struct{ base }

func (m *Marketing) Create(ctx context.Context, msg models.MarketingMessage) (models.MarketingMessage, error) {
	var out models.MarketingMessage
	err := m.decode(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/marketing/create", Body: msg}, &out)
	return out, err
}

func (m *Marketing) List(ctx context.Context) ([]models.MarketingMessage, error) {
	var out []models.MarketingMessage
	err := m.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/marketing/all"}, &out)
	return out, err
}

func (m *Marketing) Get(ctx context.Context, id int64) (models.MarketingMessage, error) {
	var out models.MarketingMessage
	err := m.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/marketing/" + apiclient.PathID(id)}, &out)
	return out, err
}

func (m *Marketing) Update(ctx context.Context, id int64, msg models.MarketingMessage) (models.MarketingMessage, error) {
	var out models.MarketingMessage
	err := m.decode(ctx, &apiclient.Request{
		Method: http.MethodPut,
		Path:   "/marketing/update/" + apiclient.PathID(id),
		Body:   msg,
	}, &out)
	return out, err
}

func (m *Marketing) Delete(ctx context.Context, id int64) error {
	return m.exec(ctx, &apiclient.Request{Method: http.MethodDelete, Path: "/marketing/delete/" + apiclient.PathID(id)})
}

// CreateJSON posts body unchanged and returns the backend's answer.
func (m *Marketing) CreateJSON(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return m.relay(ctx, http.MethodPost, "/marketing/create", body)
}

// UpdateJSON sends only the fields present in body.
func (m *Marketing) UpdateJSON(ctx context.Context, id int64, body json.RawMessage) (json.RawMessage, error) {
	return m.relay(ctx, http.MethodPut, "/marketing/update/"+apiclient.PathID(id), body)
}
