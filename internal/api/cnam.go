package api

import (
	"context"
	"encoding/json"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// CnamOrders manages CNAM orders.
type CnamOrders struct{ base }

func (c *CnamOrders) List(ctx context.Context) ([]models.CnamOrder, error) {
	var out []models.CnamOrder
	err := c.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/cnam-orders"}, &out)
	return out, err
}

func (c *CnamOrders) Create(ctx context.Context, o models.CnamOrder) (models.CnamOrder, error) {
	var out models.CnamOrder
	err := c.decode(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/cnam-orders/create", Body: o}, &out)
	return out, err
}

func (c *CnamOrders) Update(ctx context.Context, id int64, o models.CnamOrder) (models.CnamOrder, error) {
	var out models.CnamOrder
	err := c.decode(ctx, &apiclient.Request{
		Method: http.MethodPut,
		Path:   "/cnam-orders/update/" + apiclient.PathID(id),
		Body:   o,
	}, &out)
	return out, err
}

func (c *CnamOrders) Delete(ctx context.Context, id int64) error {
	return c.exec(ctx, &apiclient.Request{Method: http.MethodDelete, Path: "/cnam-orders/delete/" + apiclient.PathID(id)})
}

// PrintInvoice downloads the invoice PDF.
func (c *CnamOrders) PrintInvoice(ctx context.Context, orderID int64) (models.Document, error) {
	return c.document(ctx, &apiclient.Request{
		Method: http.MethodGet,
		Path:   "/cnam-orders/print/" + apiclient.PathID(orderID),
	}, "cnam-invoice-"+apiclient.PathID(orderID)+".pdf")
}

// PrintCard downloads the CNAM card PDF.
func (c *CnamOrders) PrintCard(ctx context.Context, orderID int64) (models.Document, error) {
	return c.document(ctx, &apiclient.Request{
		Method: http.MethodGet,
		Path:   "/cnam-orders/print-card/" + apiclient.PathID(orderID),
	}, "cnam-card-"+apiclient.PathID(orderID)+".pdf")
}

// CreateJSON posts body unchanged and returns the backend's answer.
func (c *CnamOrders) CreateJSON(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.relay(ctx, http.MethodPost, "/cnam-orders/create", body)
}

// UpdateJSON sends only the fields present in body.
func (c *CnamOrders) UpdateJSON(ctx context.Context, id int64, body json.RawMessage) (json.RawMessage, error) {
	return c.relay(ctx, http.MethodPut, "/cnam-orders/update/"+apiclient.PathID(id), body)
}
