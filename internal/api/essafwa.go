package api

import (
	"context"
	"encoding/json"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// EssafwaOrders manages Essafwa orders (backend resource "elemana-orders").
type EssafwaOrders struct{ base }

func (e *EssafwaOrders) List(ctx context.Context) ([]models.EssafwaOrder, error) {
	var out []models.EssafwaOrder
	err := e.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/elemana-orders"}, &out)
	return out, err
}

func (e *EssafwaOrders) Create(ctx context.Context, o models.EssafwaOrder) (models.EssafwaOrder, error) {
	var out models.EssafwaOrder
	err := e.decode(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/elemana-orders/create", Body: o}, &out)
	return out, err
}

func (e *EssafwaOrders) Update(ctx context.Context, id int64, o models.EssafwaOrder) (models.EssafwaOrder, error) {
	var out models.EssafwaOrder
	err := e.decode(ctx, &apiclient.Request{
		Method: http.MethodPut,
		Path:   "/elemana-orders/update/" + apiclient.PathID(id),
		Body:   o,
	}, &out)
	return out, err
}

func (e *EssafwaOrders) Delete(ctx context.Context, id int64) error {
	return e.exec(ctx, &apiclient.Request{Method: http.MethodDelete, Path: "/elemana-orders/delete/" + apiclient.PathID(id)})
}

func (e *EssafwaOrders) PrintInvoice(ctx context.Context, orderID int64) (models.Document, error) {
	return e.document(ctx, &apiclient.Request{
		Method: http.MethodGet,
		Path:   "/elemana-orders/print/" + apiclient.PathID(orderID),
	}, "essafwa-invoice-"+apiclient.PathID(orderID)+".pdf")
}

// SendInvoice asks the backend to e-mail the invoice.
func (e *EssafwaOrders) SendInvoice(ctx context.Context, orderID int64) error {
	return e.exec(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/elemana-orders/send/" + apiclient.PathID(orderID)})
}

// Pay records a payment; paidAmount is sent only when set.
func (e *EssafwaOrders) Pay(ctx context.Context, orderID int64, p models.Payment) error {
	q := apiclient.Query{}.AddBool("allPaid", p.AllPaid)
	if p.PaidAmount != nil {
		q = q.AddFloat("paidAmount", *p.PaidAmount)
	}
	return e.exec(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   "/elemana-orders/paye/" + apiclient.PathID(orderID),
		Query:  q,
	})
}

// CreateJSON posts body unchanged and returns the backend's answer.
func (e *EssafwaOrders) CreateJSON(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return e.relay(ctx, http.MethodPost, "/elemana-orders/create", body)
}

// UpdateJSON sends only the fields present in body.
func (e *EssafwaOrders) UpdateJSON(ctx context.Context, id int64, body json.RawMessage) (json.RawMessage, error) {
	return e.relay(ctx, http.MethodPut, "/elemana-orders/update/"+apiclient.PathID(id), body)
}
