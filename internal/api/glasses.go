package api

import (
	"context"
	"encoding/json"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// GlassesOrders manages glasses orders placed by optics.
type GlassesOrders struct{ base }

func (g *GlassesOrders) List(ctx context.Context) ([]models.GlassesOrder, error) {
	var out []models.GlassesOrder
	err := g.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/glasses-orders/all"}, &out)
	return out, err
}

func (g *GlassesOrders) Create(ctx context.Context, o models.GlassesOrder) (models.GlassesOrder, error) {
	var out models.GlassesOrder
	err := g.decode(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/glasses-orders/create", Body: o}, &out)
	return out, err
}

// SendInvoice sends the invoice either to the optic or to the client.
func (g *GlassesOrders) SendInvoice(ctx context.Context, orderID int64, isOptic bool) error {
	return g.exec(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   "/glasses-orders/send/" + apiclient.PathID(orderID),
		Query:  apiclient.Query{}.AddBool("isOptic", isOptic),
	})
}

// MarkOpticOrdersPaid flags the given orders of one optic as paid.
func (g *GlassesOrders) MarkOpticOrdersPaid(ctx context.Context, opticID int64, orderIDs []int64) error {
	if orderIDs == nil {
		orderIDs = []int64{}
	}
	return g.exec(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   "/glasses-orders/mark-optic-orders-paid/" + apiclient.PathID(opticID),
		Body:   orderIDs,
	})
}

// CreateJSON posts body unchanged and returns the backend's answer.
func (g *GlassesOrders) CreateJSON(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return g.relay(ctx, http.MethodPost, "/glasses-orders/create", body)
}
