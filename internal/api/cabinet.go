package api

import (
	"context"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// Cabinet is the admin view over all orders.
type Cabinet struct{ base }

func (c *Cabinet) ListOrders(ctx context.Context) ([]models.CabinetOrder, error) {
	var out []models.CabinetOrder
	err := c.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/admin/orders"}, &out)
	return out, err
}
