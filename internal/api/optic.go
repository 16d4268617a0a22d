package api

import (
	"context"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// Optics is the admin side of optic shops.
type Optics struct{ base }

func (o *Optics) List(ctx context.Context) ([]models.Optic, error) {
	var out []models.Optic
	err := o.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/admin/optics/all"}, &out)
	return out, err
}

func (o *Optics) SetAutoValidate(ctx context.Context, id int64, autoValidate bool) error {
	return o.exec(ctx, &apiclient.Request{
		Method: http.MethodPut,
		Path:   "/admin/optics/" + apiclient.PathID(id) + "/auto-validate",
		Query:  apiclient.Query{}.AddBool("autoValidate", autoValidate),
	})
}

func (o *Optics) ValidateOrder(ctx context.Context, orderID int64, v models.OrderValidation) error {
	return o.exec(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   "/admin/validate-order/" + apiclient.PathID(orderID),
		Query:  apiclient.Query{}.AddFloat("paidAmount", v.PaidAmount).AddFloat("totalPrice", v.TotalPrice),
	})
}

func (o *Optics) Activate(ctx context.Context, opticID int64) error {
	return o.exec(ctx, &apiclient.Request{Method: http.MethodPost, Path: "/admin/active-optic/" + apiclient.PathID(opticID)})
}

func (o *Optics) Deactivate(ctx context.Context, id int64) error {
	return o.exec(ctx, &apiclient.Request{Method: http.MethodPut, Path: "/admin/deactivate-optic/" + apiclient.PathID(id)})
}
