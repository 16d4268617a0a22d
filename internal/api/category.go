package api

import (
	"context"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

type Categories struct{ base }

func (c *Categories) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/categories/all"}, &out)
	return out, err
}

// ListExisting returns only categories that currently have products.
func (c *Categories) ListExisting(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/categories/all-exist"}, &out)
	return out, err
}
