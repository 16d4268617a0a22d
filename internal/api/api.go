// Package api maps each backend resource to named operations. Every
// operation issues exactly one request through a Doer and hands transport
// and status errors back unchanged.
package api

import (
	"context"
	"encoding/json"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"

	"go.uber.org/zap"
)

// Doer is the transport the modules depend on; *apiclient.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req *apiclient.Request) (*apiclient.Response, error)
}

// Services bundles every module over one transport.
type Services struct {
	Auth      *Auth
	Cabinet   *Cabinet
	Cnam      *CnamOrders
	Essafwa   *EssafwaOrders
	FireBase  *FireBase
	Glasses   *GlassesOrders
	Marketing *Marketing
	Optics    *Optics
	Category  *Categories
}

// New wires all modules to doer. A nil logger disables diagnostics.
func New(doer Doer, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Services{
		Auth:      &Auth{base: newBase(doer, logger, "auth")},
		Cabinet:   &Cabinet{base: newBase(doer, logger, "cabinet")},
		Cnam:      &CnamOrders{base: newBase(doer, logger, "cnam")},
		Essafwa:   &EssafwaOrders{base: newBase(doer, logger, "essafwa")},
		FireBase:  &FireBase{base: newBase(doer, logger, "firebase")},
		Glasses:   &GlassesOrders{base: newBase(doer, logger, "glasses")},
		Marketing: &Marketing{base: newBase(doer, logger, "marketing")},
		Optics:    &Optics{base: newBase(doer, logger, "optic")},
		Category:  &Categories{base: newBase(doer, logger, "category")},
	}
}

type base struct {
	doer   Doer
	logger *zap.Logger
}

func newBase(doer Doer, logger *zap.Logger, module string) base {
	return base{doer: doer, logger: logger.With(zap.String("module", module))}
}

// send performs req and logs failures before returning them untouched.
func (b base) send(ctx context.Context, req *apiclient.Request) (*apiclient.Response, error) {
	resp, err := b.doer.Do(ctx, req)
	if err != nil {
		b.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", apiclient.RequestIDFrom(ctx)),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (b base) decode(ctx context.Context, req *apiclient.Request, dst any) error {
	resp, err := b.send(ctx, req)
	if err != nil {
		return err
	}
	return resp.DecodeJSON(dst)
}

// relay sends body exactly as given and returns the answer with any
// {"data": ...} envelope removed. Used where the caller's fields must reach
// the backend untouched, including ones the DTOs do not model.
func (b base) relay(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	err := b.decode(ctx, &apiclient.Request{Method: method, Path: path, Body: body}, &out)
	return out, err
}

func (b base) exec(ctx context.Context, req *apiclient.Request) error {
	_, err := b.send(ctx, req)
	return err
}

func (b base) document(ctx context.Context, req *apiclient.Request, fallback string) (models.Document, error) {
	req.Accept = "application/pdf"
	resp, err := b.send(ctx, req)
	if err != nil {
		return models.Document{}, err
	}
	return resp.Document(fallback), nil
}
