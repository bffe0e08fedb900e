package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mehmetcc/moviedesk/internal/form"
	"github.com/mehmetcc/moviedesk/internal/httpx"
	"go.uber.org/zap"
)

// resource is the CRUD shape every catalog collection shares:
// GET/POST/PUT on the collection, DELETE on /{id}.
type resource[T any] struct {
	client httpx.Client
	path   string
	noun   string
	logger *zap.Logger
}

func newResource[T any](client httpx.Client, name, noun string, logger *zap.Logger) *resource[T] {
	return &resource[T]{
		client: client,
		path:   "/api/" + name,
		noun:   noun,
		logger: logger.With(zap.String("resource", name)),
	}
}

func (r *resource[T]) list(ctx context.Context) ([]T, error) {
	raw, err := r.client.Fetch(ctx, r.path, nil)
	if err != nil {
		r.logger.Warn("list failed", zap.String("code", string(httpx.Code(err))), zap.Error(err))
		return nil, err
	}
	items, err := httpx.DecodeList[T](raw)
	if err != nil {
		r.logger.Warn("list decode failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed", zap.Int("count", len(items)))
	return items, nil
}

func (r *resource[T]) create(ctx context.Context, body any) error {
	if err := form.Validate(body); err != nil {
		return err
	}
	if _, err := r.client.Fetch(ctx, r.path, &httpx.Request{Method: http.MethodPost, Body: body}); err != nil {
		r.logger.Warn("create failed", zap.Error(err))
		return err
	}
	r.logger.Info("created")
	return nil
}

func (r *resource[T]) update(ctx context.Context, id int64, body any) error {
	if id == 0 {
		return &SelectionError{Noun: r.noun}
	}
	if err := form.Validate(body); err != nil {
		return err
	}
	if _, err := r.client.Fetch(ctx, r.path, &httpx.Request{Method: http.MethodPut, Body: body}); err != nil {
		r.logger.Warn("update failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	r.logger.Info("updated", zap.Int64("id", id))
	return nil
}

func (r *resource[T]) remove(ctx context.Context, id int64) error {
	path := r.path + "/" + strconv.FormatInt(id, 10)
	if _, err := r.client.Fetch(ctx, path, &httpx.Request{Method: http.MethodDelete}); err != nil {
		r.logger.Warn("delete failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	r.logger.Info("deleted", zap.Int64("id", id))
	return nil
}
