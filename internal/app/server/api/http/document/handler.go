package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"heybuddy/internal/app/server/api/http/middleware/auth"
	"heybuddy/internal/domain/document"
)

type Handler struct {
	service    document.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service document.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	ownerID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	docs, err := h.service.List(ctx, ownerID, input.Table)
	if err != nil {
		return nil, h.mapError(err)
	}

	records := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.Doc)
	}
	return &listOutput{
		Body: ListResponse{Records: records},
	}, nil
}

func (h *Handler) create(ctx context.Context, input *saveInput) (*saveOutput, error) {
	ownerID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	id, err := h.service.Save(ctx, ownerID, input.Table, input.RawBody)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &saveOutput{Body: SaveResponse{ID: id}}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*findOutput, error) {
	ownerID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	doc, err := h.service.Find(ctx, ownerID, input.Table, input.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &findOutput{Body: doc.Doc}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*saveOutput, error) {
	ownerID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(input.RawBody, &probe); err != nil {
		return nil, huma.Error422UnprocessableEntity("malformed document body")
	}
	if probe.ID != "" && probe.ID != input.ID {
		return nil, huma.Error422UnprocessableEntity(
			fmt.Sprintf("body id %q does not match path id %q", probe.ID, input.ID))
	}

	id, err := h.service.Save(ctx, ownerID, input.Table, input.RawBody)
	if err != nil {
		return nil, h.mapError(err)
	}

	return &saveOutput{Body: SaveResponse{ID: id}}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	ownerID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, ownerID, input.Table, input.ID); err != nil {
		return nil, h.mapError(err)
	}

	return &deleteOutput{Body: DeleteResponse{ID: input.ID}}, nil
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return huma.Error404NotFound("record not found")
	case errors.Is(err, document.ErrUnknownTable):
		return huma.Error404NotFound("unknown collection")
	case errors.Is(err, document.ErrMissingID):
		return huma.Error422UnprocessableEntity("document has no id field")
	default:
		h.log.Error("document operation failed", "error", err)
		return huma.Error500InternalServerError("internal error")
	}
}
