package document

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearerSecurity = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/{table}",
		Summary:     "List the caller's records in a collection",
		Tags:        []string{"documents"},
		Security:    bearerSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/{table}",
		Summary:     "Create or replace a record",
		Description: "Clients replay offline mutations at least once, so creating an existing id acts as an update.",
		Tags:        []string{"documents"},
		Security:    bearerSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/{table}/{id}",
		Summary:     "Fetch one record",
		Tags:        []string{"documents"},
		Security:    bearerSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/{table}/{id}",
		Summary:     "Replace a record",
		Tags:        []string{"documents"},
		Security:    bearerSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "documents-delete",
		Method:      http.MethodDelete,
		Path:        "/api/v1/{table}/{id}",
		Summary:     "Delete a record",
		Description: "Deleting an id that is already gone succeeds; queued deletions may arrive twice.",
		Tags:        []string{"documents"},
		Security:    bearerSecurity,
		Middlewares: h.middleware,
	}
}
