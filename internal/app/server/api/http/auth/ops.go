package auth

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID:   "auth-register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Create an account",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in and receive a bearer token",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}
