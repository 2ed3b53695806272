package auth

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"heybuddy/internal/app/server/token"
	"heybuddy/internal/domain/user"
)

type Handler struct {
	users      user.Servicer
	tokens     token.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(users user.Servicer, tokens token.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		users:      users,
		tokens:     tokens,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	userID, err := h.users.Register(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrLoginTaken) {
			return nil, huma.Error409Conflict("login already taken")
		}
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("registration failed", "error", err)
		return nil, huma.Error500InternalServerError("registration failed")
	}

	return &registerOutput{
		Body: RegisterResponse{ID: userID, Login: input.Body.Login},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.users.Authenticate(ctx, input.Body.Login, input.Body.Password)
	if err != nil {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}

	tok, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.log.Error("token issue failed", "error", err)
		return nil, huma.Error500InternalServerError("login failed")
	}

	return &loginOutput{
		Body: LoginResponse{Token: tok},
	}, nil
}
