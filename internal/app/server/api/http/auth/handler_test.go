package auth

import (
	"context"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"heybuddy/internal/app/server/token"
	"heybuddy/internal/domain/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, login, password string) (int64, error) {
	args := m.Called(ctx, login, password)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, login, password string) (user.User, error) {
	args := m.Called(ctx, login, password)
	return args.Get(0).(user.User), args.Error(1)
}

func newTestHandler(users user.Servicer) *Handler {
	tokens := token.NewService("test-secret", time.Hour)
	return NewHandler(users, tokens, slog.Default(), huma.Middlewares{})
}

func TestRegister(t *testing.T) {
	users := new(MockUserService)
	users.On("Register", mock.Anything, "alice", "correct horse").Return(int64(1), nil)

	h := newTestHandler(users)
	out, err := h.register(context.Background(), &registerInput{
		Body: credentials{Login: "alice", Password: "correct horse"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Body.ID)
	assert.Equal(t, "alice", out.Body.Login)
}

func TestRegisterConflict(t *testing.T) {
	users := new(MockUserService)
	users.On("Register", mock.Anything, "alice", mock.Anything).
		Return(int64(0), user.ErrLoginTaken)

	h := newTestHandler(users)
	_, err := h.register(context.Background(), &registerInput{
		Body: credentials{Login: "alice", Password: "correct horse"},
	})

	require.Error(t, err)
	var status huma.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 409, status.GetStatus())
}

func TestLoginIssuesValidToken(t *testing.T) {
	users := new(MockUserService)
	users.On("Authenticate", mock.Anything, "alice", "correct horse").
		Return(user.User{ID: 7, Login: "alice"}, nil)

	tokens := token.NewService("test-secret", time.Hour)
	h := NewHandler(users, tokens, slog.Default(), huma.Middlewares{})

	out, err := h.login(context.Background(), &loginInput{
		Body: credentials{Login: "alice", Password: "correct horse"},
	})

	require.NoError(t, err)
	userID, err := tokens.Validate(out.Body.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := new(MockUserService)
	users.On("Authenticate", mock.Anything, "alice", "wrong").
		Return(user.User{}, user.ErrInvalidAuth)

	h := newTestHandler(users)
	_, err := h.login(context.Background(), &loginInput{
		Body: credentials{Login: "alice", Password: "wrong"},
	})

	require.Error(t, err)
	var status huma.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 401, status.GetStatus())
}
