package document

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, doc Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) Find(ctx context.Context, ownerID int64, table, id string) (Document, error) {
	args := m.Called(ctx, ownerID, table, id)
	return args.Get(0).(Document), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, ownerID int64, table string) ([]Document, error) {
	args := m.Called(ctx, ownerID, table)
	return args.Get(0).([]Document), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, ownerID int64, table, id string) error {
	args := m.Called(ctx, ownerID, table, id)
	return args.Error(0)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSaveUpserts(t *testing.T) {
	repo := new(MockRepository)
	doc := json.RawMessage(`{"id":"n1","title":"hello"}`)
	repo.On("Upsert", mock.Anything, Document{
		OwnerID: 7, Table: "notes", ID: "n1", Doc: doc,
	}).Return(nil)

	svc := newTestService(repo)
	id, err := svc.Save(context.Background(), 7, "notes", doc)

	require.NoError(t, err)
	assert.Equal(t, "n1", id)
	repo.AssertExpectations(t)
}

func TestSaveRejectsUnknownTable(t *testing.T) {
	svc := newTestService(new(MockRepository))

	_, err := svc.Save(context.Background(), 7, "secrets", json.RawMessage(`{"id":"x"}`))
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestSaveRequiresID(t *testing.T) {
	svc := newTestService(new(MockRepository))

	_, err := svc.Save(context.Background(), 7, "notes", json.RawMessage(`{"title":"no id"}`))
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestDeleteValidatesTable(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Delete", mock.Anything, int64(7), "tasks", "t1").Return(nil)

	svc := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), 7, "tasks", "t1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), 7, "nope", "t1"), ErrUnknownTable)
}
