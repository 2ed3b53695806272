package document

import "context"

type Repository interface {
	Upsert(ctx context.Context, doc Document) error
	Find(ctx context.Context, ownerID int64, table, id string) (Document, error)
	List(ctx context.Context, ownerID int64, table string) ([]Document, error)
	Delete(ctx context.Context, ownerID int64, table, id string) error
}
