package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"librarium/internal/domain/catalogs/reader"
	"librarium/internal/infrastructure/storage/postgres"
)

// ReaderRepo implements reader.Repository.
type ReaderRepo struct {
	*BaseRepo[*reader.Reader]
}

var _ reader.Repository = (*ReaderRepo)(nil)

// NewReaderRepo creates a reader repository.
func NewReaderRepo(txm *postgres.TxManager) *ReaderRepo {
	return &ReaderRepo{
		BaseRepo: NewBaseRepo(txm, "readers", "reader",
			[]string{"name", "email"},
			func() *reader.Reader { return &reader.Reader{} }),
	}
}

// GetByEmail retrieves a reader by email.
func (r *ReaderRepo) GetByEmail(ctx context.Context, email string) (*reader.Reader, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"email": email}).
		Limit(1)
	return r.FindOne(ctx, q)
}
