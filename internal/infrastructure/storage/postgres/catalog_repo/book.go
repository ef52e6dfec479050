package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain"
	"librarium/internal/domain/catalogs/book"
	"librarium/internal/infrastructure/storage/postgres"
)

// openIssuesSubquery selects copies with an open loan. Availability is
// always derived from the ledger, never cached.
const openIssuesSubquery = "SELECT copy_id FROM issues WHERE NOT is_returned"

// BookRepo implements book.Repository.
type BookRepo struct {
	*BaseRepo[*book.Book]
	copyCols []string
	txm      *postgres.TxManager
}

var _ book.Repository = (*BookRepo)(nil)

// NewBookRepo creates a book repository.
func NewBookRepo(txm *postgres.TxManager) *BookRepo {
	return &BookRepo{
		BaseRepo: NewBaseRepo(txm, "books", "book",
			[]string{"title", "author"},
			func() *book.Book { return &book.Book{} }),
		copyCols: postgres.ExtractDBColumns[book.Copy](),
		txm:      txm,
	}
}

// GetByISBN retrieves a book by its ISBN.
func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"isbn": isbn}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// ListByCatalog retrieves books of a single catalog.
func (r *BookRepo) ListByCatalog(ctx context.Context, catalogID id.ID, filter domain.ListFilter) (domain.ListResult[*book.Book], error) {
	result := domain.ListResult[*book.Book]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().Where(squirrel.Eq{"catalog_id": catalogID})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"author": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list by catalog: %w", err)
	}

	return result, nil
}

// DeleteByCatalogs removes books and their copies for the given catalogs.
// Copies referenced by loan documents make the delete fail with a conflict.
func (r *BookRepo) DeleteByCatalogs(ctx context.Context, catalogIDs []id.ID) (int64, error) {
	if len(catalogIDs) == 0 {
		return 0, nil
	}

	querier := r.querier(ctx)

	copySQL, copyArgs, err := r.Builder().
		Delete("book_copies").
		Where(squirrel.Expr(
			"book_id IN (SELECT id FROM books WHERE catalog_id = ANY(?))", catalogIDs)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build copy delete: %w", err)
	}

	if _, err := querier.Exec(ctx, copySQL, copyArgs...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return 0, apperror.NewConflict("cannot delete: copies are referenced by loan documents").
				WithCause(err)
		}
		return 0, fmt.Errorf("delete copies: %w", err)
	}

	bookSQL, bookArgs, err := r.Builder().
		Delete("books").
		Where(squirrel.Expr("catalog_id = ANY(?)", catalogIDs)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build book delete: %w", err)
	}

	result, err := querier.Exec(ctx, bookSQL, bookArgs...)
	if err != nil {
		return 0, fmt.Errorf("delete books: %w", err)
	}

	return result.RowsAffected(), nil
}

// --- Copies ---

func (r *BookRepo) copySelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.copyCols...).
		From("book_copies")
}

// CreateCopy inserts a new copy.
func (r *BookRepo) CreateCopy(ctx context.Context, copy *book.Copy) error {
	data := postgres.StructToMap(copy)

	filteredData := make(map[string]any, len(r.copyCols))
	for _, col := range r.copyCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.Builder().
		Insert("book_copies").
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build copy insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("book copy", "inventory_number", copy.InventoryNumber).WithCause(err)
		}
		return fmt.Errorf("insert copy: %w", err)
	}
	return nil
}

// GetCopyByID retrieves a copy by ID.
func (r *BookRepo) GetCopyByID(ctx context.Context, copyID id.ID) (*book.Copy, error) {
	return r.getCopy(ctx, copyID, false)
}

// GetCopyForUpdate retrieves a copy by ID with a row lock.
// Must be called inside a transaction.
func (r *BookRepo) GetCopyForUpdate(ctx context.Context, copyID id.ID) (*book.Copy, error) {
	return r.getCopy(ctx, copyID, true)
}

func (r *BookRepo) getCopy(ctx context.Context, copyID id.ID, forUpdate bool) (*book.Copy, error) {
	q := r.copySelect().Where(squirrel.Eq{"id": copyID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	copy := &book.Copy{}
	if err := pgxscan.Get(ctx, r.querier(ctx), copy, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("book copy", copyID.String())
		}
		return nil, fmt.Errorf("get copy: %w", err)
	}
	return copy, nil
}

// UpdateCopy modifies a copy with optimistic locking.
func (r *BookRepo) UpdateCopy(ctx context.Context, copy *book.Copy) error {
	data := postgres.StructToMap(copy)

	filteredData := make(map[string]any, len(r.copyCols))
	for _, col := range r.copyCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update("book_copies").
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": copy.ID}).
		Where(squirrel.Eq{"version": copy.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build copy update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update copy: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("book copy", copy.ID)
	}
	return nil
}

// DeleteCopy removes a copy.
func (r *BookRepo) DeleteCopy(ctx context.Context, copyID id.ID) error {
	result, err := r.querier(ctx).Exec(ctx, "DELETE FROM book_copies WHERE id = $1", copyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return apperror.NewConflict("cannot delete: copy is referenced by loan documents").
				WithDetail("id", copyID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete copy: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("book copy", copyID.String())
	}
	return nil
}

// ListCopies returns all copies of a book ordered by inventory number.
func (r *BookRepo) ListCopies(ctx context.Context, bookID id.ID) ([]*book.Copy, error) {
	sql, args, err := r.copySelect().
		Where(squirrel.Eq{"book_id": bookID}).
		OrderBy("inventory_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var copies []*book.Copy
	if err := pgxscan.Select(ctx, r.querier(ctx), &copies, sql, args...); err != nil {
		return nil, fmt.Errorf("list copies: %w", err)
	}
	return copies, nil
}

// CountCopies returns total copies of a book.
func (r *BookRepo) CountCopies(ctx context.Context, bookID id.ID) (int64, error) {
	var count int64
	err := r.querier(ctx).QueryRow(ctx,
		"SELECT COUNT(*) FROM book_copies WHERE book_id = $1", bookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count copies: %w", err)
	}
	return count, nil
}

// CountAvailableCopies returns copies in available state without an open
// loan. The ledger check keeps the count correct even if a status update
// was lost.
func (r *BookRepo) CountAvailableCopies(ctx context.Context, bookID id.ID) (int64, error) {
	sql := fmt.Sprintf(`
		SELECT COUNT(*) FROM book_copies
		WHERE book_id = $1
		  AND status = $2
		  AND id NOT IN (%s)
	`, openIssuesSubquery)

	var count int64
	err := r.querier(ctx).QueryRow(ctx, sql, bookID, book.CopyStatusAvailable).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count available copies: %w", err)
	}
	return count, nil
}

// MaxCopySeq returns the highest inventory sequence used for a book.
// Sequence is the numeric suffix of the inventory number.
func (r *BookRepo) MaxCopySeq(ctx context.Context, bookID id.ID) (int, error) {
	sql := `
		SELECT COALESCE(MAX(
			NULLIF(regexp_replace(inventory_number, '^.*-', ''), '')::int
		), 0)
		FROM book_copies
		WHERE book_id = $1
	`

	var seq int
	if err := r.querier(ctx).QueryRow(ctx, sql, bookID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max copy seq: %w", err)
	}
	return seq, nil
}
