package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain/catalogs/catalog"
	"librarium/internal/infrastructure/storage/postgres"
)

// CatalogRepo implements catalog.Repository.
type CatalogRepo struct {
	*BaseRepo[*catalog.Catalog]
	txm *postgres.TxManager
}

var _ catalog.Repository = (*CatalogRepo)(nil)

// NewCatalogRepo creates a catalog repository.
func NewCatalogRepo(txm *postgres.TxManager) *CatalogRepo {
	return &CatalogRepo{
		BaseRepo: NewBaseRepo(txm, "catalogs", "catalog",
			[]string{"name"},
			func() *catalog.Catalog { return &catalog.Catalog{} }),
		txm: txm,
	}
}

// GetChildren returns direct children of parentID (roots when nil).
func (r *CatalogRepo) GetChildren(ctx context.Context, parentID *id.ID) ([]*catalog.Catalog, error) {
	q := r.baseSelect().OrderBy("name ASC")
	if parentID == nil {
		q = q.Where(squirrel.Eq{"parent_id": nil})
	} else {
		q = q.Where(squirrel.Eq{"parent_id": *parentID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*catalog.Catalog
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get children: %w", err)
	}
	return items, nil
}

// GetTree returns the subtree rooted at rootID using a recursive CTE,
// parents before children. rootID nil returns the whole forest.
func (r *CatalogRepo) GetTree(ctx context.Context, rootID *id.ID) ([]*catalog.Catalog, error) {
	rootCond := "parent_id IS NULL"
	var args []any
	if rootID != nil {
		rootCond = "id = $1"
		args = []any{*rootID}
	}

	cols := strings.Join(r.selectCols, ", ")
	cteSQL := fmt.Sprintf(`
		WITH RECURSIVE tree AS (
			SELECT *, 0 AS level
			FROM catalogs
			WHERE %s

			UNION ALL

			SELECT c.*, t.level + 1
			FROM catalogs c
			INNER JOIN tree t ON c.parent_id = t.id
		)
		SELECT %s FROM tree
		ORDER BY level, name
	`, rootCond, cols)

	var items []*catalog.Catalog
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, cteSQL, args...); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	return items, nil
}

// GetPath returns the chain from root to the catalog, inclusive.
func (r *CatalogRepo) GetPath(ctx context.Context, catalogID id.ID) ([]*catalog.Catalog, error) {
	cols := strings.Join(r.selectCols, ", ")
	cteSQL := fmt.Sprintf(`
		WITH RECURSIVE path AS (
			SELECT *, 0 AS level
			FROM catalogs
			WHERE id = $1

			UNION ALL

			SELECT c.*, p.level + 1
			FROM catalogs c
			INNER JOIN path p ON c.id = p.parent_id
		)
		SELECT %s FROM path
		ORDER BY level DESC
	`, cols)

	var items []*catalog.Catalog
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, cteSQL, catalogID); err != nil {
		return nil, fmt.Errorf("get path: %w", err)
	}
	return items, nil
}

// GetSubtreeIDs returns ids of the subtree rooted at rootID,
// parents before children.
func (r *CatalogRepo) GetSubtreeIDs(ctx context.Context, rootID id.ID) ([]id.ID, error) {
	cteSQL := `
		WITH RECURSIVE tree AS (
			SELECT id, 0 AS level
			FROM catalogs
			WHERE id = $1

			UNION ALL

			SELECT c.id, t.level + 1
			FROM catalogs c
			INNER JOIN tree t ON c.parent_id = t.id
		)
		SELECT id FROM tree
		ORDER BY level
	`

	rows, err := r.querier(ctx).Query(ctx, cteSQL, rootID)
	if err != nil {
		return nil, fmt.Errorf("get subtree ids: %w", err)
	}
	defer rows.Close()

	var ids []id.ID
	for rows.Next() {
		var cid id.ID
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("scan subtree id: %w", err)
		}
		ids = append(ids, cid)
	}
	return ids, rows.Err()
}

// DeleteMany removes catalogs by id in the given order.
func (r *CatalogRepo) DeleteMany(ctx context.Context, ids []id.ID) error {
	if len(ids) == 0 {
		return nil
	}

	querier := r.querier(ctx)
	for _, cid := range ids {
		_, err := querier.Exec(ctx, "DELETE FROM catalogs WHERE id = $1", cid)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
				return apperror.NewConflict("cannot delete: catalog is referenced by other records").
					WithDetail("id", cid.String()).
					WithCause(err)
			}
			return fmt.Errorf("delete catalog %s: %w", cid, err)
		}
	}
	return nil
}
