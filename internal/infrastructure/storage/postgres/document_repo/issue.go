// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain"
	"librarium/internal/domain/documents/issue"
	"librarium/internal/infrastructure/storage/postgres"
)

const (
	pgFKViolation     = "23503"
	pgUniqueViolation = "23505"
)

// IssueRepo implements issue.Repository.
type IssueRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

var _ issue.Repository = (*IssueRepo)(nil)

// NewIssueRepo creates an issue repository.
func NewIssueRepo(txm *postgres.TxManager) *IssueRepo {
	return &IssueRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[issue.Issue](),
	}
}

func (r *IssueRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *IssueRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From("issues")
}

// Create inserts a new issue. The partial unique index on open loans is
// the database-level backstop against double issuing, so a unique
// violation here surfaces as a conflict, not an internal error.
func (r *IssueRepo) Create(ctx context.Context, doc *issue.Issue) error {
	data := postgres.StructToMap(doc)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("issues").
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return apperror.NewConflict("copy already has an open loan").
					WithDetail("copy_id", doc.CopyID.String()).
					WithCause(err)
			case pgFKViolation:
				return apperror.NewConflict("issue references a missing record").
					WithDetail("constraint", pgErr.ConstraintName).
					WithCause(err)
			}
		}
		return fmt.Errorf("insert issue: %w", err)
	}

	return nil
}

// GetByID retrieves an issue by ID.
func (r *IssueRepo) GetByID(ctx context.Context, issueID id.ID) (*issue.Issue, error) {
	return r.get(ctx, issueID, false)
}

// GetForUpdate retrieves an issue by ID with a row lock.
// Must be called inside a transaction.
func (r *IssueRepo) GetForUpdate(ctx context.Context, issueID id.ID) (*issue.Issue, error) {
	return r.get(ctx, issueID, true)
}

func (r *IssueRepo) get(ctx context.Context, issueID id.ID, forUpdate bool) (*issue.Issue, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": issueID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := &issue.Issue{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("issue", issueID.String())
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return doc, nil
}

// GetOpenByCopy returns the open loan for a copy.
func (r *IssueRepo) GetOpenByCopy(ctx context.Context, copyID id.ID) (*issue.Issue, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"copy_id": copyID}).
		Where(squirrel.Eq{"is_returned": false}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := &issue.Issue{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("open issue for copy", copyID.String())
		}
		return nil, fmt.Errorf("get open issue: %w", err)
	}
	return doc, nil
}

// Update modifies an issue with optimistic locking.
func (r *IssueRepo) Update(ctx context.Context, doc *issue.Issue) error {
	data := postgres.StructToMap(doc)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.builder().
		Update("issues").
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": doc.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("issue", doc.ID)
	}
	return nil
}

// List retrieves issues with filtering, most recent first.
func (r *IssueRepo) List(ctx context.Context, filter issue.Filter) (domain.ListResult[*issue.Issue], error) {
	result := domain.ListResult[*issue.Issue]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.ReaderID != nil {
		q = q.Where(squirrel.Eq{"reader_id": *filter.ReaderID})
	}
	if filter.CopyID != nil {
		q = q.Where(squirrel.Eq{"copy_id": *filter.CopyID})
	}
	if filter.OnlyOpen {
		q = q.Where(squirrel.Eq{"is_returned": false})
	}
	if filter.OnlyOverdue {
		q = q.Where(squirrel.Eq{"is_returned": false}).
			Where(squirrel.Lt{"due_date": time.Now().UTC()})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("issue_date DESC")
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
		return result, fmt.Errorf("list issues: %w", err)
	}

	return result, nil
}
