package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"librarium/internal/domain/catalogs/employee"
	"librarium/internal/infrastructure/storage/postgres"
)

// EmployeeRepo implements employee.Repository.
type EmployeeRepo struct {
	*BaseRepo[*employee.Employee]
}

var _ employee.Repository = (*EmployeeRepo)(nil)

// NewEmployeeRepo creates an employee repository.
func NewEmployeeRepo(txm *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{
		BaseRepo: NewBaseRepo(txm, "employees", "employee",
			[]string{"name", "username", "email"},
			func() *employee.Employee { return &employee.Employee{} }),
	}
}

// GetByUsername retrieves an employee by username.
func (r *EmployeeRepo) GetByUsername(ctx context.Context, username string) (*employee.Employee, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"username": username}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// GetByEmail retrieves an employee by email.
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"email": email}).
		Limit(1)
	return r.FindOne(ctx, q)
}
