// Command seed bootstraps a fresh database with a root catalog and an
// admin employee.
package main

import (
	"context"
	"flag"
	"os"

	"librarium/internal/config"
	"librarium/internal/core/apperror"
	"librarium/internal/domain/catalogs/catalog"
	"librarium/internal/domain/catalogs/employee"
	"librarium/internal/infrastructure/storage/postgres"
	"librarium/internal/infrastructure/storage/postgres/catalog_repo"
	"librarium/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	adminPassword := flag.String("admin-password", "", "initial admin password (or SEED_ADMIN_PASSWORD)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal(ctx, "failed to load config", "error", err)
	}

	password := *adminPassword
	if password == "" {
		password = os.Getenv("SEED_ADMIN_PASSWORD")
	}
	if password == "" {
		logger.Fatal(ctx, "admin password is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfigFrom(cfg.DB))
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	catalogRepo := catalog_repo.NewCatalogRepo(txManager)
	bookRepo := catalog_repo.NewBookRepo(txManager)
	employeeRepo := catalog_repo.NewEmployeeRepo(txManager)

	catalogService := catalog.NewService(catalogRepo, bookRepo, txManager)
	employeeService := employee.NewService(employeeRepo, txManager)

	roots, err := catalogService.GetChildren(ctx, nil)
	if err != nil {
		logger.Fatal(ctx, "failed to check root catalogs", "error", err)
	}
	if len(roots) == 0 {
		root := catalog.New("Library", nil)
		if err := catalogService.Create(ctx, root); err != nil {
			logger.Fatal(ctx, "failed to create root catalog", "error", err)
		}
		logger.Info(ctx, "root catalog created", "id", root.ID)
	} else {
		logger.Info(ctx, "root catalog already exists")
	}

	admin := employee.New("Administrator", "admin", "admin@library.local", employee.RoleAdmin)
	if err := employee.SetPassword(admin, password); err != nil {
		logger.Fatal(ctx, "failed to hash password", "error", err)
	}

	if err := employeeService.Create(ctx, admin); err != nil {
		if apperror.IsConflict(err) {
			logger.Info(ctx, "admin employee already exists")
			return
		}
		logger.Fatal(ctx, "failed to create admin employee", "error", err)
	}

	logger.Info(ctx, "admin employee created", "id", admin.ID, "username", admin.Username)
}
