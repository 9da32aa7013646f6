package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/dbx"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/google/uuid"
)

const fileColumns = `id, parent_id, name, path, owned_by, edited_by, created_at, edited_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.ParentID, &f.Name, &f.Path, &f.OwnedBy, &f.EditedBy, &f.CreatedAt, &f.EditedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a folder or file. A sibling with the same name yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (parent_id, name, path, owned_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, file.ParentID, file.Name, file.Path, file.OwnedBy).
		Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// GetByID returns the entry only if it belongs to owner.
func (r *PostgresRepository) GetByID(ctx context.Context, owner, id uuid.UUID) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND owned_by = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) FolderByName(ctx context.Context, owner uuid.UUID, parent *uuid.UUID, name string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		 WHERE owned_by = $1 AND parent_id IS NOT DISTINCT FROM $2 AND name = $3 AND path IS NULL`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, owner, parent, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListChildren returns the direct children of parent (the root when nil),
// folders first, then ordered by opts.
func (r *PostgresRepository) ListChildren(ctx context.Context, owner uuid.UUID, parent *uuid.UUID, opts ListOptions) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		 WHERE owned_by = $1 AND parent_id IS NOT DISTINCT FROM $2
		 ORDER BY (path IS NOT NULL), ` + orderBy(opts) + `, id`

	rows, err := r.db.QueryContext(ctx, query, owner, parent)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func orderBy(opts ListOptions) string {
	column := "created_at"
	if opts.SortField != nil && models.IsSortField(*opts.SortField) {
		column = *opts.SortField
	}
	dir := "ASC"
	if !opts.Ascending {
		dir = "DESC"
	}
	if column == "edited_at" {
		return fmt.Sprintf("%s %s NULLS LAST", column, dir)
	}
	return column + " " + dir
}
