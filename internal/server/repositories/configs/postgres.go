package configs

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Init creates the default config row for a new user.
func (r *PostgresRepository) Init(ctx context.Context, userID uuid.UUID) error {
	query := `INSERT INTO configs (user_id) VALUES ($1)`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Config, error) {
	query :=
		`SELECT user_id, sorted, ascending, created_at, edited_at, owned_by, edited_by, filtered
		 FROM configs
		 WHERE user_id = $1
		 `

	c := &models.Config{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&c.UserID, &c.SortField, &c.Ascending,
		&c.ShowCreatedAt, &c.ShowEditedAt, &c.ShowOwner, &c.ShowEditor, &c.Filtered)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// SetFlag updates a single boolean column. The column name must be one of
// models.ConfigFlags; anything else is rejected before reaching the database.
func (r *PostgresRepository) SetFlag(ctx context.Context, userID uuid.UUID, flag string, value bool) error {
	if !models.IsConfigFlag(flag) {
		return fmt.Errorf("%w: unknown config flag %q", common.ErrorValidation, flag)
	}

	query := fmt.Sprintf(`UPDATE configs SET %s = $1 WHERE user_id = $2`, flag)
	return r.exec(ctx, query, value, userID)
}

func (r *PostgresRepository) SetSorted(ctx context.Context, userID uuid.UUID, field *string) error {
	if field != nil && !models.IsSortField(*field) {
		return fmt.Errorf("%w: unknown sort field %q", common.ErrorValidation, *field)
	}

	query := `UPDATE configs SET sorted = $1 WHERE user_id = $2`
	return r.exec(ctx, query, field, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
