package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	sm "github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type ConfigService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewConfigService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ConfigService {
	return &ConfigService{db: db, repomanager: m, logger: logger.With("module", "configs")}
}

func (s *ConfigService) Get(ctx context.Context, userID uuid.UUID) (*sm.Config, error) {
	c, err := s.repomanager.Configs(s.db).Get(ctx, userID)
	if err != nil {
		return nil, hide(ctx, s.logger, "get config", err)
	}
	return c, nil
}

// SetFlag updates the boolean named by its wire name.
func (s *ConfigService) SetFlag(ctx context.Context, userID uuid.UUID, name string, value bool) error {
	if !sm.IsConfigFlag(name) {
		return fmt.Errorf("%w: unknown field %q", common.ErrorValidation, name)
	}
	if err := s.repomanager.Configs(s.db).SetFlag(ctx, userID, name, value); err != nil {
		return hide(ctx, s.logger, "set config flag", err)
	}
	return nil
}

// SetSorted sets or clears (nil) the sort field.
func (s *ConfigService) SetSorted(ctx context.Context, userID uuid.UUID, field *string) error {
	if field != nil && !sm.IsSortField(*field) {
		return fmt.Errorf("%w: unknown sort field %q", common.ErrorValidation, *field)
	}
	if err := s.repomanager.Configs(s.db).SetSorted(ctx, userID, field); err != nil {
		return hide(ctx, s.logger, "set sort field", err)
	}
	return nil
}
