package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/cryptox"
	"github.com/dmitrijs2005/protodrive/internal/dbx"
	"github.com/dmitrijs2005/protodrive/internal/logging"
	"github.com/dmitrijs2005/protodrive/internal/server/auth"
	"github.com/dmitrijs2005/protodrive/internal/server/config"
	"github.com/dmitrijs2005/protodrive/internal/server/models"
	"github.com/dmitrijs2005/protodrive/internal/server/repositories/repomanager"
)

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashParams                  cryptox.Params
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		logger:                      logger.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashParams:                  cryptox.DefaultParams,
	}
}

// Register creates the account together with its default config.
func (s *UserService) Register(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return fmt.Errorf("%w: login and password are required", common.ErrorValidation)
	}

	user := &models.User{
		Login:        login,
		PasswordHash: cryptox.HashPassword([]byte(password), s.hashParams),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		return s.repomanager.Configs(tx).Init(ctx, created.ID)
	})

	switch {
	case err == nil:
		s.logger.Info(ctx, "user registered", "login", login)
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		return common.ErrorAlreadyExists
	default:
		s.logger.Error(ctx, "register failed", "login", login, "error", err)
		return common.ErrorInternal
	}
}

// Login checks the password and issues an access token.
func (s *UserService) Login(ctx context.Context, login, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword([]byte(password), user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored hash unusable", "user", user.ID, "error", err)
		return "", common.ErrorInternal
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return "", common.ErrorInternal
	}
	return token, nil
}
