package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/protodrive/internal/client/client"
	"github.com/dmitrijs2005/protodrive/internal/client/config"
	"github.com/dmitrijs2005/protodrive/internal/client/services"
	"github.com/dmitrijs2005/protodrive/internal/client/session"
	"github.com/dmitrijs2005/protodrive/internal/logging"
)

type App struct {
	config       *config.Config
	authService  services.AuthService
	driveService services.DriveService
	logger       logging.Logger
	userName     string
	reader       *bufio.Reader
	out          io.Writer
}

// NewApp builds the client stack for cfg: one session store shared by the
// API client and, through it, every service.
func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	store := session.NewStore()

	apiClient, err := client.NewHTTPClient(cfg.ServerBaseURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	return &App{
		config:       cfg,
		authService:  services.NewAuthService(apiClient),
		driveService: services.NewDriveService(apiClient),
		logger:       logger.With("module", "cli"),
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

// Run greets the user, reports whether the server answers and enters the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to ProtoDrive CLI (type 'help' for commands)")

	if err := a.authService.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "server not reachable", "url", a.config.ServerBaseURL, "error", err)
		fmt.Fprintf(a.out, "Server %s is not reachable yet\n", a.config.ServerBaseURL)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.authService.Authenticated()
}

func (a *App) getStatus() string {
	if a.isLoggedIn() && a.userName != "" {
		return "(" + a.userName + ")"
	}
	return ""
}
