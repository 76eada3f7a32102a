package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/config"
	"github.com/five82/aromai/internal/endpoint"
	"github.com/five82/aromai/internal/logging"
	"github.com/five82/aromai/internal/prefs"
	"github.com/five82/aromai/internal/session"
)

// Options configure the AromAI application.
type Options struct {
	ConfigPath  string
	DotenvPath  string    // empty uses ./.env
	SessionPath string    // overrides session_path
	LogLevel    string    // overrides log_level
	LogOutput   io.Writer // nil means stderr, or the log file with LogToFile
	LogToFile   bool      // write logs to log_file instead of stderr
	HTTPClient  *http.Client
}

// App holds the wired dependencies. The store is the single owner of
// session state; commands and the browser receive it from here.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Client *aromai.Client
	Store  *session.Store
	Prefs  prefs.File

	logFile io.Closer
}

// New loads configuration, builds the client and store, and restores the
// persisted session.
func New(opts Options) (*App, error) {
	if err := config.LoadDotenv(opts.DotenvPath); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.SessionPath != "" {
		cfg.SessionPath = opts.SessionPath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	output := opts.LogOutput
	var logFile io.Closer
	if output == nil && opts.LogToFile {
		file, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		output, logFile = file, file
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: output})
	if err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("init logger: %w", err)
	}

	anonymous, err := aromai.ParseAnonymousPolicy(cfg.AnonymousAuth)
	if err != nil {
		closeQuietly(logFile)
		return nil, err
	}

	creds := &aromai.Credentials{}
	client, err := aromai.NewClient(aromai.Options{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Anonymous:         anonymous,
		Tokens:            creds,
		Logger:            logger,
		HTTPClient:        opts.HTTPClient,
	})
	if err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("init aromai client: %w", err)
	}

	file := prefs.File{Path: cfg.SessionPath}
	store, err := session.New(session.Options{
		API:         client,
		Credentials: creds,
		Persister:   file,
		Logger:      logger,
		Language:    cfg.AILanguage,
	})
	if err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("init session: %w", err)
	}
	if err := store.Restore(); err != nil {
		logger.Warn("restore session failed", "error", err)
	}

	return &App{Config: cfg, Logger: logger, Client: client, Store: store, Prefs: file, logFile: logFile}, nil
}

// Close releases the log file opened for LogToFile.
func (a *App) Close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// ErrNotSignedIn is returned by operations that need a session.
var ErrNotSignedIn = errors.New("not signed in; run `aromai login` first")

// RequireSession fails when no validated session exists.
func (a *App) RequireSession() error {
	if !a.Store.Snapshot().Authenticated() {
		return ErrNotSignedIn
	}
	return nil
}

// Bootstrap loads the first page of recipes, then the AI recipes and the
// saved preferences. It does nothing without a session. Every failure is
// logged; the joined error is returned.
func (a *App) Bootstrap(ctx context.Context) error {
	if !a.Store.Snapshot().Authenticated() {
		return nil
	}
	size := a.Config.PageSize
	var errs []error
	if _, err := a.Store.GetRecipes(ctx, endpoint.ListQuery{PageSize: &size}); err != nil {
		a.Logger.Warn("load recipes failed", "error", err)
		errs = append(errs, err)
	}
	if _, err := a.Store.GetAIRecipes(ctx, endpoint.DefaultAIPage, endpoint.DefaultAIPageSize); err != nil {
		a.Logger.Warn("load ai recipes failed", "error", err)
		errs = append(errs, err)
	}
	if _, err := a.Store.GetPersonalInfo(ctx); err != nil {
		a.Logger.Warn("load personal info failed", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
