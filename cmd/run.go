package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/api"
	"github.com/torredebabel/icfes/internal/app"
	"github.com/torredebabel/icfes/internal/auth"
	"github.com/torredebabel/icfes/internal/config"
	"github.com/torredebabel/icfes/internal/quiz"
	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/screens"
	"github.com/torredebabel/icfes/internal/store"
)

// env holds the dependencies shared by the client commands.
type env struct {
	cfg     config.Config
	log     *logrus.Logger
	store   *store.Store
	client  *api.Client
	auth    *auth.Service
	roles   *role.Service
	battery role.Battery
	closers []func() error
}

// loadConfig reads and validates the config named by --config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openEnv loads config, opens the store and builds the services. When
// logFile is true and no log file is configured, logs go to icfes.log
// next to the database so they do not draw over the terminal UI.
func openEnv(cmd *cobra.Command, logFile bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if logFile && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(dbPath), "icfes.log")
	}

	log, closeLog, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log, closers: []func() error{closeLog}}

	battery := role.DefaultBattery()
	if cfg.Battery != "" {
		battery, err = role.LoadBattery(cfg.Battery)
		if err != nil {
			e.Close()
			return nil, err
		}
	}
	e.battery = battery

	st, err := store.Open(dbPath, store.WithLogger(log))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st.Close)

	credentials := st.CredentialRepo()
	tokens := auth.Chain{auth.Static(cfg.Token), auth.StoreProvider{Repo: credentials}}
	e.client = api.New(cfg.API, tokens, api.WithLogger(log))
	e.auth = auth.NewService(e.client, credentials, log)
	e.roles = role.NewService(e.client, st.AssessmentRepo(), log)

	log.WithFields(logrus.Fields{"db": dbPath, "api": cfg.API.BaseURL}).Debug("environment ready")
	return e, nil
}

// newQuiz returns a fresh controller for one quiz run.
func (e *env) newQuiz() *quiz.Controller {
	return quiz.NewController(e.client, e.cfg.Quiz, e.log)
}

func (e *env) deps() screens.Deps {
	return screens.Deps{
		Profile:  e.client,
		Sessions: e.auth,
		Roles:    e.roles,
		Battery:  e.battery,
		Attempts: e.store.AttemptRepo(),
		NewQuiz:  e.newQuiz,
		Log:      e.log,
	}
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Info("starting terminal app")
	return app.Run(e.deps())
}
