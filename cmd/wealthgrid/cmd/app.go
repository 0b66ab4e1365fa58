package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rustyeddy/wealthgrid/advisor"
	"github.com/rustyeddy/wealthgrid/config"
	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/gateway/memory"
	"github.com/rustyeddy/wealthgrid/gateway/rest"
	"github.com/rustyeddy/wealthgrid/gateway/sqlite"
	"github.com/rustyeddy/wealthgrid/identity"
	"github.com/rustyeddy/wealthgrid/internal/logging"
	"github.com/rustyeddy/wealthgrid/internal/metrics"
	"github.com/rustyeddy/wealthgrid/internal/retry"
	"github.com/rustyeddy/wealthgrid/store"
)

const defaultConfigFile = "wealthgrid.yaml"

// app is everything one command invocation needs.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   *store.Store
	stderr  io.Writer
	closers []func() error
}

// loadConfig reads the --config file, then $WEALTHGRID_CONFIG, then the
// default file. Only an explicitly named file has to exist.
func loadConfig() (*config.Config, error) {
	path, explicit := configPath, configPath != ""
	if !explicit {
		path, explicit = os.Getenv(config.EnvConfigPath), os.Getenv(config.EnvConfigPath) != ""
	}
	if path == "" {
		path = defaultConfigFile
	}

	cfg, err := config.LoadFromFile(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

// openApp builds the gateway, identity, advisor and store from config and
// loads the signed-in user's data.
func openApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a := &app{cfg: cfg, log: log, metrics: metrics.New("wealthgrid"), stderr: stderr}

	idp, token, err := buildIdentity(cfg.Identity)
	if err != nil {
		return nil, err
	}
	gw, err := a.buildGateway(cfg.Gateway, token)
	if err != nil {
		return nil, err
	}

	var adv advisor.Advisor
	if cfg.Advisor.Enabled {
		timeout, _ := config.Duration(cfg.Advisor.Timeout, 0)
		adv = advisor.NewClient(cfg.Advisor.URL, cfg.Advisor.APIKey, cfg.Advisor.Model, timeout, cfg.Advisor.RatePerSec)
	}

	persist, _ := config.Duration(cfg.Store.PersistTimeout, store.DefaultPersistTimeout)
	advise, _ := config.Duration(cfg.Store.AdvisorTimeout, store.DefaultAdvisorTimeout)
	step, _ := config.Duration(cfg.Store.RetryStep, 0)

	a.store = store.New(gw, idp, adv,
		store.WithLogger(log),
		store.WithMetrics(a.metrics),
		store.WithPersistTimeout(persist),
		store.WithAdvisorTimeout(advise),
		store.WithRetry(retry.Policy{
			Attempts: cfg.Store.RetryAttempts,
			Delays:   retry.Linear(cfg.Store.RetryAttempts, step),
		}),
	)

	if err := a.store.Refresh(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("load data: %w", err)
	}
	return a, nil
}

// buildIdentity returns the session provider and the bearer token to send
// to a REST gateway, if any.
func buildIdentity(c config.IdentityConfig) (identity.Provider, string, error) {
	switch c.Type {
	case "token":
		tp := identity.NewToken(c.Secret, c.Token)
		return tp, tp.AccessToken(), nil
	default:
		// Without a configured id the handle names the user, so the same
		// handle finds the same records on every run.
		userID := c.UserID
		if userID == "" {
			userID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("wealthgrid:"+c.Handle)).String()
		}
		sess, err := identity.NewSession(userID, c.Handle)
		if err != nil {
			return nil, "", err
		}
		return identity.NewStatic(&sess), "", nil
	}
}

func (a *app) buildGateway(c config.GatewayConfig, token string) (gateway.Gateway, error) {
	timeout, _ := config.Duration(c.Timeout, 0)
	switch c.Type {
	case "rest":
		return rest.NewClient(c.URL, c.APIKey, token, timeout, c.RatePerSec), nil
	case "memory":
		return memory.New(), nil
	default:
		db, err := sqlite.New(c.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return db, nil
	}
}

// close waits for background writes, prints metrics when asked, and
// releases resources.
func (a *app) close() {
	if a.store != nil {
		a.store.Wait()
	}
	if showMetrics {
		fmt.Fprintln(a.stderr, "--- metrics ---")
		if err := a.metrics.WriteText(a.stderr); err != nil {
			a.log.Warn("write metrics", zap.Error(err))
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
