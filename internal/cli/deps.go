package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/viper"

	"github.com/faizmokh/gaji/internal/config"
	"github.com/faizmokh/gaji/internal/files"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/report"
	"github.com/faizmokh/gaji/internal/store"
	"github.com/faizmokh/gaji/internal/store/sqlite"
	"github.com/faizmokh/gaji/internal/tracker"
)

// deps resolves configuration, the logger and the store on first use so that
// commands which need none of them stay cheap.
type deps struct {
	manager *files.Manager
	viper   *viper.Viper

	cfg     *config.Config
	logger  *slog.Logger
	store   store.Store
	closers []io.Closer
}

func newDeps(manager *files.Manager) *deps {
	return &deps{
		manager: manager,
		viper:   config.NewViper(manager.DBPath()),
	}
}

func (d *deps) config() (*config.Config, error) {
	if d.cfg != nil {
		return d.cfg, nil
	}
	cfg, err := config.Load(d.viper)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	report.SetColor(cfg.UseColor(os.Stdout))
	d.cfg = cfg
	return cfg, nil
}

// fileLogger writes to the data directory; the TUI owns stdout.
func (d *deps) fileLogger() (*slog.Logger, error) {
	if d.logger != nil {
		return d.logger, nil
	}
	cfg, err := d.config()
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.OpenFile(d.manager.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, closer)
	d.logger = logging.Component(logger, logging.ComponentCLI)
	return d.logger, nil
}

func (d *deps) backend() (store.Store, error) {
	if d.store != nil {
		return d.store, nil
	}
	cfg, err := d.config()
	if err != nil {
		return nil, err
	}
	logger, err := d.fileLogger()
	if err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := sqlite.Open(cfg.DBPath, logger)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, repo)
		d.store = repo
	default:
		d.store = store.NewClient(cfg.APIURL, http.DefaultClient, logger)
	}
	return d.store, nil
}

// session builds a tracker session and loads the ledger.
func (d *deps) session(ctx context.Context) (*tracker.Session, error) {
	st, err := d.backend()
	if err != nil {
		return nil, err
	}
	logger, err := d.fileLogger()
	if err != nil {
		return nil, err
	}
	session := tracker.NewSession(st, logger)
	if err := session.Load(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close: %w", errors.Join(errs...))
	}
	return nil
}
