// internal/app/app.go
//
// Run orchestration.
//
// Run life-cycle
// --------------
//
//  1. Check output options so configuration errors surface before any
//     record is read.
//
//  2. Open the record source: a TSV file, or the Confluence database
//     (prompting for missing credentials and resolving Vault references).
//
//  3. Drive the pagemap pipeline to completion under ctx.  A cancelled
//     context or a source error ends the run with nothing written.
//
//  4. Record metrics, format the mappings, write them to stdout or the
//     configured file, then write the metrics textfile.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/pageidmap/internal/config"
	"github.com/yanizio/pageidmap/internal/credentials"
	"github.com/yanizio/pageidmap/internal/database"
	"github.com/yanizio/pageidmap/internal/format"
	"github.com/yanizio/pageidmap/internal/metrics"
	"github.com/yanizio/pageidmap/internal/pagemap"
	"github.com/yanizio/pageidmap/internal/source"
	"github.com/yanizio/pageidmap/internal/vault"
)

// recordSource is a pagemap source that also counts skipped input.
type recordSource interface {
	pagemap.RecordSource
	Malformed() int
}

// SecretResolver turns a configured secret reference into its value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// App holds one run's dependencies.  Zero-value hooks fall back to the
// real implementations.
type App struct {
	Cfg    *config.Config
	Log    *zap.SugaredLogger
	Stdout io.Writer

	Prompter *credentials.Prompter
	Secrets  SecretResolver
	OpenDB   func(ctx context.Context, driver, dsn string) (*sqlx.DB, error)
}

// Run executes the whole pipeline.
func (a *App) Run(ctx context.Context) error {
	a.defaults()
	cfg := a.Cfg

	opts := format.Options{
		Format:       format.Name(cfg.Processing.OutputFormat),
		TargetDomain: cfg.Processing.TargetDomain,
	}
	if err := opts.Check(); err != nil {
		return err
	}

	src, closeFn, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	start := time.Now()
	mappings, stats, err := pagemap.Run(ctx, src)
	if err != nil {
		return err
	}
	metrics.Observe(stats, src.Malformed(), time.Since(start))

	a.Log.Debugw("pipeline finished",
		"records", stats.Records,
		"search", stats.Search,
		"display", stats.Display,
		"unchanged", stats.Skipped,
		"malformed", src.Malformed(),
	)

	out, err := format.Format(mappings, opts)
	if errors.Is(err, format.ErrNoMappings) {
		a.Log.Warnw("No URL mappings generated", "records", stats.Records)
		return err
	}
	if err != nil {
		return err
	}

	if err := a.write(out + "\n"); err != nil {
		return err
	}
	a.Log.Debugw("Generated URL mappings", "count", len(mappings), "format", opts.Format)

	if path := cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			a.Log.Warnw("metrics textfile not written", "file", path, "err", err)
		}
	}
	return nil
}

func (a *App) defaults() {
	if a.Log == nil {
		a.Log = zap.NewNop().Sugar()
	}
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.OpenDB == nil {
		a.OpenDB = database.Open
	}
}

func (a *App) write(s string) error {
	if path := a.Cfg.Output.Path; path != "" {
		if err := writeFileAtomic(path, []byte(s), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		return nil
	}
	_, err := io.WriteString(a.Stdout, s)
	return err
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers see either the old file or the complete new one.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (a *App) openSource(ctx context.Context) (recordSource, func(), error) {
	kind, err := a.Cfg.Source()
	if err != nil {
		return nil, nil, err
	}

	if kind == config.SourceFile {
		a.Log.Debugw("Processing file", "file", a.Cfg.Input.File)
		return source.NewFile(a.Cfg.Input.File, a.Log), func() {}, nil
	}

	spaces := source.ParseSpaceKeys(a.Cfg.Processing.DefaultSpaces)
	if len(spaces) == 0 {
		return nil, nil, source.ErrNoSpaces
	}

	settings, err := a.credentials(ctx)
	if err != nil {
		return nil, nil, err
	}
	dsn, err := database.DSN(settings)
	if err != nil {
		return nil, nil, err
	}

	a.Log.Debugw("Connecting to database",
		"driver", settings.Driver,
		"addr", settings.Addr(),
		"database", settings.Name,
	)
	db, err := a.OpenDB(ctx, settings.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection: %w", err)
	}
	a.Log.Debugw("Querying spaces", "spaces", spaces)

	return source.NewDatabase(db, spaces, a.Log), func() { db.Close() }, nil
}

// credentials fills in a missing username or password and resolves a
// Vault reference in the password.
func (a *App) credentials(ctx context.Context) (database.Settings, error) {
	s := a.Cfg.Database.Settings()

	if s.User == "" || s.Password == "" {
		if a.Prompter == nil {
			a.Prompter = credentials.New()
		}
	}
	if s.User == "" {
		u, err := a.Prompter.Username(ctx)
		if err != nil {
			return s, err
		}
		s.User = u
	}
	if s.Password == "" {
		pw, err := a.Prompter.Password(ctx)
		if err != nil {
			return s, err
		}
		s.Password = pw
	}

	if vault.IsRef(s.Password) {
		if a.Secrets == nil {
			cli, err := vault.New("", "")
			if err != nil {
				return s, err
			}
			a.Secrets = cli
		}
		pw, err := a.Secrets.Resolve(ctx, s.Password)
		if err != nil {
			return s, fmt.Errorf("resolve database password: %w", err)
		}
		s.Password = pw
	}
	return s, nil
}
