package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/httpremote"
	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/memory"
	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/objectstore"
	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/sqlstore"
	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Provisioner is implemented by remotes that can create their backing
// table or bucket.
type Provisioner interface {
	Provision(ctx context.Context) error
}

// OpenRemote builds the remote store described by cfg. It returns a nil store
// for kind "none". The closer releases any connection it opened.
func OpenRemote(cfg RemoteConfig, logger *slog.Logger) (core.RemoteStore, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Kind {
	case "", RemoteNone:
		return nil, nop, nil
	case RemoteMemory:
		return memory.New(), nop, nil
	case RemoteSQL:
		if cfg.SQL.DSN == "" {
			return nil, nil, errors.New("remote.sql.dsn is required")
		}
		s, err := sqlstore.Open(cfg.SQL.Driver, cfg.SQL.DSN, sqlstore.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case RemoteS3:
		s, err := objectstore.New(objectstore.Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Secure:    cfg.S3.Secure,
			Region:    cfg.S3.Region,
			Prefix:    cfg.S3.Prefix,
			Logger:    logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nop, nil
	case RemoteHTTP:
		if cfg.HTTP.URL == "" {
			return nil, nil, errors.New("remote.http.url is required")
		}
		return httpremote.New(cfg.HTTP.URL, cfg.HTTP.Token), nop, nil
	default:
		return nil, nil, fmt.Errorf("unknown remote kind: %s", cfg.Kind)
	}
}

// Provision creates the remote's backing resources when it supports it.
func Provision(ctx context.Context, store core.RemoteStore) error {
	p, ok := store.(Provisioner)
	if !ok {
		return fmt.Errorf("remote %T cannot be provisioned", store)
	}
	return p.Provision(ctx)
}

// OpenConfig wires an App from cfg. Extra options are applied last.
func OpenConfig(cfg *Config, logger *slog.Logger, extra ...Option) (*App, error) {
	remote, closeRemote, err := OpenRemote(cfg.Remote, logger)
	if err != nil {
		return nil, fmt.Errorf("open remote: %w", err)
	}
	opts := []Option{
		WithLogger(logger),
		WithReadOnly(cfg.ReadOnly),
		WithSyncConfig(cfg.Sync.Engine()),
		withCloser(closeRemote),
	}
	if remote != nil {
		opts = append(opts, WithRemote(remote))
	}
	app, err := Open(cfg.DataDir, append(opts, extra...)...)
	if err != nil {
		_ = closeRemote()
		return nil, err
	}
	return app, nil
}
