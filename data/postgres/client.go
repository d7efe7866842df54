package postgres

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/vortex-fintech/contactnorm/foundation/retry"
)

// Replaceable in tests.
var (
	openDB = func(cfg pgx.ConnConfig) *sql.DB { return stdlib.OpenDB(cfg) }
	pingDB = func(ctx context.Context, db *sql.DB) error { return db.PingContext(ctx) }
)

const pingTimeout = 5 * time.Second

// Open parses cfg, opens a database/sql handle backed by pgx and waits until
// the server answers, retrying with p.
func Open(ctx context.Context, cfg Config, p retry.Policy) (*sql.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ccfg, err := pgx.ParseConfig(buildURL(cfg))
	if err != nil {
		return nil, err
	}
	if ccfg.RuntimeParams == nil {
		ccfg.RuntimeParams = map[string]string{}
	}
	if _, ok := ccfg.RuntimeParams["application_name"]; !ok && cfg.ApplicationName != "" {
		ccfg.RuntimeParams["application_name"] = cfg.ApplicationName
	}
	if _, ok := ccfg.RuntimeParams["TimeZone"]; !ok {
		ccfg.RuntimeParams["TimeZone"] = "UTC"
	}

	db := openDB(*ccfg)
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	err = retry.Do(ctx, p, func(ctx context.Context) error {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return pingDB(pctx, db)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// buildURL applies cfg.Params to cfg.URL when params are provided.
func buildURL(cfg Config) string {
	base := strings.TrimSpace(cfg.URL)
	if base == "" || len(cfg.Params) == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, v := range cfg.Params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
