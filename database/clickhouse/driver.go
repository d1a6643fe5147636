// Package clickhouse implements the storage contract on a ClickHouse
// server. ClickHouse has no multi-statement transactions; inserts are
// atomic per block, and the day header plus date index are written last so
// an interrupted import is never discoverable as "the day's data".
package clickhouse

import (
	"fmt"
	"net/url"
	"strings"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"

	"github.com/baraka/dse2db/model"
)

type Driver struct {
	dsn      string
	database string
	maxOps   int
	db       *sqlx.DB
}

// NewDriver normalizes the DSN: host required, TCP port defaults to 9000,
// database and user default to "default".
func NewDriver(cfg model.DBConfig) (*Driver, error) {
	u, err := url.Parse(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid clickhouse dsn: %w", err)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("clickhouse host is required")
	}

	port := u.Port()
	if port == "" {
		port = "9000"
	}
	u.Host = fmt.Sprintf("%s:%s", host, port)

	database := strings.TrimPrefix(u.Path, "/")
	if database == "" {
		database = "default"
	}
	u.Path = "/" + database

	user := u.User.Username()
	if user == "" {
		user = "default"
	}
	if pass, ok := u.User.Password(); ok {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}

	return &Driver{
		dsn:      u.String(),
		database: database,
		maxOps:   cfg.MaxBatchOps,
	}, nil
}

func (d *Driver) Connect() error {
	db, err := sqlx.Open("clickhouse", d.dsn)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("clickhouse ping failed: %w", err)
	}

	d.db = db
	return nil
}

func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
