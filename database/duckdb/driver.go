// Package duckdb implements the storage contract on an embedded DuckDB
// file. Writes for one trading day run in a single transaction, so the
// all-or-nothing batch guarantee holds literally here.
package duckdb

import (
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jmoiron/sqlx"

	"github.com/baraka/dse2db/model"
)

type Driver struct {
	dsn    string
	maxOps int
	db     *sqlx.DB
}

func NewDriver(cfg model.DBConfig) *Driver {
	return &Driver{dsn: cfg.DSN, maxOps: cfg.MaxBatchOps}
}

func (d *Driver) Connect() error {
	db, err := sqlx.Open("duckdb", d.dsn)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	d.db = db
	return nil
}

func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
