package database

import (
	"fmt"
	"strings"

	"github.com/baraka/dse2db/database/clickhouse"
	"github.com/baraka/dse2db/database/duckdb"
	"github.com/baraka/dse2db/model"
)

// NewStore builds the driver selected by the config.
func NewStore(cfg model.DBConfig) (Store, error) {
	if cfg.MaxBatchOps <= 0 {
		cfg.MaxBatchOps = model.DefaultMaxBatchOps
	}

	switch cfg.Type {
	case model.DBTypeDuckDB:
		return duckdb.NewDriver(cfg), nil
	case model.DBTypeClickHouse:
		return clickhouse.NewDriver(cfg)
	default:
		return nil, fmt.Errorf("unsupported db type: %s", cfg.Type)
	}
}

// ParseURI maps a storage URI onto a DBConfig. A clickhouse:// scheme
// selects ClickHouse; anything else is treated as a DuckDB file path, with
// an optional duckdb: prefix.
func ParseURI(uri string) model.DBConfig {
	if strings.HasPrefix(uri, "clickhouse://") {
		return model.DBConfig{Type: model.DBTypeClickHouse, DSN: uri}
	}
	return model.DBConfig{
		Type: model.DBTypeDuckDB,
		DSN:  strings.TrimPrefix(uri, "duckdb:"),
	}
}
