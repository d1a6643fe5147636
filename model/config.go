package model

type DBType string

const (
	DBTypeDuckDB     DBType = "duckdb"
	DBTypeClickHouse DBType = "clickhouse"
)

type DBConfig struct {
	Type DBType
	DSN  string
	// MaxBatchOps caps the number of rows bound into one statement before
	// the writer transparently flushes and continues. The whole trading day
	// still succeeds or fails as a unit.
	MaxBatchOps int
}

const DefaultMaxBatchOps = 500
