package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/baraka/dse2db/model"
)

// mapType converts the generic column type to ClickHouse SQL.
func (d *Driver) mapType(col model.Column) string {
	var base string
	switch col.Type {
	case model.TypeString:
		base = "String"
	case model.TypeFloat64:
		base = "Float64"
	case model.TypeInt64:
		base = "Int64"
	case model.TypeDate:
		base = "Date"
	case model.TypeDateTime:
		base = "DateTime64(3)"
	default:
		base = "String"
	}
	if col.Nullable {
		return fmt.Sprintf("Nullable(%s)", base)
	}
	return base
}

func (d *Driver) InitSchema(ctx context.Context) error {
	for _, t := range model.AllTables() {
		if err := d.createTableInternal(ctx, t); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.TableName, err)
		}
	}
	return nil
}

func (d *Driver) createTableInternal(ctx context.Context, meta *model.TableMeta) error {
	var colDefs []string
	for _, col := range meta.Columns {
		colDefs = append(colDefs, fmt.Sprintf("%s %s", col.Name, d.mapType(col)))
	}

	// merge-by-key tables get ReplacingMergeTree so re-writing a key
	// collapses to the newest row at merge time
	engine := "MergeTree"
	if meta.MergeByKey {
		engine = "ReplacingMergeTree"
	}

	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s) ENGINE = %s ORDER BY (%s)",
		meta.TableName,
		strings.Join(colDefs, ", "),
		engine,
		strings.Join(meta.OrderByKey, ", "),
	)

	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return err
	}
	return nil
}
