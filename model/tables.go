package model

import (
	"reflect"
	"strings"
	"sync"
	"time"
)

type DataType int

const (
	TypeString DataType = iota
	TypeFloat64
	TypeInt64
	TypeDate     // YYYY-MM-DD
	TypeDateTime // YYYY-MM-DD HH:MM:SS
)

type Column struct {
	Name string
	Type DataType
	// FieldIndex is the position of the backing struct field, so drivers
	// can pull values in column order without re-walking tags.
	FieldIndex int
	Nullable   bool
}

type TableMeta struct {
	TableName string
	Columns   []Column
	// OrderByKey doubles as the primary key for engines that enforce one
	// and as the sort key for engines that only order.
	OrderByKey []string
	// MergeByKey marks tables with merge-update semantics: writing a row
	// whose key exists replaces it instead of duplicating or failing.
	MergeByKey bool
}

// WithMergeByKey flags the table for merge-update writes.
func (t *TableMeta) WithMergeByKey() *TableMeta {
	t.MergeByKey = true
	return t
}

var (
	tableRegistry   []*TableMeta
	tableRegistryMu sync.Mutex
)

func registerTable(t *TableMeta) {
	tableRegistryMu.Lock()
	defer tableRegistryMu.Unlock()
	tableRegistry = append(tableRegistry, t)
}

// AllTables returns every registered table definition.
func AllTables() []*TableMeta {
	tableRegistryMu.Lock()
	defer tableRegistryMu.Unlock()

	result := make([]*TableMeta, len(tableRegistry))
	copy(result, tableRegistry)
	return result
}

// SchemaFromStruct derives a TableMeta from a struct's `db` and `type` tags
// and registers it. Every driver builds its DDL and inserts from the same
// metadata, so the schema is declared exactly once.
func SchemaFromStruct(tableName string, m interface{}, orderByKey []string) *TableMeta {
	t := reflect.TypeOf(m)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var cols []Column

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		colName := field.Tag.Get("db")
		if colName == "" {
			colName = strings.ToLower(field.Name)
		}

		ft := field.Type
		nullable := false
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
			nullable = true
		}

		var dType DataType
		customType := field.Tag.Get("type")
		switch {
		case customType == "date":
			dType = TypeDate
		case customType == "datetime":
			dType = TypeDateTime
		default:
			switch ft.Kind() {
			case reflect.String:
				dType = TypeString
			case reflect.Float64, reflect.Float32:
				dType = TypeFloat64
			case reflect.Int, reflect.Int64, reflect.Int32, reflect.Uint32:
				dType = TypeInt64
			case reflect.Struct:
				if ft == reflect.TypeOf(time.Time{}) {
					dType = TypeDateTime
				}
			default:
				dType = TypeString
			}
		}

		cols = append(cols, Column{
			Name:       colName,
			Type:       dType,
			FieldIndex: i,
			Nullable:   nullable,
		})
	}

	meta := &TableMeta{
		TableName:  tableName,
		Columns:    cols,
		OrderByKey: orderByKey,
	}

	registerTable(meta)

	return meta
}

// ColumnNames returns the column names in declaration order.
func (t *TableMeta) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Placeholders returns one "(?, ?, ...)" group matching the column count.
func (t *TableMeta) Placeholders() string {
	ph := make([]string, len(t.Columns))
	for i := range ph {
		ph[i] = "?"
	}
	return "(" + strings.Join(ph, ", ") + ")"
}

// FieldValues extracts a row's values in column order for positional binds.
func (t *TableMeta) FieldValues(row interface{}) []interface{} {
	v := reflect.ValueOf(row)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	out := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		fv := v.Field(col.FieldIndex)
		if col.Nullable && fv.Kind() == reflect.Ptr && fv.IsNil() {
			out[i] = nil
			continue
		}
		out[i] = fv.Interface()
	}
	return out
}

// Table definitions. Five of these mirror the document-store write shape of
// a daily import (day header, per-day stocks, per-symbol history fan-out,
// symbol parents, date index); the rest back the live feed and alerting.

var TableTradingDays = SchemaFromStruct(
	"trading_days",
	TradingDay{},
	[]string{"date_tag"},
)

var TableDailyStocks = SchemaFromStruct(
	"daily_stocks",
	InstrumentRecord{},
	[]string{"date_tag", "symbol"},
)

var TableSymbolHistory = SchemaFromStruct(
	"symbol_history",
	InstrumentRecord{},
	[]string{"symbol", "date_tag"},
)

var TableSymbols = SchemaFromStruct(
	"symbols",
	SymbolMeta{},
	[]string{"symbol"},
).WithMergeByKey()

var TableDateIndex = SchemaFromStruct(
	"date_index",
	DateIndexEntry{},
	[]string{"date_tag"},
).WithMergeByKey()

var TableLiveQuotes = SchemaFromStruct(
	"live_quotes",
	LiveQuote{},
	[]string{"symbol", "fetched_at"},
)

var TableAlerts = SchemaFromStruct(
	"alerts",
	Alert{},
	[]string{"id"},
)

var TableNotifications = SchemaFromStruct(
	"notifications",
	Notification{},
	[]string{"id"},
)
