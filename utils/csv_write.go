package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"reflect"
	"time"
)

// CSVWriter writes batches of T to a CSV file, deriving the header from
// the struct's db tags.
type CSVWriter[T any] struct {
	file          *os.File
	writer        *csv.Writer
	headerWritten bool
	columns       []csvColumn
}

type csvColumn struct {
	Index     int
	Header    string
	IsTime    bool
	IsPtrTime bool
}

func NewCSVWriter[T any](filename string) (*CSVWriter[T], error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	cols, err := csvColumns[T]()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &CSVWriter[T]{
		file:    f,
		writer:  csv.NewWriter(f),
		columns: cols,
	}, nil
}

func csvColumns[T any]() ([]csvColumn, error) {
	var t T
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("generic type T must be a struct")
	}

	var cols []csvColumn
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		header := field.Tag.Get("db")
		if header == "" || header == "-" {
			header = field.Name
		}
		cols = append(cols, csvColumn{
			Index:     i,
			Header:    header,
			IsTime:    field.Type == reflect.TypeOf(time.Time{}),
			IsPtrTime: field.Type == reflect.TypeOf((*time.Time)(nil)),
		})
	}
	return cols, nil
}

func (cw *CSVWriter[T]) Write(data []T) error {
	if len(data) == 0 {
		return nil
	}

	if !cw.headerWritten {
		headers := make([]string, len(cw.columns))
		for i, col := range cw.columns {
			headers[i] = col.Header
		}
		if err := cw.writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		cw.headerWritten = true
	}

	record := make([]string, len(cw.columns))
	for _, item := range data {
		val := reflect.ValueOf(item)
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}

		for i, col := range cw.columns {
			fieldVal := val.Field(col.Index)

			if col.IsTime || col.IsPtrTime {
				var t time.Time
				valid := false
				if col.IsTime {
					t = fieldVal.Interface().(time.Time)
					valid = !t.IsZero()
				} else if !fieldVal.IsNil() {
					t = *fieldVal.Interface().(*time.Time)
					valid = !t.IsZero()
				}
				if valid {
					record[i] = t.Format(time.RFC3339)
				} else {
					record[i] = ""
				}
				continue
			}

			record[i] = fmt.Sprint(fieldVal.Interface())
		}

		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

func (cw *CSVWriter[T]) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	return cw.file.Close()
}
