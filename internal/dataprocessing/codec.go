package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"sync"
	"time"

	"evagobi/internal/errors"
	"evagobi/pkg/contracts/domain"
)

// DateLayout is the layout of every date cell
const DateLayout = "2006-01-02"

// CSVMarshaler is implemented by cell types with their own text form
type CSVMarshaler interface {
	MarshalCSV() (string, error)
}

// CSVUnmarshaler is implemented by cell types that parse their own text form
type CSVUnmarshaler interface {
	UnmarshalCSV(string) error
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	marshalerType   = reflect.TypeOf((*CSVMarshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*CSVUnmarshaler)(nil)).Elem()
)

type columnField struct {
	name  string
	index int
}

// columnCache maps a row type to its csv-tagged fields, in declaration order
var columnCache sync.Map

func columnsOf(t reflect.Type) []columnField {
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]columnField)
	}

	var cols []columnField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("csv")
		if tag == "" || tag == "-" || !f.IsExported() {
			continue
		}
		cols = append(cols, columnField{name: tag, index: i})
	}

	columnCache.Store(t, cols)
	return cols
}

// Headers returns the column names of a row type
func Headers[T any]() []string {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.name
	}
	return headers
}

// EncodeRows renders rows into text records, in header order
func EncodeRows[T any](rows []T) ([]string, [][]string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	cols := columnsOf(t)
	headers := Headers[T]()

	records := make([][]string, len(rows))
	for r := range rows {
		v := reflect.ValueOf(&rows[r]).Elem()
		record := make([]string, len(cols))
		for c, col := range cols {
			cell, err := encodeCell(v.Field(col.index))
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %s: %w", r, col.name, err)
			}
			record[c] = cell
		}
		records[r] = record
	}
	return headers, records, nil
}

// ToTable encodes rows into a table named key
func ToTable[T any](key string, rows []T) (*domain.Table, error) {
	headers, records, err := EncodeRows(rows)
	if err != nil {
		return nil, errors.NewParsingError("failed to encode chart rows", err).WithContext("chart", key)
	}
	return &domain.Table{Key: key, Headers: headers, Records: records}, nil
}

// DecodeRows maps records onto rows by header name. Column order does not
// matter and unknown columns are ignored; a missing column is an error.
func DecodeRows[T any](headers []string, records [][]string) ([]T, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	cols := columnsOf(t)

	position := make(map[string]int, len(headers))
	for i, h := range headers {
		position[h] = i
	}
	positions := make([]int, len(cols))
	for i, col := range cols {
		p, ok := position[col.name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", col.name)
		}
		positions[i] = p
	}

	rows := make([]T, len(records))
	for r, record := range records {
		v := reflect.ValueOf(&rows[r]).Elem()
		for c, col := range cols {
			p := positions[c]
			if p >= len(record) {
				return nil, fmt.Errorf("row %d: short record", r+1)
			}
			if err := decodeCell(v.Field(col.index), record[p]); err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r+1, col.name, err)
			}
		}
	}
	return rows, nil
}

// ReadRows decodes a CSV stream whose first record is the header
func ReadRows[T any](r io.Reader) ([]T, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	return DecodeRows[T](all[0], all[1:])
}

// ReadRowsFile decodes a CSV file into rows
func ReadRowsFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRows[T](f)
}

func encodeCell(f reflect.Value) (string, error) {
	if f.Type().Implements(marshalerType) {
		return f.Interface().(CSVMarshaler).MarshalCSV()
	}
	if f.Type() == timeType {
		return f.Interface().(time.Time).Format(DateLayout), nil
	}

	switch f.Kind() {
	case reflect.String:
		return f.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(f.Int(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(f.Float(), 'f', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(f.Bool()), nil
	}
	return "", fmt.Errorf("unsupported field type %s", f.Type())
}

func decodeCell(f reflect.Value, cell string) error {
	if f.Addr().Type().Implements(unmarshalerType) {
		return f.Addr().Interface().(CSVUnmarshaler).UnmarshalCSV(cell)
	}
	if f.Type() == timeType {
		t, err := parseDate(cell)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(t))
		return nil
	}

	switch f.Kind() {
	case reflect.String:
		f.SetString(cell)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cell == "" {
			f.SetInt(0)
			return nil
		}
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			// whole numbers written as floats, e.g. "12.0"
			fl, ferr := strconv.ParseFloat(cell, 64)
			if ferr != nil {
				return err
			}
			n = int64(fl)
		}
		f.SetInt(n)
	case reflect.Float32, reflect.Float64:
		if cell == "" {
			f.SetFloat(0)
			return nil
		}
		fl, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return err
		}
		f.SetFloat(fl)
	case reflect.Bool:
		b, err := strconv.ParseBool(cell)
		if err != nil {
			return err
		}
		f.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", f.Type())
	}
	return nil
}

// parseDate accepts plain dates and the timestamp forms spreadsheet and
// dataframe tools write for datetime columns
func parseDate(cell string) (time.Time, error) {
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, cell); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", cell)
}
