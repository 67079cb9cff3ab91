package printer

import (
	"database/sql/driver"
	"fmt"
	"io"
	"reflect"
	"strings"
)

const (
	Separator = " | "
	Null      = "NULL"
)

// Row is anything that can list its printable fields in column order.
type Row interface {
	Fields() []any
}

// Fprint writes one line per row, fields joined by Separator.
func Fprint(w io.Writer, rows ...Row) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, Line(row)); err != nil {
			return err
		}
	}
	return nil
}

// Line formats a single row without the trailing newline.
func Line(row Row) string {
	fields := row.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = Format(f)
	}
	return strings.Join(parts, Separator)
}

// Format renders one field value. Absent values print as Null.
func Format(v any) string {
	if v == nil {
		return Null
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null
		}
		v = rv.Elem().Interface()
	}

	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case driver.Valuer:
		val, err := x.Value()
		if err != nil {
			return fmt.Sprint(x)
		}
		return Format(val)
	}
	return fmt.Sprint(v)
}
