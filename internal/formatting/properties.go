package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"
)

const ellipsis = "..."

// PropertyFormatter converts property values to display strings.
type PropertyFormatter struct {
	maxLength int
}

// NewPropertyFormatter returns a formatter that truncates values longer than
// maxLength characters. A maxLength of zero or less disables truncation.
func NewPropertyFormatter(maxLength int) *PropertyFormatter {
	return &PropertyFormatter{maxLength: maxLength}
}

// Format renders value as text, truncating it to the configured length.
// A truncated value ends with "..." which is not counted toward the limit.
func (f *PropertyFormatter) Format(value any) string {
	s := DisplayString(value)
	if f == nil || f.maxLength <= 0 || utf8.RuneCountInString(s) <= f.maxLength {
		return s
	}
	return string([]rune(s)[:f.maxLength]) + ellipsis
}

// DisplayString renders value without truncation. nil is the empty string;
// maps and lists are JSON with null map members omitted; times are RFC 3339
// and bools are lower case.
func DisplayString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	case json.Marshaler:
		if s, err := marshalCompact(v); err == nil {
			return s
		}
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if s, err := marshalCompact(pruneNulls(value)); err == nil {
			return s
		}
	}
	return fmt.Sprint(value)
}

// marshalCompact encodes v as JSON without HTML escaping.
func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// pruneNulls copies maps and lists in v, dropping nil map members at every
// depth. List elements keep their positions.
func pruneNulls(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			member := iter.Value().Interface()
			if isNil(member) {
				continue
			}
			out[fmt.Sprint(iter.Key().Interface())] = pruneNulls(member)
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = pruneNulls(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
