// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// Entity decoding is lenient: a field whose JSON type does not fit the Go
// field is treated as absent, so one badly typed value never fails the
// whole entity. Empty arrays and objects inside an entity are absent too,
// which keeps decode(encode(decode(x))) equal to decode(x) since they are
// omitted on write.

var (
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	timeType        = reflect.TypeOf(Time{})
	rawMessageType  = reflect.TypeOf(json.RawMessage(nil))
)

// unmarshalLenient decodes data into v, dropping values that do not fit.
// It fails only when data is not JSON or its top level cannot fit v.
func unmarshalLenient(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return err
	}

	target := reflect.TypeOf(v).Elem()
	fitted, ok := conform(generic, target)
	if !ok {
		return fmt.Errorf("JSON %s does not fit %s", jsonKind(generic), target)
	}
	normalized, err := json.Marshal(fitted)
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, v)
}

// conform returns v reduced to what decodes into t, and false when v
// itself cannot.
func conform(v any, t reflect.Type) (any, bool) {
	if v == nil {
		return nil, true
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return v, fitsTime(v)
	case t == rawMessageType, t.Kind() == reflect.Interface:
		return v, true
	case reflect.PointerTo(t).Implements(unmarshalerType):
		// Types with their own decoding handle their content.
		return v, true
	}

	switch t.Kind() {
	case reflect.String:
		_, ok := v.(string)
		return v, ok
	case reflect.Bool:
		_, ok := v.(bool)
		return v, ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.(json.Number)
		if !ok {
			return nil, false
		}
		_, err := strconv.ParseInt(n.String(), 10, t.Bits())
		return v, err == nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.(json.Number)
		if !ok {
			return nil, false
		}
		_, err := strconv.ParseUint(n.String(), 10, t.Bits())
		return v, err == nil
	case reflect.Float32, reflect.Float64:
		_, ok := v.(json.Number)
		return v, ok
	case reflect.Slice, reflect.Array:
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			if fitted, ok := conform(el, t.Elem()); ok {
				out = append(out, fitted)
			}
		}
		return out, true
	case reflect.Map:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if t.Key().Kind() != reflect.String {
			return v, true
		}
		out := make(map[string]any, len(obj))
		for k, el := range obj {
			if fitted, ok := conform(el, t.Elem()); ok {
				out[k] = fitted
			}
		}
		return out, true
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		fields := jsonFields(t)
		out := make(map[string]any, len(obj))
		for k, el := range obj {
			ft, known := fields[strings.ToLower(k)]
			if !known {
				continue
			}
			fitted, ok := conform(el, ft)
			if !ok || emptyCollection(fitted) {
				continue
			}
			out[k] = fitted
		}
		return out, true
	default:
		return v, true
	}
}

func fitsTime(v any) bool {
	switch val := v.(type) {
	case string:
		_, err := ParseTime(val)
		return err == nil
	case json.Number:
		_, err := val.Int64()
		return err == nil
	default:
		return false
	}
}

func emptyCollection(v any) bool {
	switch val := v.(type) {
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case []any:
		return "array"
	default:
		return "object"
	}
}

var fieldCache sync.Map // reflect.Type -> map[string]reflect.Type

// jsonFields maps the lower-cased JSON names of t's fields, including
// those promoted from embedded structs, to their types. Outer fields
// shadow embedded ones.
func jsonFields(t reflect.Type) map[string]reflect.Type {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]reflect.Type)
	}

	fields := make(map[string]reflect.Type)
	var promoted []map[string]reflect.Type
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				promoted = append(promoted, jsonFields(ft))
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fields[strings.ToLower(name)] = f.Type
	}
	for _, inner := range promoted {
		for name, ft := range inner {
			if _, shadowed := fields[name]; !shadowed {
				fields[name] = ft
			}
		}
	}

	fieldCache.Store(t, fields)
	return fields
}
