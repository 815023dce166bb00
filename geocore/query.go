// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params holds request parameters. Values may be scalars, []string, []any,
// map[string]string or map[string]any; maps and slices nest.
type Params map[string]any

// set stores value under key unless value is empty.
func (p Params) set(key, value string) Params {
	if value != "" {
		p[key] = value
	}
	return p
}

// setInt stores value under key when it is positive.
func (p Params) setInt(key string, value int) Params {
	if value > 0 {
		p[key] = value
	}
	return p
}

// merge copies other into p, overwriting duplicate keys.
func (p Params) merge(other Params) Params {
	for k, v := range other {
		p[k] = v
	}
	return p
}

// encodeQuery serializes params into a URL query string. Keys are sorted
// lexicographically at every level, nested maps encode as key[nested]=value
// and slices as key[]=value. Components are percent-encoded; the brackets
// are left literal.
func encodeQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		pairs = appendPairs(pairs, escapeComponent(k), params[k])
	}
	return strings.Join(pairs, "&")
}

func appendPairs(pairs []string, prefix string, value any) []string {
	switch v := value.(type) {
	case Params:
		return appendMap(pairs, prefix, v)
	case map[string]any:
		return appendMap(pairs, prefix, v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return appendMap(pairs, prefix, m)
	case []any:
		for _, elem := range v {
			pairs = appendPairs(pairs, prefix+"[]", elem)
		}
		return pairs
	case []string:
		for _, elem := range v {
			pairs = appendPairs(pairs, prefix+"[]", elem)
		}
		return pairs
	default:
		return append(pairs, prefix+"="+escapeComponent(formatValue(v)))
	}
}

func appendMap[M ~map[string]any](pairs []string, prefix string, m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = appendPairs(pairs, prefix+"["+escapeComponent(k)+"]", m[k])
	}
	return pairs
}

func sortedKeys(p Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escapeComponent percent-encodes s, using %20 rather than + for spaces.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
