// Package output produces deterministic JSON encodings. Graph fingerprints
// and golden tests rely on byte-identical output for identical inputs, so
// map keys are sorted, floats are rounded, and nil fields are omitted.
package output

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strings"
)

// DeterministicEncode produces byte-identical JSON output:
// stable key ordering, floats rounded to 6 decimal places, nil fields omitted.
func DeterministicEncode(v interface{}) ([]byte, error) {
	normalized := normalizeValue(v)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(normalized); err != nil {
		return nil, err
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	return result, nil
}

// DeterministicEncodeIndented produces indented byte-identical JSON output.
func DeterministicEncodeIndented(v interface{}, indent string) ([]byte, error) {
	normalized := normalizeValue(v)
	return json.MarshalIndent(normalized, "", indent)
}

// RoundFloat rounds a float to 6 decimal places to avoid formatting jitter.
func RoundFloat(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

func normalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)

	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float())
	case reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return normalizeValue(val.Interface())
	default:
		return val.Interface()
	}
}

func normalizeMap(val reflect.Value) interface{} {
	if val.IsNil() {
		return nil
	}

	result := make(map[string]interface{})
	iter := val.MapRange()
	for iter.Next() {
		key := keyString(iter.Key())
		value := normalizeValue(iter.Value().Interface())
		if value != nil {
			result[key] = value
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func keyString(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	// Non-string map keys fall back to their default formatting.
	b, _ := json.Marshal(key.Interface())
	return strings.Trim(string(b), `"`)
}

func normalizeSlice(val reflect.Value) interface{} {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return nil
	}

	result := make([]interface{}, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		result = append(result, normalizeValue(val.Index(i).Interface()))
	}
	return result
}

func normalizeStruct(val reflect.Value) interface{} {
	t := val.Type()
	result := make(map[string]interface{})

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		fieldVal := val.Field(i)
		if omitEmpty && fieldVal.IsZero() {
			continue
		}

		value := normalizeValue(fieldVal.Interface())
		if value != nil {
			result[name] = value
		}
	}

	return result
}

func parseJSONTag(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// SortedKeys returns the keys of a string-keyed map in sorted order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
