package scoring

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Recognized input field names.
const (
	FieldValor  = "valor"
	FieldFactor = "factor"
	FieldTipo   = "tipo"
)

// Defaults applied by Decode to absent fields.
const (
	DefaultValor  = 50.0
	DefaultFactor = 1.0
	DefaultTipo   = "general"
)

// Fields is the raw caller-supplied input: field name to value.
type Fields map[string]any

// Input is the typed, validated form of Fields with defaults applied.
type Input struct {
	Valor  float64
	Factor float64
	Tipo   string
}

// Validate checks raw against the input rules. The first violation wins:
//
//  1. raw must be a mapping
//  2. the mapping must be non-empty
//  3. valor, when present, must be numeric and >= 0
//  4. factor, when present, must be numeric and > 0
//
// Any map with string-kind keys is a mapping. Unrecognized fields are
// ignored. Numeric means a Go integer or float kind or json.Number; bool
// values are rejected as non-numeric, unlike Python where True is an int.
func Validate(raw any) error {
	_, err := validate(raw)
	return err
}

// Decode validates raw and returns its typed form.
func Decode(raw any) (Input, error) {
	fields, err := validate(raw)
	if err != nil {
		return Input{}, err
	}

	in := Input{Valor: DefaultValor, Factor: DefaultFactor, Tipo: DefaultTipo}
	if v, ok := fields[FieldValor]; ok {
		in.Valor, _ = toFloat(v)
	}
	if v, ok := fields[FieldFactor]; ok {
		in.Factor, _ = toFloat(v)
	}
	if v, ok := fields[FieldTipo]; ok && v != nil {
		if s, isString := v.(string); isString {
			in.Tipo = s
		} else {
			in.Tipo = fmt.Sprint(v)
		}
	}
	return in, nil
}

func validate(raw any) (map[string]any, error) {
	fields, ok := asFields(raw)
	if !ok || fields == nil {
		return nil, typeError("", "input must be a mapping")
	}
	if len(fields) == 0 {
		return nil, &Error{Kind: EmptyInputKind, Msg: "input cannot be empty"}
	}

	if v, ok := fields[FieldValor]; ok {
		n, numeric := toFloat(v)
		if !numeric {
			return nil, typeError(FieldValor, "field 'valor' must be numeric")
		}
		if !(n >= 0) {
			return nil, rangeError(FieldValor, "field 'valor' cannot be negative")
		}
	}

	if v, ok := fields[FieldFactor]; ok {
		n, numeric := toFloat(v)
		if !numeric {
			return nil, typeError(FieldFactor, "field 'factor' must be numeric")
		}
		if !(n > 0) {
			return nil, rangeError(FieldFactor, "field 'factor' must be positive")
		}
	}

	return fields, nil
}

// asFields accepts any map keyed by a string kind. Typed maps such as
// map[string]float64 are copied into a map[string]any. A nil map is
// returned as nil.
func asFields(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case Fields:
		return m, true
	case map[string]any:
		return m, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, true
	}
	fields := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		fields[iter.Key().String()] = iter.Value().Interface()
	}
	return fields, true
}

// toFloat accepts every Go integer and float kind plus json.Number.
// bool is not numeric.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case nil, bool:
		return 0, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
