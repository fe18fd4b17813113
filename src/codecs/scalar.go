package codecs

import (
	"fmt"
	"math"
	"reflect"

	"docmapper/src/models"
)

type stringCodec struct{}

func (stringCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	return t.Kind() == reflect.String
}

func (stringCodec) IsValidValue(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func (stringCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, _ int) (interface{}, error) {
	return v.String(), nil
}

func (stringCodec) Decode(v interface{}, t reflect.Type, _ *models.FieldDescriptor, _ int) (reflect.Value, error) {
	return reflect.ValueOf(v.(string)).Convert(t), nil
}

type booleanCodec struct{}

func (booleanCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	return t.Kind() == reflect.Bool
}

func (booleanCodec) IsValidValue(v interface{}) bool {
	_, ok := v.(bool)
	return ok
}

func (booleanCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, _ int) (interface{}, error) {
	return v.Bool(), nil
}

func (booleanCodec) Decode(v interface{}, t reflect.Type, _ *models.FieldDescriptor, _ int) (reflect.Value, error) {
	return reflect.ValueOf(v.(bool)).Convert(t), nil
}

// numberCodec stores small integers as int32, other integers as int64 and floats as double.
type numberCodec struct{}

func (numberCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func (numberCodec) IsValidValue(v interface{}) bool {
	switch v.(type) {
	case int32, int64, int, float64:
		return true
	default:
		return false
	}
}

func (numberCodec) Encode(v reflect.Value, field *models.FieldDescriptor, _ int) (interface{}, error) {
	switch v.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return int32(v.Int()), nil
	case reflect.Int, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint8, reflect.Uint16:
		return int32(v.Uint()), nil
	case reflect.Uint, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("field %q: value %d does not fit a bson int64", field.Name, u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	default:
		return nil, fmt.Errorf("field %q: %v is not a number", field.Name, v.Type())
	}
}

func (numberCodec) Decode(v interface{}, t reflect.Type, field *models.FieldDescriptor, _ int) (reflect.Value, error) {
	var (
		i       int64
		f       float64
		isFloat bool
	)
	switch n := v.(type) {
	case int32:
		i = int64(n)
	case int64:
		i = n
	case int:
		i = int64(n)
	case float64:
		f, isFloat = n, true
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		if !isFloat {
			f = float64(i)
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("field %q: %g overflows %v", field.Name, f, t)
		}
		out.SetFloat(f)
		return out, nil
	}

	if isFloat {
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("field %q: %g is not a valid integer for %v", field.Name, f, t)
		}
		i = int64(f)
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if out.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("field %q: %d overflows %v", field.Name, i, t)
		}
		out.SetInt(i)
	default:
		if i < 0 || out.OverflowUint(uint64(i)) {
			return reflect.Value{}, fmt.Errorf("field %q: %d overflows %v", field.Name, i, t)
		}
		out.SetUint(uint64(i))
	}
	return out, nil
}
