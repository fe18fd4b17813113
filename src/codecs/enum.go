package codecs

import (
	"encoding"
	"fmt"
	"reflect"

	"docmapper/src/models"
)

var (
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// enumCodec stores enumerated values by name.
//
// Enumerations are defined types over string, which are stored as their underlying value,
// or defined integer types that implement fmt.Stringer and, on the pointer,
// encoding.TextUnmarshaler. A string enum implementing TextUnmarshaler gets its names
// validated on decode.
type enumCodec struct{}

func (enumCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	if t.Name() == "" || t.PkgPath() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.String:
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return t.Implements(stringerType) && reflect.PointerTo(t).Implements(textUnmarshalerType)
	default:
		return false
	}
}

func (enumCodec) IsValidValue(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func (enumCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, _ int) (interface{}, error) {
	if v.Kind() == reflect.String {
		return v.String(), nil
	}
	return v.Interface().(fmt.Stringer).String(), nil
}

func (enumCodec) Decode(v interface{}, t reflect.Type, field *models.FieldDescriptor, _ int) (reflect.Value, error) {
	name := v.(string)

	ptr := reflect.New(t)
	if u, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(name)); err != nil {
			return reflect.Value{}, fmt.Errorf("field %q: %q is not a valid %v: %w", field.Name, name, t, err)
		}
		return ptr.Elem(), nil
	}
	return reflect.ValueOf(name).Convert(t), nil
}
