package codecs

import (
	"fmt"
	"reflect"

	"docmapper/src/models"
)

// CodecRegistry holds one codec per value kind.
type CodecRegistry struct {
	codecs [models.KindTotal]Codec
}

// NewCodecRegistry creates the codecs of every kind. conv is used by the kinds that recurse
// into other mapped types.
func NewCodecRegistry(conv Converter) *CodecRegistry {
	r := &CodecRegistry{}
	r.codecs[models.KindString] = stringCodec{}
	r.codecs[models.KindNumber] = numberCodec{}
	r.codecs[models.KindBoolean] = booleanCodec{}
	r.codecs[models.KindEnum] = enumCodec{}
	r.codecs[models.KindObjectID] = objectIDCodec{}
	r.codecs[models.KindBinary] = binaryCodec{}
	r.codecs[models.KindObject] = objectCodec{conv: conv}
	r.codecs[models.KindReference] = referenceCodec{conv: conv}
	r.codecs[models.KindArray] = collectionCodec{registry: r}
	return r
}

// Resolve returns the codec handling kind.
func (r *CodecRegistry) Resolve(kind models.ValueKind) (Codec, error) {
	if kind.Tag <= models.KindUnknown || int(kind.Tag) >= models.KindTotal || r.codecs[kind.Tag] == nil {
		return nil, fmt.Errorf("no codec for value kind %s", kind)
	}
	return r.codecs[kind.Tag], nil
}

// IsValidType reports whether the field's Go type is compatible with its declared kind.
func (r *CodecRegistry) IsValidType(field *models.FieldDescriptor) bool {
	codec, err := r.Resolve(field.Kind)
	if err != nil {
		return false
	}
	return codec.IsValidStaticType(field.BaseType(), field.Kind)
}

// CheckValue fails with an InvalidBsonTypeError when v cannot be read as the field's kind.
// BSON null is accepted for every kind.
func (r *CodecRegistry) CheckValue(field *models.FieldDescriptor, v interface{}) error {
	if v == nil {
		return nil
	}
	codec, err := r.Resolve(field.Kind)
	if err != nil {
		return err
	}
	if !codec.IsValidValue(v) {
		return &models.InvalidBsonTypeError{Field: field.Name, BsonType: BsonTypeOf(v)}
	}
	return nil
}

// EncodeValue follows pointers and encodes v with the field's codec. Nil pointers, slices
// and maps encode to BSON null.
func (r *CodecRegistry) EncodeValue(v reflect.Value, field *models.FieldDescriptor, depth int) (interface{}, error) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil() {
		return nil, nil
	}

	codec, err := r.Resolve(field.Kind)
	if err != nil {
		return nil, err
	}
	return codec.Encode(v, field, depth)
}

// DecodeValue checks v against the field's kind and decodes it into a value of type t,
// allocating pointers as t requires. BSON null decodes to the zero value of t.
func (r *CodecRegistry) DecodeValue(v interface{}, t reflect.Type, field *models.FieldDescriptor, depth int) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	if err := r.CheckValue(field, v); err != nil {
		return reflect.Value{}, err
	}

	codec, err := r.Resolve(field.Kind)
	if err != nil {
		return reflect.Value{}, err
	}
	out, err := codec.Decode(v, models.Indirect(t), field, depth)
	if err != nil {
		return reflect.Value{}, err
	}
	return adapt(out, t), nil
}

// adapt converts a decoded T or *T into t by allocating or following pointers.
func adapt(v reflect.Value, t reflect.Type) reflect.Value {
	if v.Type() == t {
		return v
	}
	if t.Kind() == reflect.Pointer {
		inner := adapt(v, t.Elem())
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p
	}
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}
