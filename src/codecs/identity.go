package codecs

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/models"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// objectIDCodec stores ids as they are. Zero ids are written unchanged; fresh ids are only
// assigned when a document without one is decoded.
type objectIDCodec struct{}

func (objectIDCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	return t == objectIDType
}

func (objectIDCodec) IsValidValue(v interface{}) bool {
	_, ok := v.(primitive.ObjectID)
	return ok
}

func (objectIDCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, _ int) (interface{}, error) {
	return v.Interface().(primitive.ObjectID), nil
}

func (objectIDCodec) Decode(v interface{}, _ reflect.Type, _ *models.FieldDescriptor, _ int) (reflect.Value, error) {
	return reflect.ValueOf(v.(primitive.ObjectID)), nil
}

// binaryCodec stores byte slices as generic binary and uuid.UUID values as binary subtype 4.
type binaryCodec struct{}

func (binaryCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	if t == uuidType {
		return true
	}
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

func (binaryCodec) IsValidValue(v interface{}) bool {
	switch v.(type) {
	case primitive.Binary, []byte:
		return true
	default:
		return false
	}
}

func (binaryCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, _ int) (interface{}, error) {
	if v.Type() == uuidType {
		u := v.Interface().(uuid.UUID)
		return primitive.Binary{Subtype: bsontype.BinaryUUID, Data: u[:]}, nil
	}
	data := make([]byte, v.Len())
	copy(data, v.Bytes())
	return primitive.Binary{Subtype: bsontype.BinaryGeneric, Data: data}, nil
}

func (binaryCodec) Decode(v interface{}, t reflect.Type, field *models.FieldDescriptor, _ int) (reflect.Value, error) {
	var data []byte
	switch b := v.(type) {
	case primitive.Binary:
		data = b.Data
	case []byte:
		data = b
	}

	if t == uuidType {
		u, err := uuid.FromBytes(data)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %q: %w", field.Name, err)
		}
		return reflect.ValueOf(u), nil
	}

	out := make([]byte, len(data))
	copy(out, data)
	return reflect.ValueOf(out).Convert(t), nil
}
