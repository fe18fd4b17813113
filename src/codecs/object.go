package codecs

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/models"
)

// objectCodec embeds another mapped type as a sub document.
type objectCodec struct {
	conv Converter
}

func (objectCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	return t.Kind() == reflect.Struct
}

func (objectCodec) IsValidValue(v interface{}) bool {
	_, ok := asDocument(v)
	return ok
}

func (c objectCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, depth int) (interface{}, error) {
	return c.conv.EncodeObject(v, depth+1)
}

func (c objectCodec) Decode(v interface{}, t reflect.Type, _ *models.FieldDescriptor, depth int) (reflect.Value, error) {
	doc, _ := asDocument(v)
	return c.conv.DecodeObject(doc, t, depth+1)
}

// referenceCodec stores the identifier of another mapped object instead of the object itself.
type referenceCodec struct {
	conv Converter
}

func (referenceCodec) IsValidStaticType(t reflect.Type, _ models.ValueKind) bool {
	return t.Kind() == reflect.Struct
}

func (referenceCodec) IsValidValue(v interface{}) bool {
	_, ok := v.(primitive.ObjectID)
	return ok
}

func (c referenceCodec) Encode(v reflect.Value, _ *models.FieldDescriptor, _ int) (interface{}, error) {
	return c.conv.ReferenceID(v)
}

func (c referenceCodec) Decode(v interface{}, t reflect.Type, field *models.FieldDescriptor, _ int) (reflect.Value, error) {
	ref, err := c.conv.ResolveReference(t, v.(primitive.ObjectID))
	if err != nil {
		return reflect.Value{}, fmt.Errorf("field %q: %w", field.Name, err)
	}
	if !ref.IsValid() || (ref.Kind() == reflect.Pointer && ref.IsNil()) {
		return reflect.Value{}, fmt.Errorf("field %q: reference %s resolved to nil", field.Name, v.(primitive.ObjectID).Hex())
	}
	return ref, nil
}

// collectionCodec converts slices element by element through the element kind's codec.
type collectionCodec struct {
	registry *CodecRegistry
}

func (c collectionCodec) IsValidStaticType(t reflect.Type, kind models.ValueKind) bool {
	if t.Kind() != reflect.Slice || kind.Elem == nil {
		return false
	}
	elem, err := c.registry.Resolve(*kind.Elem)
	if err != nil {
		return false
	}
	return elem.IsValidStaticType(models.Indirect(t.Elem()), *kind.Elem)
}

func (collectionCodec) IsValidValue(v interface{}) bool {
	_, ok := asArray(v)
	return ok
}

func (c collectionCodec) Encode(v reflect.Value, field *models.FieldDescriptor, depth int) (interface{}, error) {
	elem := field.Elem()
	if elem == nil {
		return nil, fmt.Errorf("field %q: %v is not a collection", field.Name, field.Type)
	}

	out := make(primitive.A, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		ev, err := c.registry.EncodeValue(v.Index(i), elem, depth)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (c collectionCodec) Decode(v interface{}, t reflect.Type, field *models.FieldDescriptor, depth int) (reflect.Value, error) {
	elem := field.Elem()
	if elem == nil {
		return reflect.Value{}, fmt.Errorf("field %q: %v is not a collection", field.Name, field.Type)
	}

	items, _ := asArray(v)
	out := reflect.MakeSlice(t, 0, len(items))
	for i, item := range items {
		ev, err := c.registry.DecodeValue(item, t.Elem(), elem, depth)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out = reflect.Append(out, ev)
	}
	return out, nil
}
