// Package codecs converts single field values between Go and the BSON value model.
//
// One stateless Codec exists per value kind. The CodecRegistry owns them and applies the
// rules shared by every kind: nil Go values encode to BSON null, BSON null decodes to the
// zero value of the target, pointers are followed on encode and allocated on decode, and
// document values are checked against the field's kind before any decoding happens.
package codecs

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/models"
)

// Codec converts the values of one kind.
type Codec interface {
	// IsValidStaticType reports whether Go type t, pointers stripped, can hold values of kind.
	IsValidStaticType(t reflect.Type, kind models.ValueKind) bool

	// IsValidValue reports whether a non-nil document value has a BSON type this codec reads.
	IsValidValue(v interface{}) bool

	// Encode converts a non-nil, dereferenced Go value.
	Encode(v reflect.Value, field *models.FieldDescriptor, depth int) (interface{}, error)

	// Decode converts a validated, non-nil document value into base type t.
	// Codecs for struct kinds may return *t instead of t.
	Decode(v interface{}, t reflect.Type, field *models.FieldDescriptor, depth int) (reflect.Value, error)
}

// Converter is the part of the conversion engine the object and reference codecs recurse into.
type Converter interface {
	// EncodeObject converts a struct value, or a pointer to one, into a document.
	EncodeObject(v reflect.Value, depth int) (bson.D, error)

	// DecodeObject builds a *t from doc through t's construction contract.
	DecodeObject(doc bson.D, t reflect.Type, depth int) (reflect.Value, error)

	// ReferenceID returns the identifier of a referenced object without modifying it.
	ReferenceID(v reflect.Value) (primitive.ObjectID, error)

	// ResolveReference returns a *t standing for the object identified by id.
	ResolveReference(t reflect.Type, id primitive.ObjectID) (reflect.Value, error)
}
