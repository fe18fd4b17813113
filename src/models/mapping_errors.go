package models

import (
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrBuilderMismatch       = errors.New("builder mismatch")
	ErrMissingParamTag       = errors.New("missing builder parameter tag")
	ErrPrimitiveParam        = errors.New("primitive builder parameter")
	ErrInvalidFieldType      = errors.New("invalid field type")
	ErrInvalidBsonType       = errors.New("invalid bson type")
	ErrUnregisteredType      = errors.New("type not registered")
	ErrObjectConstruction    = errors.New("object construction failed")
	ErrTypeAlreadyRegistered = errors.New("type already registered with a different schema")
	ErrMaxDepthExceeded      = errors.New("maximum nesting depth exceeded")
	ErrNotAStruct            = errors.New("mapped types must be structs")
	ErrUnknownField          = errors.New("no such mapped field")
)

// BuilderMismatchError is returned when a type has zero or several construction
// contracts, or when the contract does not produce the target type.
type BuilderMismatchError struct {
	Type   reflect.Type
	Reason string
}

func (e *BuilderMismatchError) Error() string {
	return fmt.Sprintf("invalid builder for %v: %s", e.Type, e.Reason)
}

func (e *BuilderMismatchError) Is(target error) bool { return target == ErrBuilderMismatch }

type MissingParamTagError struct {
	Type     reflect.Type
	Position int
	Reason   string
}

func (e *MissingParamTagError) Error() string {
	return fmt.Sprintf("builder parameter %d of %v: %s", e.Position, e.Type, e.Reason)
}

func (e *MissingParamTagError) Is(target error) bool { return target == ErrMissingParamTag }

// PrimitiveParamError rejects builder parameters that cannot hold an absent value.
type PrimitiveParamError struct {
	Type      reflect.Type
	Param     string
	ParamType reflect.Type
}

func (e *PrimitiveParamError) Error() string {
	return fmt.Sprintf("builder parameter %q of %v has non-nillable type %v", e.Param, e.Type, e.ParamType)
}

func (e *PrimitiveParamError) Is(target error) bool { return target == ErrPrimitiveParam }

type InvalidFieldTypeError struct {
	Type      reflect.Type
	Field     string
	Kind      ValueKind
	FieldType reflect.Type
}

func (e *InvalidFieldTypeError) Error() string {
	return fmt.Sprintf("field %q of %v: type %v is not compatible with kind %s", e.Field, e.Type, e.FieldType, e.Kind)
}

func (e *InvalidFieldTypeError) Is(target error) bool { return target == ErrInvalidFieldType }

// InvalidBsonTypeError reports a document value whose BSON type does not fit the field's kind.
type InvalidBsonTypeError struct {
	Field    string
	BsonType bsontype.Type
}

func (e *InvalidBsonTypeError) Error() string {
	return fmt.Sprintf("field %q: unexpected bson type %s", e.Field, e.BsonType)
}

func (e *InvalidBsonTypeError) Is(target error) bool { return target == ErrInvalidBsonType }

type UnregisteredTypeError struct {
	Type reflect.Type
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("type %v is not registered", e.Type)
}

func (e *UnregisteredTypeError) Is(target error) bool { return target == ErrUnregisteredType }

// ObjectConstructionError wraps any failure while building an object from a document.
type ObjectConstructionError struct {
	Type  reflect.Type
	Cause error
}

func (e *ObjectConstructionError) Error() string {
	return fmt.Sprintf("could not construct %v: %v", e.Type, e.Cause)
}

func (e *ObjectConstructionError) Is(target error) bool { return target == ErrObjectConstruction }

func (e *ObjectConstructionError) Unwrap() error { return e.Cause }
