// Package engine holds the type registry and the conversion engine that walks cached type
// descriptors to turn objects into BSON documents and back.
package engine

import (
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"docmapper/src/codecs"
	"docmapper/src/models"
	"docmapper/src/settings"
)

type Engine struct {
	registry *TypeRegistry
	codecs   *codecs.CodecRegistry
	identity IdentityProvider
	resolver ReferenceResolver
	maxDepth int
	logger   *zap.SugaredLogger
}

// NewEngine creates the codecs and an empty type registry. A nil logger discards output.
func NewEngine(args *settings.Arguments, logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	e := &Engine{
		identity: ObjectIDProvider{},
		maxDepth: args.MaxDepth,
		logger:   logger,
	}
	if e.maxDepth < 1 {
		e.maxDepth = settings.DefaultMaxDepth
	}

	e.codecs = codecs.NewCodecRegistry(e)
	e.registry = NewTypeRegistry(e.codecs, args.AutoRegister, logger)
	e.resolver = NewStubResolver(e.registry)

	return e
}

// WithIdentityProvider replaces the provider used to mint ids for decoded objects without one.
func (e *Engine) WithIdentityProvider(p IdentityProvider) *Engine {
	e.identity = p
	return e
}

// WithReferenceResolver replaces the stub resolver used when decoding references.
func (e *Engine) WithReferenceResolver(r ReferenceResolver) *Engine {
	e.resolver = r
	return e
}

func (e *Engine) Registry() *TypeRegistry {
	return e.registry
}

// IsValidType reports whether the field's Go type fits its declared kind.
func (e *Engine) IsValidType(field *models.FieldDescriptor) bool {
	return e.codecs.IsValidType(field)
}

// ToDocument converts obj, a registered struct or a pointer to one, into a document.
// Every mapped field is present in the output; nil values are written as explicit nulls.
// obj is only read, so ids are written as they are, zero ids included.
func (e *Engine) ToDocument(obj interface{}) (bson.D, error) {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, fmt.Errorf("cannot convert nil %T to a document", obj)
	}
	return e.EncodeObject(v, 0)
}

// FromDocument builds a *t from doc through t's construction contract. Objectid fields that
// are absent from doc or null get a fresh id from the identity provider.
func (e *Engine) FromDocument(doc bson.D, t reflect.Type) (interface{}, error) {
	v, err := e.DecodeObject(doc, models.Indirect(t), 0)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (e *Engine) EncodeObject(v reflect.Value, depth int) (bson.D, error) {
	if depth > e.maxDepth {
		return nil, fmt.Errorf("%w: %d levels encoding %v", models.ErrMaxDepthExceeded, depth, v.Type())
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot encode nil %v", v.Type())
		}
		v = v.Elem()
	}

	desc, err := e.registry.lookupOrRegister(v.Type())
	if err != nil {
		return nil, err
	}

	doc := make(bson.D, 0, len(desc.Fields))
	for _, f := range desc.Fields {
		value, err := e.codecs.EncodeValue(v.FieldByIndex(f.Index), f, depth)
		if err != nil {
			return nil, fmt.Errorf("encoding %v.%s: %w", desc.OwnerType, f.GoName, err)
		}
		doc = append(doc, bson.E{Key: f.Name, Value: value})
	}
	return doc, nil
}

func (e *Engine) DecodeObject(doc bson.D, t reflect.Type, depth int) (reflect.Value, error) {
	if depth > e.maxDepth {
		return reflect.Value{}, fmt.Errorf("%w: %d levels decoding %v", models.ErrMaxDepthExceeded, depth, t)
	}

	desc, err := e.registry.lookupOrRegister(t)
	if err != nil {
		return reflect.Value{}, err
	}

	values := make(map[string]interface{}, len(doc))
	for _, elem := range doc {
		values[elem.Key] = elem.Value
	}
	for _, f := range desc.Fields {
		if f.Kind.Tag == models.KindObjectID && values[f.Name] == nil {
			values[f.Name] = e.NewObjectID()
		}
	}

	for _, f := range desc.Fields {
		if raw, ok := values[f.Name]; ok {
			if err := e.codecs.CheckValue(f, raw); err != nil {
				return reflect.Value{}, err
			}
		}
	}

	args := make([]reflect.Value, len(desc.Contract.Params))
	for i, p := range desc.Contract.Params {
		f, _ := desc.Field(p.Tag)
		arg, err := e.codecs.DecodeValue(values[p.Tag], p.Type, f, depth)
		if err != nil {
			return reflect.Value{}, e.constructionError(desc, fmt.Errorf("parameter %q: %w", p.Tag, err))
		}
		args[i] = arg
	}

	obj, err := e.invoke(desc, args)
	if err != nil {
		return reflect.Value{}, e.constructionError(desc, err)
	}

	for _, f := range desc.NonBuilderFields() {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		fv, err := e.codecs.DecodeValue(raw, f.Type, f, depth)
		if err != nil {
			return reflect.Value{}, e.constructionError(desc, fmt.Errorf("field %q: %w", f.Name, err))
		}
		obj.Elem().FieldByIndex(f.Index).Set(fv)
	}

	return obj, nil
}

// invoke calls the construction contract and normalizes its result to a non-nil *T.
// A panic inside the builder is returned as an error.
func (e *Engine) invoke(desc *models.TypeDescriptor, args []reflect.Value) (obj reflect.Value, err error) {
	contract := desc.Contract

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", contract.Name, r)
		}
	}()

	out := contract.Func.Call(args)
	if contract.ReturnsError && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	if contract.ReturnsPointer {
		if out[0].IsNil() {
			return reflect.Value{}, errors.New(contract.Name + " returned nil")
		}
		return out[0], nil
	}

	obj = reflect.New(desc.OwnerType)
	obj.Elem().Set(out[0])
	return obj, nil
}

func (e *Engine) constructionError(desc *models.TypeDescriptor, cause error) error {
	e.logger.Debugf("Construction of %v failed: %v", desc.OwnerType, cause)
	return &models.ObjectConstructionError{Type: desc.OwnerType, Cause: cause}
}

// ReferenceID returns the objectid of a referenced object. A nil *ObjectID reads as the
// zero id.
func (e *Engine) ReferenceID(v reflect.Value) (primitive.ObjectID, error) {
	desc, err := e.registry.lookupOrRegister(v.Type())
	if err != nil {
		return primitive.NilObjectID, err
	}
	idField, err := referenceIDField(desc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	fv := v.FieldByIndex(idField.Index)
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return primitive.NilObjectID, nil
		}
		fv = fv.Elem()
	}
	return fv.Interface().(primitive.ObjectID), nil
}

func (e *Engine) ResolveReference(t reflect.Type, id primitive.ObjectID) (reflect.Value, error) {
	return e.resolver.Resolve(t, id)
}

// NewObjectID mints an id for a decoded object that has none.
func (e *Engine) NewObjectID() primitive.ObjectID {
	return e.identity.NewObjectID()
}
