package engine

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/models"
)

// IdentityProvider mints identifiers for objects decoded from documents that carry none.
type IdentityProvider interface {
	NewObjectID() primitive.ObjectID
}

// ObjectIDProvider mints ids with primitive.NewObjectID.
type ObjectIDProvider struct{}

func (ObjectIDProvider) NewObjectID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// ReferenceResolver turns a stored reference back into an object. The returned value must be
// a *t.
type ReferenceResolver interface {
	Resolve(t reflect.Type, id primitive.ObjectID) (reflect.Value, error)
}

// ReferenceResolverFunc adapts a plain function to ReferenceResolver.
type ReferenceResolverFunc func(t reflect.Type, id primitive.ObjectID) (reflect.Value, error)

func (f ReferenceResolverFunc) Resolve(t reflect.Type, id primitive.ObjectID) (reflect.Value, error) {
	return f(t, id)
}

// StubResolver resolves references to lazy stubs: fresh instances of the target type carrying
// only their identifier, for a storage layer to load later.
type StubResolver struct {
	registry *TypeRegistry
}

func NewStubResolver(registry *TypeRegistry) *StubResolver {
	return &StubResolver{registry: registry}
}

func (s *StubResolver) Resolve(t reflect.Type, id primitive.ObjectID) (reflect.Value, error) {
	desc, err := s.registry.lookupOrRegister(t)
	if err != nil {
		return reflect.Value{}, err
	}
	idField, err := referenceIDField(desc)
	if err != nil {
		return reflect.Value{}, err
	}

	stub := reflect.New(desc.OwnerType)
	setObjectID(stub.Elem().FieldByIndex(idField.Index), id)
	return stub, nil
}

// setObjectID stores id into an ObjectID or *ObjectID field.
func setObjectID(fv reflect.Value, id primitive.ObjectID) {
	if !fv.CanSet() {
		return
	}
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(reflect.ValueOf(id))
		fv.Set(p)
		return
	}
	fv.Set(reflect.ValueOf(id))
}

// referenceIDField returns the objectid field used to reference instances of t.
func referenceIDField(desc *models.TypeDescriptor) (*models.FieldDescriptor, error) {
	idField, ok := desc.IDField()
	if !ok {
		return nil, fmt.Errorf("%v has no objectid field and cannot be referenced", desc.OwnerType)
	}
	return idField, nil
}
