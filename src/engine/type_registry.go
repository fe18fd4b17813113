package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"docmapper/src/codecs"
	"docmapper/src/models"
	"docmapper/src/schema"
)

// TypeRegistry caches one TypeDescriptor per mapped struct type.
//
// The first successful registration of a type wins. Registering it again with a builder that
// yields the same fingerprint returns the cached descriptor; anything else fails with
// ErrTypeAlreadyRegistered and leaves the cache as it was.
type TypeRegistry struct {
	mu           sync.RWMutex
	descriptors  map[reflect.Type]*models.TypeDescriptor
	codecs       *codecs.CodecRegistry
	autoRegister bool
	logger       *zap.SugaredLogger
}

func NewTypeRegistry(codecRegistry *codecs.CodecRegistry, autoRegister bool, logger *zap.SugaredLogger) *TypeRegistry {
	return &TypeRegistry{
		descriptors:  make(map[reflect.Type]*models.TypeDescriptor),
		codecs:       codecRegistry,
		autoRegister: autoRegister,
		logger:       logger,
	}
}

// Register extracts, validates and caches the descriptor of t. Nothing is cached unless every
// field passes validation.
func (r *TypeRegistry) Register(t reflect.Type, builders ...schema.Builder) (*models.TypeDescriptor, error) {
	owner := models.Indirect(t)

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.descriptors[owner]; ok && len(builders) == 0 {
		return cached, nil
	}

	desc, err := schema.Extract(owner, builders...)
	if err != nil {
		r.logger.Warnf("Registration of %v failed: %v", t, err)
		return nil, err
	}

	if cached, ok := r.descriptors[desc.OwnerType]; ok {
		if cached.Fingerprint == desc.Fingerprint {
			r.logger.Debugf("Type %v already registered, keeping cached descriptor", desc.OwnerType)
			return cached, nil
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTypeAlreadyRegistered, desc.OwnerType)
	}

	if err := r.validate(desc); err != nil {
		r.logger.Warnf("Registration of %v failed: %v", t, err)
		return nil, err
	}

	r.descriptors[desc.OwnerType] = desc
	r.logger.Infow("Registered type",
		"type", desc.OwnerType.String(),
		"fields", len(desc.Fields),
		"builder", desc.Contract.Name,
		"fingerprint", desc.Fingerprint[:12])

	return desc, nil
}

// validate collects every field whose Go type does not fit its declared kind.
func (r *TypeRegistry) validate(desc *models.TypeDescriptor) error {
	var errs error
	for _, f := range desc.Fields {
		if !r.codecs.IsValidType(f) {
			errs = multierr.Append(errs, &models.InvalidFieldTypeError{
				Type:      desc.OwnerType,
				Field:     f.Name,
				Kind:      f.Kind,
				FieldType: f.Type,
			})
		}
	}
	return errs
}

// Lookup returns the cached descriptor of t or an UnregisteredTypeError.
func (r *TypeRegistry) Lookup(t reflect.Type) (*models.TypeDescriptor, error) {
	owner := models.Indirect(t)

	r.mu.RLock()
	desc, ok := r.descriptors[owner]
	r.mu.RUnlock()

	if !ok {
		return nil, &models.UnregisteredTypeError{Type: owner}
	}
	return desc, nil
}

// lookupOrRegister registers t on first use when auto registration is on and t declares its
// own builder.
func (r *TypeRegistry) lookupOrRegister(t reflect.Type) (*models.TypeDescriptor, error) {
	desc, err := r.Lookup(t)
	if err == nil || !r.autoRegister || !errors.Is(err, models.ErrUnregisteredType) || !schema.DeclaresBuilder(t) {
		return desc, err
	}
	return r.Register(t)
}

// IsRegistered reports whether t has a cached descriptor.
func (r *TypeRegistry) IsRegistered(t reflect.Type) bool {
	_, err := r.Lookup(t)
	return err == nil
}

// GetField returns the descriptor of the field mapped to name on type t.
func (r *TypeRegistry) GetField(t reflect.Type, name string) (*models.FieldDescriptor, error) {
	desc, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	f, ok := desc.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v has no field %q", models.ErrUnknownField, desc.OwnerType, name)
	}
	return f, nil
}

// GetIndexes returns the indexes declared on t, for a storage layer to create.
func (r *TypeRegistry) GetIndexes(t reflect.Type) ([]models.IndexReference, error) {
	desc, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	return desc.Indexes(), nil
}

// Count returns the number of registered types.
func (r *TypeRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
