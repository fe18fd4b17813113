package models

import (
	"reflect"
)

// Index types a field may declare through its doc tag.
const (
	IndexTypeBTree = "btree"
	IndexTypeHash  = "hash"
)

type FieldDescriptor struct {
	// Name is the document key, unique within the owning TypeDescriptor.
	Name string

	// Kind is the value kind declared in the doc tag.
	Kind ValueKind

	// SuppliedAtConstruction is true when a builder parameter binds this field.
	SuppliedAtConstruction bool

	// IsReference is true when the field points to another mapped type by id.
	IsReference bool

	// GoName is the struct field name, used in diagnostics.
	GoName string

	// Type is the declared Go type of the struct field.
	Type reflect.Type

	// Index is the path through embedded structs, as used by reflect.Value.FieldByIndex.
	Index []int

	// IndexType is "btree" or "hash" when the field declares an index, empty otherwise.
	IndexType string
	Unique    bool
}

// Elem returns the descriptor used for the elements of an array field.
// It returns nil for any other kind.
func (f *FieldDescriptor) Elem() *FieldDescriptor {
	if f.Kind.Tag != KindArray || f.Kind.Elem == nil {
		return nil
	}
	t := f.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Slice {
		return nil
	}

	elem := *f
	elem.Kind = *f.Kind.Elem
	elem.Type = t.Elem()
	elem.IsReference = elem.Kind.Tag == KindReference
	elem.IndexType = ""
	elem.Unique = false
	return &elem
}

// BaseType strips every pointer level from the field's Go type.
func (f *FieldDescriptor) BaseType() reflect.Type {
	return Indirect(f.Type)
}

// Indirect strips every pointer level from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// BuilderKind tells whether a construction contract is a plain function or a bound method.
type BuilderKind int

const (
	BuilderConstructor BuilderKind = iota + 1
	BuilderFactory
)

func (k BuilderKind) String() string {
	switch k {
	case BuilderConstructor:
		return "constructor"
	case BuilderFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// BuilderParam binds one builder argument to the field named by Tag.
type BuilderParam struct {
	Tag  string
	Type reflect.Type
}

// ConstructionContract is the single designated way to build an instance from decoded values.
type ConstructionContract struct {
	Kind BuilderKind

	// Name of the function or method, for diagnostics only.
	Name string

	// Func is the constructor function, or the method value already bound to Receiver.
	Func reflect.Value

	// Receiver is set for factory methods only.
	Receiver reflect.Value

	// Params in declared order, which may differ from field discovery order.
	Params []BuilderParam

	// ReturnsPointer is true when Func returns *T rather than T.
	ReturnsPointer bool

	// ReturnsError is true when Func has a trailing error result.
	ReturnsError bool
}

// ParamTags returns the tags of the contract's parameters in declared order.
func (c *ConstructionContract) ParamTags() []string {
	tags := make([]string, len(c.Params))
	for i, p := range c.Params {
		tags[i] = p.Tag
	}
	return tags
}

// TypeDescriptor is the cached, immutable schema of one mapped type.
type TypeDescriptor struct {
	OwnerType   reflect.Type
	Fields      []*FieldDescriptor
	Contract    *ConstructionContract
	Fingerprint string

	byName map[string]int
}

// NewTypeDescriptor indexes fields by name. Fields must already be unique and in discovery order.
func NewTypeDescriptor(owner reflect.Type, fields []*FieldDescriptor, contract *ConstructionContract, fingerprint string) *TypeDescriptor {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[f.Name] = i
	}
	return &TypeDescriptor{
		OwnerType:   owner,
		Fields:      fields,
		Contract:    contract,
		Fingerprint: fingerprint,
		byName:      byName,
	}
}

// Field returns the descriptor of the field mapped to the document key name.
func (d *TypeDescriptor) Field(name string) (*FieldDescriptor, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return d.Fields[i], true
}

// NonBuilderFields returns the fields assigned after construction, in discovery order.
func (d *TypeDescriptor) NonBuilderFields() []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, f := range d.Fields {
		if !f.SuppliedAtConstruction {
			out = append(out, f)
		}
	}
	return out
}

// IDField returns the first objectid field, which identifies instances of the type.
func (d *TypeDescriptor) IDField() (*FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Kind.Tag == KindObjectID {
			return f, true
		}
	}
	return nil, false
}

// IndexReference describes an index declared on a mapped type, for a storage layer to act on.
type IndexReference struct {
	IndexName string
	Fields    []string
	IndexType string // "btree", "hash"
	IsUnique  bool
}

// Indexes returns one IndexReference per field that declares an index.
func (d *TypeDescriptor) Indexes() []IndexReference {
	var out []IndexReference
	for _, f := range d.Fields {
		if f.IndexType == "" {
			continue
		}
		out = append(out, IndexReference{
			IndexName: d.OwnerType.Name() + "_" + f.Name + "_" + f.IndexType,
			Fields:    []string{f.Name},
			IndexType: f.IndexType,
			IsUnique:  f.Unique,
		})
	}
	return out
}
