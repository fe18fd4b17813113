// Package schema derives TypeDescriptors from tagged Go structs and their declared builders.
package schema

import (
	"fmt"
	"reflect"

	"docmapper/src/models"
)

// Extract builds the descriptor of t, which must be a struct or a pointer to one.
// builders are added to the builder the type may declare itself; exactly one must remain.
// Codec compatibility of the fields is not checked here.
func Extract(t reflect.Type, builders ...Builder) (*models.TypeDescriptor, error) {
	owner := models.Indirect(t)
	if owner == nil || owner.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %v", models.ErrNotAStruct, t)
	}

	contract, err := resolveContract(owner, builders)
	if err != nil {
		return nil, err
	}

	var fields []*models.FieldDescriptor
	if err := collectFields(owner, owner, nil, make(map[string]bool), &fields); err != nil {
		return nil, err
	}

	if err := bindParams(owner, contract, fields); err != nil {
		return nil, err
	}

	return models.NewTypeDescriptor(owner, fields, contract, Fingerprint(owner, fields, contract)), nil
}

// collectFields walks the declared fields of t first and the embedded structs after, so an
// outer declaration shadows an embedded one with the same document name.
func collectFields(owner, t reflect.Type, prefix []int, seen map[string]bool, out *[]*models.FieldDescriptor) error {
	var embedded []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, tagged := sf.Tag.Lookup(TagName)

		if sf.Anonymous && !tagged {
			// embedded pointers may be nil and unexported embeds cannot be assigned
			if sf.Type.Kind() == reflect.Struct && sf.IsExported() {
				embedded = append(embedded, sf)
			}
			continue
		}
		if !tagged || tag == "-" {
			continue
		}

		ft, err := parseFieldTag(tag, sf.Name)
		if err != nil {
			return fmt.Errorf("%w: field %v.%s: %v", models.ErrInvalidFieldType, t, sf.Name, err)
		}
		if seen[ft.name] {
			continue
		}
		if !sf.IsExported() {
			return &models.InvalidFieldTypeError{Type: owner, Field: ft.name, Kind: ft.kind, FieldType: sf.Type}
		}
		seen[ft.name] = true

		*out = append(*out, &models.FieldDescriptor{
			Name:        ft.name,
			Kind:        ft.kind,
			IsReference: ft.kind.Tag == models.KindReference,
			GoName:      sf.Name,
			Type:        sf.Type,
			Index:       appendIndex(prefix, i),
			IndexType:   ft.indexType,
			Unique:      ft.unique,
		})
	}

	for _, sf := range embedded {
		if err := collectFields(owner, sf.Type, appendIndex(prefix, sf.Index[0]), seen, out); err != nil {
			return err
		}
	}
	return nil
}

func appendIndex(prefix []int, i int) []int {
	index := make([]int, len(prefix), len(prefix)+1)
	copy(index, prefix)
	return append(index, i)
}

// bindParams marks the fields fed through the builder and checks that every parameter
// has the same base type as the field it binds.
func bindParams(owner reflect.Type, contract *models.ConstructionContract, fields []*models.FieldDescriptor) error {
	byName := make(map[string]*models.FieldDescriptor, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	for i, p := range contract.Params {
		f, ok := byName[p.Tag]
		if !ok {
			return &models.MissingParamTagError{
				Type:     owner,
				Position: i,
				Reason:   fmt.Sprintf("tag %q names no mapped field", p.Tag),
			}
		}
		if models.Indirect(p.Type) != f.BaseType() {
			return &models.BuilderMismatchError{
				Type:   owner,
				Reason: fmt.Sprintf("parameter %q has type %v but field %s is %v", p.Tag, p.Type, f.GoName, f.Type),
			}
		}
		f.SuppliedAtConstruction = true
	}
	return nil
}
