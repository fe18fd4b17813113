package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestParseValueKind(t *testing.T) {
	tests := []struct {
		expr    string
		want    string
		wantErr bool
	}{
		{expr: "number", want: "number"},
		{expr: " enum ", want: "enum"},
		{expr: "array:string", want: "array:string"},
		{expr: "array:array:reference", want: "array:array:reference"},
		{expr: "array", wantErr: true},
		{expr: "array:", wantErr: true},
		{expr: "string:number", wantErr: true},
		{expr: "date", wantErr: true},
		{expr: "unknown", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseValueKind(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValueKindEqual(t *testing.T) {
	assert.True(t, ArrayOf(ScalarKind(KindString)).Equal(ArrayOf(ScalarKind(KindString))))
	assert.False(t, ArrayOf(ScalarKind(KindString)).Equal(ArrayOf(ScalarKind(KindNumber))))
	assert.False(t, ScalarKind(KindArray).Equal(ArrayOf(ScalarKind(KindNumber))))
}

func TestFieldDescriptorElem(t *testing.T) {
	f := &FieldDescriptor{
		Name:      "tags",
		Kind:      ArrayOf(ScalarKind(KindReference)),
		Type:      reflect.TypeOf(&[]*struct{}{}),
		IndexType: IndexTypeHash,
	}

	elem := f.Elem()
	require.NotNil(t, elem)
	assert.Equal(t, KindReference, elem.Kind.Tag)
	assert.True(t, elem.IsReference)
	assert.Equal(t, reflect.TypeOf(&struct{}{}), elem.Type)
	assert.Empty(t, elem.IndexType)

	assert.Nil(t, (&FieldDescriptor{Kind: ScalarKind(KindString), Type: reflect.TypeOf("")}).Elem())
}

type indexed struct{}

func TestTypeDescriptorLookups(t *testing.T) {
	fields := []*FieldDescriptor{
		{Name: "email", Kind: ScalarKind(KindString), IndexType: IndexTypeHash, Unique: true},
		{Name: "_id", Kind: ScalarKind(KindObjectID), SuppliedAtConstruction: true},
	}
	d := NewTypeDescriptor(reflect.TypeOf(indexed{}), fields, nil, "")

	f, ok := d.Field("_id")
	require.True(t, ok)
	assert.Same(t, fields[1], f)

	id, ok := d.IDField()
	require.True(t, ok)
	assert.Equal(t, "_id", id.Name)

	assert.Equal(t, []*FieldDescriptor{fields[0]}, d.NonBuilderFields())
	assert.Equal(t, []IndexReference{{
		IndexName: "indexed_email_hash",
		Fields:    []string{"email"},
		IndexType: IndexTypeHash,
		IsUnique:  true,
	}}, d.Indexes())
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")
	construction := &ObjectConstructionError{Cause: cause}

	assert.ErrorIs(t, &BuilderMismatchError{}, ErrBuilderMismatch)
	assert.ErrorIs(t, &MissingParamTagError{}, ErrMissingParamTag)
	assert.ErrorIs(t, &PrimitiveParamError{}, ErrPrimitiveParam)
	assert.ErrorIs(t, &InvalidFieldTypeError{}, ErrInvalidFieldType)
	assert.ErrorIs(t, &UnregisteredTypeError{}, ErrUnregisteredType)
	assert.ErrorIs(t, construction, ErrObjectConstruction)
	assert.ErrorIs(t, construction, cause)

	bsonErr := &InvalidBsonTypeError{Field: "age", BsonType: bsontype.String}
	assert.ErrorIs(t, bsonErr, ErrInvalidBsonType)
	assert.Contains(t, bsonErr.Error(), `"age"`)
}
