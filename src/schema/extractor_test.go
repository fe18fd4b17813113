package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"docmapper/src/models"
)

type point struct {
	X float64 `doc:"x,number"`
	Y float64 `doc:"y,number"`
}

func newPoint(x, y *float64) *point {
	p := &point{}
	if x != nil {
		p.X = *x
	}
	if y != nil {
		p.Y = *y
	}
	return p
}

func (point) DocBuilder() Builder { return Constructor(newPoint, "x", "y") }

type plain struct {
	X float64 `doc:"x,number"`
	Y float64 `doc:"y,number"`
	Z string  `doc:"-"`
	w int
}

type Base struct {
	ID   primitive.ObjectID `doc:"_id,objectid"`
	Name string             `doc:"name,string"`
}

type derived struct {
	Base
	Name string `doc:"name,string,index:hash,unique"`
	Age  *int   `doc:"age,number"`
}

// parameters deliberately out of field order
func newDerived(age *int, name *string) (*derived, error) {
	d := &derived{Age: age}
	if name != nil {
		d.Name = *name
	}
	return d, nil
}

type account struct {
	Owner   string  `doc:"owner,string"`
	Balance float64 `doc:"balance,number"`
}

type accountFactory struct {
	branch string
}

func (accountFactory) Open(owner *string, balance *float64) *account {
	return &account{Owner: *owner, Balance: *balance}
}

func (accountFactory) OpenPoint(x, y *float64) *point { return newPoint(x, y) }

func (accountFactory) Variadic(xs ...*float64) *account { return nil }

func TestExtractDeclaredConstructor(t *testing.T) {
	d, err := Extract(reflect.TypeOf(&point{}))
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeOf(point{}), d.OwnerType)
	require.Len(t, d.Fields, 2)
	assert.Equal(t, "x", d.Fields[0].Name)
	assert.Equal(t, "y", d.Fields[1].Name)
	assert.True(t, d.Fields[0].SuppliedAtConstruction)
	assert.True(t, d.Fields[1].SuppliedAtConstruction)

	require.NotNil(t, d.Contract)
	assert.Equal(t, models.BuilderConstructor, d.Contract.Kind)
	assert.Equal(t, []string{"x", "y"}, d.Contract.ParamTags())
	assert.True(t, d.Contract.ReturnsPointer)
	assert.False(t, d.Contract.ReturnsError)
	assert.NotEmpty(t, d.Fingerprint)
}

func TestExtractShadowsEmbeddedFields(t *testing.T) {
	d, err := Extract(reflect.TypeOf(derived{}), Constructor(newDerived, "age", "name"))
	require.NoError(t, err)

	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "age", "_id"}, names)

	name, ok := d.Field("name")
	require.True(t, ok)
	assert.Equal(t, []int{1}, name.Index, "outer declaration wins")
	assert.Equal(t, models.IndexTypeHash, name.IndexType)
	assert.True(t, name.Unique)
	assert.True(t, name.SuppliedAtConstruction)

	id, ok := d.Field("_id")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, id.Index)
	assert.False(t, id.SuppliedAtConstruction)

	assert.Equal(t, []string{"age", "name"}, d.Contract.ParamTags())
	assert.True(t, d.Contract.ReturnsError)
}

func TestExtractFactory(t *testing.T) {
	d, err := Extract(reflect.TypeOf(account{}), Factory(accountFactory{}, "Open", "owner", "balance"))
	require.NoError(t, err)

	assert.Equal(t, models.BuilderFactory, d.Contract.Kind)
	assert.True(t, d.Contract.Receiver.IsValid())
	assert.Equal(t, "schema.accountFactory.Open", d.Contract.Name)
}

func TestExtractBuilderMismatch(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		builders []Builder
	}{
		{name: "no builder", typ: reflect.TypeOf(plain{})},
		{name: "declared and explicit", typ: reflect.TypeOf(point{}), builders: []Builder{Constructor(newPoint, "x", "y")}},
		{name: "two explicit", typ: reflect.TypeOf(account{}), builders: []Builder{
			Factory(accountFactory{}, "Open", "owner", "balance"),
			Factory(accountFactory{}, "Open", "owner", "balance"),
		}},
		{name: "factory returns other type", typ: reflect.TypeOf(account{}), builders: []Builder{Factory(accountFactory{}, "OpenPoint", "x", "y")}},
		{name: "missing method", typ: reflect.TypeOf(account{}), builders: []Builder{Factory(accountFactory{}, "Close")}},
		{name: "nil receiver", typ: reflect.TypeOf(account{}), builders: []Builder{Factory(nil, "Open")}},
		{name: "not a function", typ: reflect.TypeOf(plain{}), builders: []Builder{Constructor(42)}},
		{name: "variadic", typ: reflect.TypeOf(account{}), builders: []Builder{Factory(accountFactory{}, "Variadic", "owner")}},
		{name: "second result not error", typ: reflect.TypeOf(plain{}), builders: []Builder{
			Constructor(func(x, y *float64) (*plain, bool) { return nil, false }, "x", "y"),
		}},
		{name: "param type differs from field", typ: reflect.TypeOf(plain{}), builders: []Builder{
			Constructor(func(x *string, y *float64) plain { return plain{} }, "x", "y"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.typ, tt.builders...)
			var mismatch *models.BuilderMismatchError
			assert.ErrorAs(t, err, &mismatch)
			assert.ErrorIs(t, err, models.ErrBuilderMismatch)
		})
	}
}

func TestExtractPrimitiveParamRegardlessOfTagging(t *testing.T) {
	withScalar := func(x float64, y *float64) *plain { return nil }

	_, err := Extract(reflect.TypeOf(plain{}), Constructor(withScalar, "x", "y"))
	assert.ErrorIs(t, err, models.ErrPrimitiveParam)

	_, err = Extract(reflect.TypeOf(plain{}), Constructor(withScalar))
	var perr *models.PrimitiveParamError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, reflect.TypeOf(float64(0)), perr.ParamType)

	_, err = Extract(reflect.TypeOf(plain{}), Constructor(func(ok bool) *plain { return nil }, "x"))
	assert.ErrorIs(t, err, models.ErrPrimitiveParam)
}

func TestExtractMissingParamTag(t *testing.T) {
	fn := func(x, y *float64) *plain { return nil }

	for name, tags := range map[string][]string{
		"untagged":       {"x"},
		"empty tag":      {"x", ""},
		"unknown":        {"x", "z"},
		"extra tag":      {"x", "y", "z"},
		"bound twice":    {"x", "x"},
		"no tags at all": nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(reflect.TypeOf(plain{}), Constructor(fn, tags...))
			assert.ErrorIs(t, err, models.ErrMissingParamTag)
		})
	}
}

func TestExtractInvalidDeclarations(t *testing.T) {
	_, err := Extract(reflect.TypeOf(42))
	assert.ErrorIs(t, err, models.ErrNotAStruct)

	type badKind struct {
		X float64 `doc:"x,decimal"`
	}
	_, err = Extract(reflect.TypeOf(badKind{}), Constructor(func() *badKind { return nil }))
	assert.ErrorIs(t, err, models.ErrInvalidFieldType)

	type unexported struct {
		x float64 `doc:"x,number"`
	}
	_, err = Extract(reflect.TypeOf(unexported{}), Constructor(func() *unexported { return nil }))
	var ferr *models.InvalidFieldTypeError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "x", ferr.Field)
}

func TestExtractSkipsUntaggedFields(t *testing.T) {
	d, err := Extract(reflect.TypeOf(plain{}), Constructor(func(x, y *float64) *plain { return nil }, "x", "y"))
	require.NoError(t, err)
	assert.Len(t, d.Fields, 2)
	_, ok := d.Field("Z")
	assert.False(t, ok)
}

func TestFingerprintDependsOnBuilder(t *testing.T) {
	a, err := Extract(reflect.TypeOf(derived{}), Constructor(newDerived, "age", "name"))
	require.NoError(t, err)
	b, err := Extract(reflect.TypeOf(derived{}), Constructor(newDerived, "age", "name"))
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)

	swapped := func(name *string, age *int) *derived { return &derived{} }
	c, err := Extract(reflect.TypeOf(derived{}), Constructor(swapped, "name", "age"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint)
}

func TestFingerprintDependsOnFactoryReceiver(t *testing.T) {
	extract := func(f interface{}) string {
		d, err := Extract(reflect.TypeOf(account{}), Factory(f, "Open", "owner", "balance"))
		require.NoError(t, err)
		return d.Fingerprint
	}

	assert.Equal(t, extract(accountFactory{branch: "north"}), extract(accountFactory{branch: "north"}))
	assert.NotEqual(t, extract(accountFactory{branch: "north"}), extract(accountFactory{branch: "south"}))

	shared := &accountFactory{branch: "north"}
	assert.Equal(t, extract(shared), extract(shared))
	assert.NotEqual(t, extract(shared), extract(&accountFactory{branch: "north"}))
}

func TestParseFieldTagOptions(t *testing.T) {
	ft, err := parseFieldTag(",string,unique", "Email")
	require.NoError(t, err)
	assert.Equal(t, "Email", ft.name)
	assert.Equal(t, models.IndexTypeBTree, ft.indexType)
	assert.True(t, ft.unique)

	_, err = parseFieldTag("email,string,index:bitmap", "Email")
	assert.Error(t, err)
	_, err = parseFieldTag("email", "Email")
	assert.Error(t, err)
}
