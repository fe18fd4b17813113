package schema

import (
	"fmt"
	"reflect"
	"runtime"

	"docmapper/src/models"
)

// Builder names the entry point used to construct a mapped type and the field each of its
// parameters binds to. Build one with Constructor or Factory.
type Builder struct {
	kind     models.BuilderKind
	fn       interface{}
	receiver interface{}
	method   string
	tags     []string
}

// Constructor declares fn as the builder. fn must return T or *T, optionally followed by an error.
// tags[i] is the document name of the field bound to the i-th parameter.
func Constructor(fn interface{}, tags ...string) Builder {
	return Builder{kind: models.BuilderConstructor, fn: fn, tags: tags}
}

// Factory declares the exported method named method on receiver as the builder.
func Factory(receiver interface{}, method string, tags ...string) Builder {
	return Builder{kind: models.BuilderFactory, receiver: receiver, method: method, tags: tags}
}

// Declarer is implemented by mapped types that carry their own builder, on either the value
// or the pointer receiver.
type Declarer interface {
	DocBuilder() Builder
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// declaredBuilder returns the builder owner declares through Declarer, if any.
func declaredBuilder(owner reflect.Type) (Builder, bool) {
	if d, ok := reflect.Zero(owner).Interface().(Declarer); ok {
		return d.DocBuilder(), true
	}
	if d, ok := reflect.New(owner).Interface().(Declarer); ok {
		return d.DocBuilder(), true
	}
	return Builder{}, false
}

// DeclaresBuilder reports whether t, or a pointer to it, implements Declarer.
func DeclaresBuilder(t reflect.Type) bool {
	owner := models.Indirect(t)
	if owner == nil || owner.Kind() != reflect.Struct {
		return false
	}
	declarer := reflect.TypeOf((*Declarer)(nil)).Elem()
	return owner.Implements(declarer) || reflect.PointerTo(owner).Implements(declarer)
}

// resolveContract picks the single construction contract of owner and validates its signature.
func resolveContract(owner reflect.Type, explicit []Builder) (*models.ConstructionContract, error) {
	candidates := make([]Builder, 0, len(explicit)+1)
	if b, ok := declaredBuilder(owner); ok {
		candidates = append(candidates, b)
	}
	candidates = append(candidates, explicit...)

	if len(candidates) != 1 {
		return nil, &models.BuilderMismatchError{
			Type:   owner,
			Reason: fmt.Sprintf("found %d construction contracts, need exactly one", len(candidates)),
		}
	}
	b := candidates[0]

	contract := &models.ConstructionContract{Kind: b.kind}
	switch b.kind {
	case models.BuilderConstructor:
		fn := reflect.ValueOf(b.fn)
		if fn.Kind() != reflect.Func || fn.IsNil() {
			return nil, &models.BuilderMismatchError{Type: owner, Reason: fmt.Sprintf("constructor %T is not a function", b.fn)}
		}
		contract.Func = fn
		contract.Name = runtime.FuncForPC(fn.Pointer()).Name()
	case models.BuilderFactory:
		if b.receiver == nil {
			return nil, &models.BuilderMismatchError{Type: owner, Reason: "factory has no receiver"}
		}
		recv := reflect.ValueOf(b.receiver)
		method := recv.MethodByName(b.method)
		if !method.IsValid() {
			return nil, &models.BuilderMismatchError{
				Type:   owner,
				Reason: fmt.Sprintf("receiver %T has no exported method %q", b.receiver, b.method),
			}
		}
		contract.Func = method
		contract.Receiver = recv
		contract.Name = fmt.Sprintf("%T.%s", b.receiver, b.method)
	default:
		return nil, &models.BuilderMismatchError{Type: owner, Reason: "empty builder"}
	}

	if err := checkResults(owner, contract); err != nil {
		return nil, err
	}
	params, err := extractParams(owner, contract.Func.Type(), b.tags)
	if err != nil {
		return nil, err
	}
	contract.Params = params

	return contract, nil
}

func checkResults(owner reflect.Type, contract *models.ConstructionContract) error {
	ft := contract.Func.Type()
	if ft.IsVariadic() {
		return &models.BuilderMismatchError{Type: owner, Reason: contract.Name + " is variadic"}
	}

	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return &models.BuilderMismatchError{Type: owner, Reason: contract.Name + " second result must be error"}
		}
		contract.ReturnsError = true
	default:
		return &models.BuilderMismatchError{Type: owner, Reason: fmt.Sprintf("%s returns %d values", contract.Name, ft.NumOut())}
	}

	switch ft.Out(0) {
	case owner:
	case reflect.PointerTo(owner):
		contract.ReturnsPointer = true
	default:
		return &models.BuilderMismatchError{
			Type:   owner,
			Reason: fmt.Sprintf("%s returns %v, want %v or *%v", contract.Name, ft.Out(0), owner, owner),
		}
	}
	return nil
}

// extractParams pairs every parameter with its tag. Non-nillable parameters are rejected first,
// whether tagged or not.
func extractParams(owner reflect.Type, ft reflect.Type, tags []string) ([]models.BuilderParam, error) {
	params := make([]models.BuilderParam, 0, ft.NumIn())
	seen := make(map[string]bool, ft.NumIn())

	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		tag := ""
		if i < len(tags) {
			tag = tags[i]
		}

		if !isNillable(pt) {
			return nil, &models.PrimitiveParamError{Type: owner, Param: tag, ParamType: pt}
		}
		if tag == "" {
			return nil, &models.MissingParamTagError{Type: owner, Position: i, Reason: "parameter is not tagged"}
		}
		if seen[tag] {
			return nil, &models.MissingParamTagError{Type: owner, Position: i, Reason: fmt.Sprintf("tag %q is bound twice", tag)}
		}
		seen[tag] = true

		params = append(params, models.BuilderParam{Tag: tag, Type: pt})
	}

	if len(tags) > ft.NumIn() {
		return nil, &models.MissingParamTagError{
			Type:     owner,
			Position: ft.NumIn(),
			Reason:   fmt.Sprintf("tag %q has no matching parameter", tags[ft.NumIn()]),
		}
	}
	return params, nil
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
