package schema

import (
	"encoding/hex"
	"fmt"
	"io"
	"reflect"

	"golang.org/x/crypto/blake2b"

	"docmapper/src/models"
)

// Fingerprint hashes the shape of a descriptor: owner, field layout, builder parameters and,
// for factories, the receiver the method is bound to. Two extractions of the same type with
// the same builder produce the same fingerprint.
func Fingerprint(owner reflect.Type, fields []*models.FieldDescriptor, contract *models.ConstructionContract) string {
	h, _ := blake2b.New256(nil)

	fmt.Fprintf(h, "%s.%s\n", owner.PkgPath(), owner.Name())
	for _, f := range fields {
		fmt.Fprintf(h, "f|%s|%s|%s|%v|%v|%t|%s|%t\n",
			f.Name, f.Kind, f.GoName, f.Type, f.Index, f.SuppliedAtConstruction, f.IndexType, f.Unique)
	}
	if contract != nil {
		fmt.Fprintf(h, "b|%s|%s\n", contract.Kind, contract.Name)
		writeReceiver(h, contract.Receiver)
		for _, p := range contract.Params {
			io.WriteString(h, "p|"+p.Tag+"|"+p.Type.String()+"\n")
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeReceiver hashes a factory receiver by value, or by address when it is a pointer.
func writeReceiver(w io.Writer, recv reflect.Value) {
	if !recv.IsValid() {
		return
	}
	switch recv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		fmt.Fprintf(w, "r|%v|%x\n", recv.Type(), recv.Pointer())
	default:
		fmt.Fprintf(w, "r|%#v\n", recv.Interface())
	}
}
