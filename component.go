package depot

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// ComponentLayout describes how values of one component type are laid out in
// a column. Size may be zero for tag components.
type ComponentLayout struct {
	Size  uintptr
	Align uintptr
	Drop  DropFunc
}

func (l ComponentLayout) validate() error {
	if l.Align == 0 || l.Align&(l.Align-1) != 0 {
		return eris.Wrapf(ErrInvalidLayout, "alignment %d is not a power of two", l.Align)
	}
	if l.Size%l.Align != 0 {
		return eris.Wrapf(ErrInvalidLayout, "size %d is not a multiple of alignment %d", l.Size, l.Align)
	}
	return nil
}

// LayoutOf derives the layout of T. Column bytes are not scanned by the
// garbage collector, so T must not contain pointers, slices, maps, strings,
// channels, funcs or interfaces.
func LayoutOf[T any]() (ComponentLayout, error) {
	typ := reflect.TypeFor[T]()
	if hasPointers(typ) {
		return ComponentLayout{}, eris.Wrapf(ErrInvalidLayout, "%s contains pointers", typ)
	}
	var zero T
	return ComponentLayout{
		Size:  unsafe.Sizeof(zero),
		Align: unsafe.Alignof(zero),
	}, nil
}

func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Pointer, reflect.UnsafePointer, reflect.Slice, reflect.Map,
		reflect.String, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	}
	return false
}
