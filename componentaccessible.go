package depot

import (
	"unsafe"

	"github.com/rotisserie/eris"
)

// AccessibleComponent pairs a component id with a Go type so raw column bytes
// can be read and written as T.
//
// Pointers returned by the Get methods alias column storage. They stay valid
// until the next structural change to the table (spawn, despawn, migration)
// and must not be retained across one.
type AccessibleComponent[T any] struct {
	ID     ComponentID
	Layout ComponentLayout
}

func (c AccessibleComponent[T]) Component() ComponentID {
	return c.ID
}

// Register registers the component's layout with db.
func (c AccessibleComponent[T]) Register(db *Database) error {
	return db.RegisterComponent(c.ID, c.Layout)
}

// Bytes returns a copy of v's memory.
func (c AccessibleComponent[T]) Bytes(v T) []byte {
	raw := make([]byte, c.Layout.Size)
	if len(raw) > 0 {
		copy(raw, unsafe.Slice((*byte)(unsafe.Pointer(&v)), len(raw)))
	}
	return raw
}

// Value decodes raw into a T.
func (c AccessibleComponent[T]) Value(raw []byte) (T, error) {
	var v T
	if uintptr(len(raw)) != c.Layout.Size {
		return v, eris.Wrapf(ErrTypeLayoutMismatch, "got %d bytes, want %d", len(raw), c.Layout.Size)
	}
	if len(raw) > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), len(raw)), raw)
	}
	return v, nil
}

// GetFromRow retrieves the component value for the row
func (c AccessibleComponent[T]) GetFromRow(row Row) (*T, error) {
	raw, err := row.Get(c.ID)
	if err != nil {
		return nil, err
	}
	return c.pointer(raw)
}

// GetFromCursor retrieves the component value for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) (*T, error) {
	return c.GetFromRow(cursor.Row())
}

// CheckCursor determines if the component exists in the table at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	tbl := cursor.Row().Table()
	return tbl != nil && tbl.Contains(c.ID)
}

// GetFromEntity retrieves the component value for the specified entity
func (c AccessibleComponent[T]) GetFromEntity(db *Database, entity EntityID) (*T, error) {
	raw, err := db.GetComponent(entity, c.ID)
	if err != nil {
		return nil, err
	}
	return c.pointer(raw)
}

// SetOnEntity overwrites the entity's value, dropping the old one.
func (c AccessibleComponent[T]) SetOnEntity(db *Database, entity EntityID, v T) error {
	return db.SetComponent(entity, c.ID, c.Bytes(v))
}

// AddToEntity migrates the entity to a table that includes this component.
func (c AccessibleComponent[T]) AddToEntity(db *Database, entity EntityID, v T) error {
	return db.AddComponent(entity, c.ID, c.Bytes(v))
}

func (c AccessibleComponent[T]) pointer(raw []byte) (*T, error) {
	if uintptr(len(raw)) != c.Layout.Size {
		return nil, eris.Wrapf(ErrTypeLayoutMismatch, "got %d bytes, want %d", len(raw), c.Layout.Size)
	}
	if len(raw) == 0 {
		return new(T), nil
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(raw))), nil
}
