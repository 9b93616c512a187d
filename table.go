package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
)

var _ Archetype = &Table{}

// Table stores every entity whose component set equals its signature. Row i
// of every column belongs to rowToEntity[i].
//
//	         | entity | comp 86 | comp 123 | comp 685 |
//	row 0    | 76     | A-0     | B-0      | D-0      |
//	row 1    | 89     | A-1     | B-1      | D-1      |
//	row 2    | 102    | A-2     | B-2      | D-2      |
type Table struct {
	id          TableID
	signature   Signature
	mask        mask.Mask
	columns     []*Column // parallel to signature.ids
	entityToRow map[EntityID]int
	rowToEntity []EntityID
}

func newTable(id TableID, sig Signature, m mask.Mask, layouts []ComponentLayout, capacity int) (*Table, error) {
	if len(layouts) != sig.Len() {
		return nil, eris.Wrapf(ErrSignatureMismatch, "%d layouts for signature %s", len(layouts), sig)
	}
	columns := make([]*Column, len(layouts))
	for i, layout := range layouts {
		col, err := NewColumn(layout, capacity)
		if err != nil {
			return nil, eris.Wrapf(err, "component %d", sig.ids[i])
		}
		columns[i] = col
	}
	return &Table{
		id:          id,
		signature:   sig,
		mask:        m,
		columns:     columns,
		entityToRow: make(map[EntityID]int),
	}, nil
}

func (t *Table) ID() TableID {
	return t.id
}

func (t *Table) Signature() Signature {
	return t.signature
}

// Mask returns the table's component bits. It implements mask.Maskable.
func (t *Table) Mask() mask.Mask {
	return t.mask
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rowToEntity)
}

func (t *Table) Contains(id ComponentID) bool {
	return t.signature.Contains(id)
}

// Has reports whether entity has a row in this table.
func (t *Table) Has(entity EntityID) bool {
	_, ok := t.entityToRow[entity]
	return ok
}

func (t *Table) Components() iter.Seq[ComponentID] {
	return t.signature.All()
}

// Entities yields (row, entity) in current row order.
func (t *Table) Entities() iter.Seq2[int, EntityID] {
	return func(yield func(int, EntityID) bool) {
		for row, entity := range t.rowToEntity {
			if !yield(row, entity) {
				return
			}
		}
	}
}

// Column returns the column backing id.
func (t *Table) Column(id ComponentID) (*Column, bool) {
	i := t.signature.Index(id)
	if i < 0 {
		return nil, false
	}
	return t.columns[i], true
}

func (t *Table) Row(index int) (Row, error) {
	if index < 0 || index >= t.Len() {
		return Row{}, eris.Wrapf(ErrIndexOutOfRange, "row %d in table %d of length %d", index, t.id, t.Len())
	}
	return Row{table: t, index: index}, nil
}

func (t *Table) RowOf(entity EntityID) (Row, error) {
	row, ok := t.entityToRow[entity]
	if !ok {
		return Row{}, eris.Wrapf(ErrEntityNotFound, "entity %d in table %d", entity, t.id)
	}
	return Row{table: t, index: row}, nil
}

// Row mutators below are called only by Database, which keeps the entity
// index in step with them.

// insertRow appends one row for entity. values must hold exactly one value,
// of the registered size, per signature member. Nothing is written unless
// every check passes.
func (t *Table) insertRow(entity EntityID, values Values) (int, error) {
	if len(values) != t.signature.Len() {
		return -1, eris.Wrapf(ErrSignatureMismatch, "table %d wants %s, got %s", t.id, t.signature, SignatureOf(values))
	}
	for id := range values {
		if !t.signature.Contains(id) {
			return -1, eris.Wrapf(ErrSignatureMismatch, "table %d wants %s, got %s", t.id, t.signature, SignatureOf(values))
		}
	}
	if _, ok := t.entityToRow[entity]; ok {
		return -1, eris.Wrapf(ErrDuplicateEntity, "entity %d in table %d", entity, t.id)
	}
	for i, id := range t.signature.ids {
		if size := t.columns[i].Layout().Size; uintptr(len(values[id])) != size {
			return -1, eris.Wrapf(ErrTypeLayoutMismatch, "component %d: got %d bytes, want %d", id, len(values[id]), size)
		}
	}

	row := len(t.rowToEntity)
	for i, id := range t.signature.ids {
		if _, err := t.columns[i].Push(values[id]); err != nil {
			return -1, err
		}
	}
	t.entityToRow[entity] = row
	t.rowToEntity = append(t.rowToEntity, entity)
	return row, nil
}

// removeRow removes entity's row and returns its values. The caller owns the
// returned values: nothing is dropped.
func (t *Table) removeRow(entity EntityID) (Values, error) {
	row, ok := t.entityToRow[entity]
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d in table %d", entity, t.id)
	}
	values := make(Values, len(t.columns))
	for i, col := range t.columns {
		value, _, err := col.Take(row)
		if err != nil {
			return nil, err
		}
		values[t.signature.ids[i]] = value
	}
	t.unlink(entity, row)
	return values, nil
}

// deleteRow removes entity's row, dropping every value.
func (t *Table) deleteRow(entity EntityID) error {
	row, ok := t.entityToRow[entity]
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "entity %d in table %d", entity, t.id)
	}
	for _, col := range t.columns {
		if _, err := col.SwapRemove(row); err != nil {
			return err
		}
	}
	t.unlink(entity, row)
	return nil
}

func (t *Table) GetComponent(entity EntityID, id ComponentID) ([]byte, error) {
	row, col, err := t.locate(entity, id)
	if err != nil {
		return nil, err
	}
	return col.Get(row)
}

func (t *Table) SetComponent(entity EntityID, id ComponentID, raw []byte) error {
	row, col, err := t.locate(entity, id)
	if err != nil {
		return err
	}
	return col.Set(row, raw)
}

func (t *Table) locate(entity EntityID, id ComponentID) (int, *Column, error) {
	row, ok := t.entityToRow[entity]
	if !ok {
		return -1, nil, eris.Wrapf(ErrEntityNotFound, "entity %d in table %d", entity, t.id)
	}
	col, ok := t.Column(id)
	if !ok {
		return -1, nil, eris.Wrapf(ErrComponentNotFound, "component %d on entity %d", id, entity)
	}
	return row, col, nil
}

// unlink mirrors the columns' swap-remove in the row index: the last row's
// entity now lives at row.
func (t *Table) unlink(entity EntityID, row int) {
	last := len(t.rowToEntity) - 1
	if row != last {
		moved := t.rowToEntity[last]
		t.rowToEntity[row] = moved
		t.entityToRow[moved] = row
	}
	t.rowToEntity = t.rowToEntity[:last]
	delete(t.entityToRow, entity)
}

func (t *Table) release() {
	for _, col := range t.columns {
		col.Release()
	}
	t.rowToEntity = nil
	clear(t.entityToRow)
}
