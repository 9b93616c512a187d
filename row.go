package depot

import "github.com/rotisserie/eris"

// Row addresses one row of a table. It is only meaningful until the table's
// next structural change.
type Row struct {
	table *Table
	index int
}

func (r Row) Table() *Table {
	return r.table
}

func (r Row) Index() int {
	return r.index
}

func (r Row) Entity() EntityID {
	if r.table == nil || r.index >= r.table.Len() {
		return 0
	}
	return r.table.rowToEntity[r.index]
}

// Get returns the component bytes in this row. The slice aliases storage.
func (r Row) Get(id ComponentID) ([]byte, error) {
	col, err := r.column(id)
	if err != nil {
		return nil, err
	}
	return col.Get(r.index)
}

func (r Row) Set(id ComponentID, raw []byte) error {
	col, err := r.column(id)
	if err != nil {
		return err
	}
	return col.Set(r.index, raw)
}

func (r Row) column(id ComponentID) (*Column, error) {
	if r.table == nil {
		return nil, eris.Wrap(ErrIndexOutOfRange, "row has no table")
	}
	col, ok := r.table.Column(id)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "component %d in table %d", id, r.table.id)
	}
	return col, nil
}
