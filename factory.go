package depot

type factory struct{}

var Factory factory

func (f factory) NewDatabase(opts ...Option) (*Database, error) {
	return newDatabase(opts...)
}

func (f factory) NewWorld(opts ...Option) (*World, error) {
	return newWorld(opts...)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, db *Database) *Cursor {
	return newCursor(query, db)
}

// FactoryNewComponent binds T to id. drop, when non-nil, runs on every value
// of T that leaves storage.
func FactoryNewComponent[T any](id ComponentID, drop func(*T)) (AccessibleComponent[T], error) {
	layout, err := LayoutOf[T]()
	if err != nil {
		return AccessibleComponent[T]{}, err
	}
	c := AccessibleComponent[T]{ID: id, Layout: layout}
	if drop != nil {
		layout.Drop = func(raw []byte) {
			v, err := c.pointer(raw)
			if err == nil {
				drop(v)
			}
		}
		c.Layout = layout
	}
	return c, nil
}

func FactoryNewCache[K comparable, T any](cap int) Cache[K, T] {
	return &SimpleCache[K, T]{
		itemIndices: make(map[K]int),
		maxCapacity: cap,
	}
}
