package depot

import (
	"iter"
	"slices"
	"sync/atomic"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var _ ComponentIndexer = &Database{}

// Database owns every table and the indexes over them, and moves entities
// between tables as their component sets change.
//
// A Database is not safe for concurrent mutation. Read-only cursors may run
// concurrently with each other; structural mutations (spawn, despawn, add and
// remove component) need exclusive access. While any cursor or explicit Lock
// holds the database, structural mutations fail with ErrLocked and the
// Enqueue variants defer them until the last Unlock.
type Database struct {
	tables      map[TableID]*Table
	order       []TableID
	nextTableID TableID
	indexes     indexes
	components  *componentRegistry

	locks   atomic.Int32
	opQueue opQueue

	cfg    Config
	logger zerolog.Logger
}

func newDatabase(opts ...Option) (*Database, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Database{
		tables:      make(map[TableID]*Table),
		nextTableID: 1,
		indexes:     newIndexes(),
		components:  newComponentRegistry(),
		opQueue:     newOpQueue(),
		cfg:         o.cfg,
		logger:      o.logger,
	}, nil
}

func (db *Database) Config() Config {
	return db.cfg
}

// RegisterComponent records the layout used for every column of id.
func (db *Database) RegisterComponent(id ComponentID, layout ComponentLayout) error {
	bit, err := db.components.register(id, layout)
	if err != nil {
		return err
	}
	logComponentRegistered(&db.logger, id, bit, layout)
	return nil
}

func (db *Database) Layout(id ComponentID) (ComponentLayout, bool) {
	return db.components.layout(id)
}

// BitFor returns the mask bit assigned to id at registration.
func (db *Database) BitFor(id ComponentID) (uint32, bool) {
	return db.components.bitFor(id)
}

// GetOrCreateTable returns the table for sig, creating it on first use.
// Set-equal signatures always yield the same table.
func (db *Database) GetOrCreateTable(sig Signature) (*Table, error) {
	m, err := db.components.maskFor(sig)
	if err != nil {
		return nil, err
	}
	if id, found := db.indexes.tableWith(m); found {
		return db.tables[id], nil
	}
	return db.createTable(sig, m)
}

func (db *Database) createTable(sig Signature, m mask.Mask) (*Table, error) {
	layouts := make([]ComponentLayout, 0, sig.Len())
	for id := range sig.All() {
		layout, ok := db.components.layout(id)
		if !ok {
			return nil, eris.Wrapf(ErrComponentNotRegistered, "component %d", id)
		}
		layouts = append(layouts, layout)
	}
	created, err := newTable(db.nextTableID, sig, m, layouts, db.cfg.ColumnCapacity)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create table")
	}
	db.tables[created.id] = created
	db.order = append(db.order, created.id)
	db.indexes.register(m, created.id)
	db.nextTableID++

	logTable(&db.logger, zerolog.DebugLevel, created, "table created")
	return created, nil
}

// SpawnEntity stores entity with the given component values. The values'
// key set selects the table.
func (db *Database) SpawnEntity(entity EntityID, values Values) error {
	if db.Locked() {
		return eris.Wrapf(ErrLocked, "spawn entity %d", entity)
	}
	if id, found := db.indexes.tableFor(entity); found {
		return eris.Wrapf(ErrDuplicateEntity, "entity %d already in table %d", entity, id)
	}
	if err := db.checkValues(values); err != nil {
		return err
	}
	tbl, err := db.GetOrCreateTable(SignatureOf(values))
	if err != nil {
		return err
	}
	if _, err := tbl.insertRow(entity, values); err != nil {
		db.reclaimIfEmpty(tbl)
		return err
	}
	db.indexes.place(entity, tbl.id)
	logEntity(&db.logger, entity, tbl, "entity spawned")
	return nil
}

// AddComponent moves entity to the table for its current signature plus id,
// carrying every existing value over and storing value for id.
func (db *Database) AddComponent(entity EntityID, id ComponentID, value []byte) error {
	if db.Locked() {
		return eris.Wrapf(ErrLocked, "add component %d to entity %d", id, entity)
	}
	src, err := db.TableOf(entity)
	if err != nil {
		return err
	}
	if src.Contains(id) {
		return eris.Wrapf(ErrDuplicateComponent, "component %d on entity %d", id, entity)
	}
	if err := db.checkValue(id, value); err != nil {
		return err
	}

	comps := iter_util.Collect(src.Components())
	dst, err := db.GetOrCreateTable(NewSignature(append(comps, id)...))
	if err != nil {
		return eris.Wrap(err, "failed to get/create table")
	}

	values, err := src.removeRow(entity)
	if err != nil {
		return err
	}
	values[id] = value
	if _, err := dst.insertRow(entity, values); err != nil {
		delete(values, id)
		return db.restore(entity, src, values, err)
	}
	db.indexes.place(entity, dst.id)

	logMigration(&db.logger, entity, src.id, dst.id, id, true)
	db.reclaimIfEmpty(src)
	return nil
}

// RemoveComponent moves entity to the table for its current signature minus
// id. The removed value is dropped once the entity sits in its new table.
func (db *Database) RemoveComponent(entity EntityID, id ComponentID) error {
	if db.Locked() {
		return eris.Wrapf(ErrLocked, "remove component %d from entity %d", id, entity)
	}
	src, err := db.TableOf(entity)
	if err != nil {
		return err
	}
	col, ok := src.Column(id)
	if !ok {
		return eris.Wrapf(ErrComponentNotFound, "component %d on entity %d", id, entity)
	}
	drop := col.Layout().Drop

	comps := iter_util.Collect(src.Components())
	comps = slices.DeleteFunc(comps, func(c ComponentID) bool { return c == id })
	dst, err := db.GetOrCreateTable(NewSignature(comps...))
	if err != nil {
		return eris.Wrap(err, "failed to get/create table")
	}

	values, err := src.removeRow(entity)
	if err != nil {
		return err
	}
	removed := values[id]
	delete(values, id)
	if _, err := dst.insertRow(entity, values); err != nil {
		values[id] = removed
		return db.restore(entity, src, values, err)
	}
	db.indexes.place(entity, dst.id)
	if drop != nil {
		drop(removed)
	}

	logMigration(&db.logger, entity, src.id, dst.id, id, false)
	db.reclaimIfEmpty(src)
	return nil
}

// checkValues validates values against the registered layouts so a failing
// spawn never creates a table.
func (db *Database) checkValues(values Values) error {
	for id, raw := range values {
		if err := db.checkValue(id, raw); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) checkValue(id ComponentID, raw []byte) error {
	layout, ok := db.components.layout(id)
	if !ok {
		return eris.Wrapf(ErrComponentNotRegistered, "component %d", id)
	}
	if uintptr(len(raw)) != layout.Size {
		return eris.Wrapf(ErrTypeLayoutMismatch, "component %d: got %d bytes, want %d", id, len(raw), layout.Size)
	}
	return nil
}

// restore puts a row taken from src back after a failed insert elsewhere.
func (db *Database) restore(entity EntityID, src *Table, values Values, cause error) error {
	if _, err := src.insertRow(entity, values); err != nil {
		return eris.Wrapf(err, "failed to restore entity %d after: %v", entity, cause)
	}
	return eris.Wrapf(cause, "entity %d left in table %d", entity, src.id)
}

// DespawnEntity removes entity from storage, dropping all of its values.
func (db *Database) DespawnEntity(entity EntityID) error {
	if db.Locked() {
		return eris.Wrapf(ErrLocked, "despawn entity %d", entity)
	}
	tbl, err := db.TableOf(entity)
	if err != nil {
		return err
	}
	if err := tbl.deleteRow(entity); err != nil {
		return err
	}
	db.indexes.forget(entity)
	logEntity(&db.logger, entity, tbl, "entity despawned")
	db.reclaimIfEmpty(tbl)
	return nil
}

func (db *Database) GetComponent(entity EntityID, id ComponentID) ([]byte, error) {
	tbl, err := db.TableOf(entity)
	if err != nil {
		return nil, err
	}
	return tbl.GetComponent(entity, id)
}

func (db *Database) SetComponent(entity EntityID, id ComponentID, raw []byte) error {
	tbl, err := db.TableOf(entity)
	if err != nil {
		return err
	}
	return tbl.SetComponent(entity, id, raw)
}

func (db *Database) HasComponent(entity EntityID, id ComponentID) bool {
	tbl, err := db.TableOf(entity)
	return err == nil && tbl.Contains(id)
}

// Contains reports whether entity is stored.
func (db *Database) Contains(entity EntityID) bool {
	_, found := db.indexes.tableFor(entity)
	return found
}

// TableOf returns the table currently holding entity.
func (db *Database) TableOf(entity EntityID) (*Table, error) {
	id, found := db.indexes.tableFor(entity)
	if !found {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", entity)
	}
	return db.tables[id], nil
}

func (db *Database) Table(id TableID) (*Table, bool) {
	tbl, ok := db.tables[id]
	return tbl, ok
}

// Tables yields every live table in creation order.
func (db *Database) Tables() iter.Seq[*Table] {
	return func(yield func(*Table) bool) {
		for _, id := range db.order {
			if !yield(db.tables[id]) {
				return
			}
		}
	}
}

func (db *Database) TableCount() int {
	return len(db.tables)
}

func (db *Database) EntityCount() int {
	return len(db.indexes.tableByEntity)
}

// Query returns a cursor over every row of every table whose signature
// contains all of required.
func (db *Database) Query(required ...ComponentID) *Cursor {
	return newCursor(newLeafNode(required), db)
}

// Locked reports whether structural mutations are currently deferred.
func (db *Database) Locked() bool {
	return db.locks.Load() > 0
}

// Lock defers structural mutations until the matching Unlock. Locks nest.
func (db *Database) Lock() {
	db.locks.Add(1)
}

// Unlock releases one lock. Releasing the last one applies every queued
// operation and returns the first failure. Unlocking an unlocked database
// returns ErrNotLocked and applies nothing.
func (db *Database) Unlock() error {
	n := db.locks.Add(-1)
	if n > 0 {
		return nil
	}
	if n < 0 {
		db.locks.Store(0)
		return ErrNotLocked
	}
	return db.processOperationQueue()
}

// Close drops every stored and queued value and empties the database.
func (db *Database) Close() {
	db.opQueue.discard(db, db.opQueue.drain())
	for _, tbl := range db.tables {
		tbl.release()
	}
	clear(db.tables)
	db.order = nil
	db.indexes.reset()
}

func (db *Database) reclaimIfEmpty(tbl *Table) {
	if !db.cfg.ReclaimEmptyTables || tbl.Len() > 0 || tbl.signature.Len() == 0 {
		return
	}
	if _, live := db.tables[tbl.id]; !live {
		return
	}
	tbl.release()
	delete(db.tables, tbl.id)
	db.indexes.unregister(tbl.mask)
	db.order = slices.DeleteFunc(db.order, func(id TableID) bool { return id == tbl.id })
	logTable(&db.logger, zerolog.DebugLevel, tbl, "table reclaimed")
}
