package depot

import (
	"github.com/rotisserie/eris"
)

type operation struct {
	typ       operationType
	entity    EntityID
	component ComponentID
	values    Values
	value     []byte
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent
)

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
	}
}

func (q *opQueue) empty() bool {
	return len(q.createOps) == 0 &&
		len(q.componentOps) == 0 &&
		len(q.destroyOps) == 0
}

// drain returns every queued operation in application order and empties the
// queue.
func (q *opQueue) drain() []operation {
	ops := make([]operation, 0, len(q.createOps)+len(q.componentOps)+len(q.destroyOps))
	ops = append(ops, q.createOps...)
	ops = append(ops, q.componentOps...)
	ops = append(ops, q.destroyOps...)

	q.createOps = q.createOps[:0]
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	return ops
}

// discard drops the values carried by ops that will never be applied.
func (q *opQueue) discard(db *Database, ops []operation) {
	for _, op := range ops {
		switch op.typ {
		case opCreate:
			for id, raw := range op.values {
				dropValue(db, id, raw)
			}
		case opAddComponent:
			dropValue(db, op.component, op.value)
		}
	}
}

// copyValue copies raw with the alignment registered for id, so drop hooks
// can view queued values as their component type.
func (db *Database) copyValue(id ComponentID, raw []byte) []byte {
	align := uintptr(1)
	if layout, ok := db.components.layout(id); ok {
		align = layout.Align
	}
	return cloneAligned(raw, align)
}

func dropValue(db *Database, id ComponentID, raw []byte) {
	layout, ok := db.components.layout(id)
	if !ok || layout.Drop == nil || uintptr(len(raw)) != layout.Size {
		return
	}
	layout.Drop(raw)
}

func (db *Database) processOperationQueue() error {
	if db.opQueue.empty() {
		return nil
	}
	spawns, comps, despawns := len(db.opQueue.createOps), len(db.opQueue.componentOps), len(db.opQueue.destroyOps)
	destroyed := make(map[EntityID]struct{}, len(db.opQueue.pendingDestroy))
	for entity := range db.opQueue.pendingDestroy {
		destroyed[entity] = struct{}{}
	}
	ops := db.opQueue.drain()

	for i, op := range ops {
		var err error
		switch op.typ {
		case opCreate:
			if err = db.SpawnEntity(op.entity, op.values); err != nil {
				err = eris.Wrap(err, "failed to process queued entity creation")
			}
		case opAddComponent:
			if _, skip := destroyed[op.entity]; skip {
				dropValue(db, op.component, op.value)
				continue
			}
			if err = db.AddComponent(op.entity, op.component, op.value); err != nil {
				err = eris.Wrap(err, "failed to add queued component")
			}
		case opRemoveComponent:
			if _, skip := destroyed[op.entity]; skip {
				continue
			}
			if err = db.RemoveComponent(op.entity, op.component); err != nil {
				err = eris.Wrap(err, "failed to remove queued component")
			}
		case opDestroy:
			if err = db.DespawnEntity(op.entity); err != nil {
				err = eris.Wrap(err, "failed to process queued entity destruction")
			}
		}
		if err != nil {
			db.opQueue.discard(db, ops[i:])
			logQueueFlush(&db.logger, spawns, comps, despawns, err)
			return err
		}
	}
	logQueueFlush(&db.logger, spawns, comps, despawns, nil)
	return nil
}

// EnqueueSpawnEntity spawns immediately when unlocked, otherwise after the
// last Unlock. Values are copied.
func (db *Database) EnqueueSpawnEntity(entity EntityID, values Values) error {
	if !db.Locked() {
		return db.SpawnEntity(entity, values)
	}
	copied := make(Values, len(values))
	for id, raw := range values {
		copied[id] = db.copyValue(id, raw)
	}
	db.opQueue.createOps = append(db.opQueue.createOps, operation{
		typ:    opCreate,
		entity: entity,
		values: copied,
	})
	return nil
}

func (db *Database) EnqueueAddComponent(entity EntityID, id ComponentID, value []byte) error {
	if !db.Locked() {
		return db.AddComponent(entity, id, value)
	}
	copied := db.copyValue(id, value)
	if !db.opQueue.enqueueComponentOp(opAddComponent, entity, id, copied) {
		dropValue(db, id, copied)
	}
	return nil
}

func (db *Database) EnqueueRemoveComponent(entity EntityID, id ComponentID) error {
	if !db.Locked() {
		return db.RemoveComponent(entity, id)
	}
	db.opQueue.enqueueComponentOp(opRemoveComponent, entity, id, nil)
	return nil
}

func (db *Database) EnqueueDespawnEntity(entity EntityID) error {
	if !db.Locked() {
		return db.DespawnEntity(entity)
	}
	db.opQueue.enqueueDestroy(entity)
	return nil
}

func (q *opQueue) enqueueDestroy(entity EntityID) {
	if _, exists := q.pendingDestroy[entity]; exists {
		return
	}
	q.pendingDestroy[entity] = struct{}{}
	q.destroyOps = append(q.destroyOps, operation{
		typ:    opDestroy,
		entity: entity,
	})
}

// enqueueComponentOp reports false when entity is already pending
// destruction, in which case the operation is ignored.
func (q *opQueue) enqueueComponentOp(typ operationType, entity EntityID, id ComponentID, value []byte) bool {
	if _, isDestroyed := q.pendingDestroy[entity]; isDestroyed {
		return false
	}
	q.componentOps = append(q.componentOps, operation{
		typ:       typ,
		entity:    entity,
		component: id,
		value:     value,
	})
	return true
}
