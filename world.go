package depot

import (
	"math"
	"sync"

	"github.com/rotisserie/eris"
)

// WorldID identifies a World within the process.
type WorldID uint64

var worldIDs struct {
	sync.Mutex
	last WorldID
}

func nextWorldID() (WorldID, error) {
	worldIDs.Lock()
	defer worldIDs.Unlock()
	if worldIDs.last == math.MaxUint64 {
		return 0, ErrWorldIDOverflow
	}
	worldIDs.last++
	return worldIDs.last, nil
}

// World owns a Database and mints the entity and component ids stored in it.
type World struct {
	id         WorldID
	db         *Database
	entities   *entityAllocator
	components []ComponentID
	nextComp   ComponentID
}

func newWorld(opts ...Option) (*World, error) {
	id, err := nextWorldID()
	if err != nil {
		return nil, err
	}
	db, err := newDatabase(opts...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create world database")
	}
	db.logger = db.logger.With().Uint64("world_id", uint64(id)).Logger()
	return &World{
		id:       id,
		db:       db,
		entities: newEntityAllocator(),
		nextComp: 1,
	}, nil
}

func (w *World) ID() WorldID {
	return w.id
}

func (w *World) Database() *Database {
	return w.db
}

// RegisterComponent assigns the next component id to layout.
func (w *World) RegisterComponent(layout ComponentLayout) (ComponentID, error) {
	id := w.nextComp
	if err := w.db.RegisterComponent(id, layout); err != nil {
		return 0, err
	}
	w.nextComp++
	w.components = append(w.components, id)
	return id, nil
}

func (w *World) Components() []ComponentID {
	return append([]ComponentID(nil), w.components...)
}

// Spawn stores a new entity with values and returns its id.
func (w *World) Spawn(values Values) (EntityID, error) {
	entity := w.entities.mint()
	if err := w.db.SpawnEntity(entity, values); err != nil {
		_ = w.entities.release(entity)
		return 0, err
	}
	return entity, nil
}

// SpawnMany stores n entities sharing a copy of values. On failure the
// entities spawned so far are despawned again.
func (w *World) SpawnMany(n int, values Values) ([]EntityID, error) {
	entities := make([]EntityID, 0, n)
	for i := 0; i < n; i++ {
		copied := make(Values, len(values))
		for id, raw := range values {
			copied[id] = append([]byte(nil), raw...)
		}
		entity, err := w.Spawn(copied)
		if err != nil {
			for _, spawned := range entities {
				_ = w.Despawn(spawned)
			}
			return nil, eris.Wrapf(err, "failed to spawn entity %d of %d", i+1, n)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Despawn removes entity from storage. Its id becomes available again.
func (w *World) Despawn(entity EntityID) error {
	if !w.entities.isAlive(entity) {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", entity)
	}
	if err := w.db.DespawnEntity(entity); err != nil {
		return err
	}
	return w.entities.release(entity)
}

// DespawnMany despawns each entity in turn and stops at the first failure.
func (w *World) DespawnMany(entities ...EntityID) error {
	for _, entity := range entities {
		if err := w.Despawn(entity); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) Alive(entity EntityID) bool {
	return w.entities.isAlive(entity)
}

// Entities returns the alive entities in ascending order.
func (w *World) Entities() []EntityID {
	return w.entities.sorted()
}

// Close drops every stored value. The world is empty but usable afterwards.
func (w *World) Close() {
	w.db.Close()
	w.entities.reset()
}
