package depot

import (
	"slices"

	"github.com/rotisserie/eris"
)

// entityAllocator mints entity ids for a World. Released ids are reused last
// in, first out.
type entityAllocator struct {
	next  EntityID
	free  []EntityID
	alive map[EntityID]struct{}
}

func newEntityAllocator() *entityAllocator {
	return &entityAllocator{
		next:  1,
		alive: make(map[EntityID]struct{}),
	}
}

func (a *entityAllocator) mint() EntityID {
	var id EntityID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = a.next
		a.next++
	}
	a.alive[id] = struct{}{}
	return id
}

func (a *entityAllocator) release(id EntityID) error {
	if _, ok := a.alive[id]; !ok {
		return eris.Wrapf(ErrEntityNotFound, "entity %d is not alive", id)
	}
	delete(a.alive, id)
	a.free = append(a.free, id)
	return nil
}

func (a *entityAllocator) isAlive(id EntityID) bool {
	_, ok := a.alive[id]
	return ok
}

func (a *entityAllocator) sorted() []EntityID {
	ids := make([]EntityID, 0, len(a.alive))
	for id := range a.alive {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (a *entityAllocator) reset() {
	a.next = 1
	a.free = nil
	clear(a.alive)
}
