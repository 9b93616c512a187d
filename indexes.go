package depot

import "github.com/TheBitDrifter/mask"

// indexes are lookup caches over the database's tables. They hold table ids
// only; Database.tables is the single owner of every table.
type indexes struct {
	tableByEntity    map[EntityID]TableID
	tableBySignature map[mask.Mask]TableID
}

func newIndexes() indexes {
	return indexes{
		tableByEntity:    make(map[EntityID]TableID),
		tableBySignature: make(map[mask.Mask]TableID),
	}
}

func (ix *indexes) tableFor(entity EntityID) (TableID, bool) {
	id, ok := ix.tableByEntity[entity]
	return id, ok
}

func (ix *indexes) place(entity EntityID, table TableID) {
	ix.tableByEntity[entity] = table
}

func (ix *indexes) forget(entity EntityID) {
	delete(ix.tableByEntity, entity)
}

func (ix *indexes) tableWith(m mask.Mask) (TableID, bool) {
	id, ok := ix.tableBySignature[m]
	return id, ok
}

func (ix *indexes) register(m mask.Mask, table TableID) {
	ix.tableBySignature[m] = table
}

func (ix *indexes) unregister(m mask.Mask) {
	delete(ix.tableBySignature, m)
}

func (ix *indexes) reset() {
	clear(ix.tableByEntity)
	clear(ix.tableBySignature)
}
