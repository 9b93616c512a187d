package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// EntityID identifies an entity. It carries no data of its own.
type EntityID uint64

// ComponentID identifies a component type. Its layout is registered with the
// database before any value of the type is stored.
type ComponentID uint64

// TableID identifies a table (archetype) within one database.
type TableID uint32

// Values maps component ids to the raw bytes of one entity's components.
type Values map[ComponentID][]byte

// Archetype is the read-only view of a table that queries evaluate against.
type Archetype interface {
	mask.Maskable
	ID() TableID
	Signature() Signature
	Len() int
}

// ComponentIndexer resolves a component id to its mask bit.
type ComponentIndexer interface {
	BitFor(ComponentID) (uint32, bool)
}

// Component names a component id. AccessibleComponent implements it so typed
// components can be passed straight to query builders.
type Component interface {
	Component() ComponentID
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype, indexer ComponentIndexer) bool
}

type iCursor interface {
	Entities() iter.Seq2[EntityID, Row]
	Next() bool
}

type Cache[K comparable, T any] interface {
	GetIndex(K) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(K, T) (int, error)
	Len() int
}

// DropFunc releases whatever resources a component value owns. It receives
// the element's bytes just before the storage slot is reused or freed.
type DropFunc func(raw []byte)
