package depot

import (
	"testing"

	"gotest.tools/v3/assert"
)

// spawnN spawns count entities with zeroed values for components, numbering
// them from next.
func spawnN(t *testing.T, db *Database, next *EntityID, count int, components ...ComponentID) {
	t.Helper()
	for i := 0; i < count; i++ {
		values := Values{}
		for _, id := range components {
			layout, ok := db.Layout(id)
			assert.Assert(t, ok)
			values[id] = make([]byte, layout.Size)
		}
		*next++
		assert.NilError(t, db.SpawnEntity(*next, values))
	}
}

func TestQueryFiltering(t *testing.T) {
	type entitySetup struct {
		components []ComponentID
		count      int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		build           func(q Query) QueryNode
		expectedMatches int
	}{
		{
			name: "And query matches exact",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID, velocityID}, 5},
				{[]ComponentID{positionID}, 10},
				{[]ComponentID{velocityID}, 15},
			},
			build:           func(q Query) QueryNode { return q.And(positionID, velocityID) },
			expectedMatches: 5,
		},
		{
			name: "Or query matches either",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID, velocityID}, 5},
				{[]ComponentID{positionID}, 10},
				{[]ComponentID{velocityID}, 15},
			},
			build:           func(q Query) QueryNode { return q.Or(positionID, velocityID) },
			expectedMatches: 30,
		},
		{
			name: "Not query excludes",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID, velocityID}, 5},
				{[]ComponentID{positionID}, 10},
				{[]ComponentID{velocityID}, 15},
				{[]ComponentID{healthID}, 20},
			},
			build:           func(q Query) QueryNode { return q.Not(velocityID) },
			expectedMatches: 30,
		},
		{
			name: "Complex query",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID, velocityID, healthID}, 5},
				{[]ComponentID{positionID, velocityID}, 10},
				{[]ComponentID{positionID, healthID}, 15},
				{[]ComponentID{velocityID, healthID}, 20},
				{[]ComponentID{positionID}, 25},
				{[]ComponentID{velocityID}, 30},
				{[]ComponentID{healthID}, 35},
			},
			build: func(q Query) QueryNode {
				return q.Or(q.And(positionID, velocityID), q.And(positionID, healthID))
			},
			expectedMatches: 30, // (P AND V) OR (P AND H) = 5 + 10 + 15
		},
		{
			name: "Unregistered component in And matches nothing",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID}, 5},
			},
			build:           func(q Query) QueryNode { return q.And(positionID, ComponentID(4242)) },
			expectedMatches: 0,
		},
		{
			name: "Unregistered component in Not is ignored",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID}, 5},
				{[]ComponentID{velocityID}, 3},
			},
			build:           func(q Query) QueryNode { return q.Not(ComponentID(4242), velocityID) },
			expectedMatches: 5,
		},
		{
			name: "Signature item",
			entitySetups: []entitySetup{
				{[]ComponentID{positionID, healthID}, 4},
				{[]ComponentID{positionID}, 6},
			},
			build:           func(q Query) QueryNode { return q.And(NewSignature(healthID, positionID)) },
			expectedMatches: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newTestDatabase(t)
			var next EntityID
			for _, setup := range tt.entitySetups {
				spawnN(t, db, &next, setup.count, setup.components...)
			}

			cursor := Factory.NewCursor(tt.build(Factory.NewQuery()), db)
			assert.Equal(t, cursor.TotalMatched(), tt.expectedMatches)

			matchCount := 0
			for cursor.Next() {
				matchCount++
			}
			assert.Equal(t, matchCount, tt.expectedMatches)
			assert.Assert(t, !db.Locked())
		})
	}
}

func TestQueryWithCursor(t *testing.T) {
	db, c := newTestDatabase(t)
	var next EntityID
	spawnN(t, db, &next, 3, positionID)
	spawnN(t, db, &next, 4, positionID, velocityID)

	t.Run("Next walks every row once", func(t *testing.T) {
		cursor := db.Query(c.position.ID)
		seen := map[EntityID]int{}
		for cursor.Next() {
			assert.Assert(t, db.Locked())
			seen[cursor.Entity()]++
		}
		assert.Equal(t, len(seen), 7)
		for entity, n := range seen {
			assert.Equal(t, n, 1, "entity %d", entity)
		}
		assert.Assert(t, !db.Locked())
	})

	t.Run("Cursor restarts after exhaustion", func(t *testing.T) {
		cursor := db.Query(velocityID)
		for i := 0; i < 2; i++ {
			count := 0
			for cursor.Next() {
				count++
			}
			assert.Equal(t, count, 4)
		}
	})

	t.Run("Entities releases the lock on break", func(t *testing.T) {
		cursor := db.Query(positionID)
		for range cursor.Entities() {
			break
		}
		assert.Assert(t, !db.Locked())
		assert.NilError(t, cursor.Err())
	})

	t.Run("Reset releases the lock", func(t *testing.T) {
		cursor := db.Query(positionID)
		assert.Assert(t, cursor.Next())
		assert.Assert(t, db.Locked())
		cursor.Reset()
		assert.Assert(t, !db.Locked())
		cursor.Reset()
		assert.Assert(t, !db.Locked())
	})

	t.Run("Mutations during iteration are deferred", func(t *testing.T) {
		cursor := db.Query(positionID, velocityID)
		for entity, row := range cursor.Entities() {
			assert.Equal(t, row.Entity(), entity)
			assert.ErrorIs(t, db.DespawnEntity(entity), ErrLocked)
			assert.NilError(t, db.EnqueueRemoveComponent(entity, velocityID))
		}
		assert.NilError(t, cursor.Err())
		assert.Equal(t, db.Query(velocityID).TotalMatched(), 0)
		assert.Equal(t, db.Query(positionID).TotalMatched(), 7)
	})
}

func TestQueryComponentAccess(t *testing.T) {
	db, c := newTestDatabase(t)
	for e := EntityID(1); e <= 5; e++ {
		assert.NilError(t, db.SpawnEntity(e, Values{
			positionID: c.position.Bytes(Position{X: float64(e), Y: 0}),
			velocityID: c.velocity.Bytes(Velocity{X: 1, Y: 0.5}),
		}))
	}
	assert.NilError(t, db.SpawnEntity(6, Values{positionID: c.position.Bytes(Position{X: 6})}))

	query := Factory.NewQuery()
	cursor := Factory.NewCursor(query.And(c.position, c.velocity), db)
	for cursor.Next() {
		assert.Assert(t, c.velocity.CheckCursor(cursor))
		assert.Equal(t, cursor.RemainingInTable(), cursor.TotalMatched()-cursor.Row().Index()-1)
		pos, err := c.position.GetFromCursor(cursor)
		assert.NilError(t, err)
		vel, err := c.velocity.GetFromCursor(cursor)
		assert.NilError(t, err)
		pos.X += vel.X
		pos.Y += vel.Y
	}

	for e := EntityID(1); e <= 5; e++ {
		pos, err := c.position.GetFromEntity(db, e)
		assert.NilError(t, err)
		assert.Assert(t, almostEqual(pos.X, float64(e)+1, 1e-9))
		assert.Assert(t, almostEqual(pos.Y, 0.5, 1e-9))
	}
	pos, err := c.position.GetFromEntity(db, 6)
	assert.NilError(t, err)
	assert.Equal(t, pos.X, 6.0)

	cursor = db.Query(positionID)
	for cursor.Next() {
		if cursor.Entity() == 6 {
			assert.Assert(t, !c.velocity.CheckCursor(cursor))
			_, err := c.velocity.GetFromCursor(cursor)
			assert.ErrorIs(t, err, ErrComponentNotFound)
		}
	}
}

func almostEqual(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}
