package depot_test

import (
	"errors"
	"fmt"

	"github.com/TheBitDrifter/depot"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Health is a simple component for hit points
type Health struct {
	Value int64
}

// Example shows basic depot usage with entity creation and queries
func Example_basic() {
	world, _ := depot.Factory.NewWorld()
	db := world.Database()

	position, _ := depot.FactoryNewComponent[Position](1, nil)
	velocity, _ := depot.FactoryNewComponent[Velocity](2, nil)
	position.Register(db)
	velocity.Register(db)

	for i := 0; i < 5; i++ {
		world.Spawn(depot.Values{position.ID: position.Bytes(Position{})})
	}
	for i := 0; i < 3; i++ {
		world.Spawn(depot.Values{
			position.ID: position.Bytes(Position{X: float64(i)}),
			velocity.ID: velocity.Bytes(Velocity{X: 1, Y: 2}),
		})
	}

	cursor := db.Query(position.ID, velocity.ID)
	matchCount := 0
	for cursor.Next() {
		pos, _ := position.GetFromCursor(cursor)
		vel, _ := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
		matchCount++
	}
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	pos, _ := position.GetFromEntity(db, 8)
	fmt.Printf("Entity 8 moved to (%.1f, %.1f)\n", pos.X, pos.Y)

	// Output:
	// Found 3 entities with position and velocity
	// Entity 8 moved to (3.0, 2.0)
}

// Example_migration shows entities moving between tables as components are
// added and removed
func Example_migration() {
	db, _ := depot.Factory.NewDatabase()

	position, _ := depot.FactoryNewComponent[Position](86, nil)
	velocity, _ := depot.FactoryNewComponent[Velocity](123, nil)
	health, _ := depot.FactoryNewComponent[Health](685, nil)
	position.Register(db)
	velocity.Register(db)
	health.Register(db)

	db.SpawnEntity(76, depot.Values{
		position.ID: position.Bytes(Position{X: 1, Y: 2}),
		velocity.ID: velocity.Bytes(Velocity{X: 0, Y: 1}),
	})

	health.AddToEntity(db, 76, Health{Value: 100})
	tbl, _ := db.TableOf(76)
	fmt.Println("after add:", tbl.Signature())

	db.RemoveComponent(76, velocity.ID)
	tbl, _ = db.TableOf(76)
	fmt.Println("after remove:", tbl.Signature())

	pos, _ := position.GetFromEntity(db, 76)
	hp, _ := health.GetFromEntity(db, 76)
	fmt.Printf("position (%.0f, %.0f), health %d\n", pos.X, pos.Y, hp.Value)

	_, err := velocity.GetFromEntity(db, 76)
	fmt.Println("velocity missing:", errors.Is(err, depot.ErrComponentNotFound))

	// Output:
	// after add: {86,123,685}
	// after remove: {86,685}
	// position (1, 2), health 100
	// velocity missing: true
}

// Example_queries demonstrates composite queries and deferred mutations
func Example_queries() {
	db, _ := depot.Factory.NewDatabase()

	position, _ := depot.FactoryNewComponent[Position](1, nil)
	velocity, _ := depot.FactoryNewComponent[Velocity](2, nil)
	health, _ := depot.FactoryNewComponent[Health](3, nil)
	position.Register(db)
	velocity.Register(db)
	health.Register(db)

	entity := depot.EntityID(0)
	spawn := func(n int, values depot.Values) {
		for i := 0; i < n; i++ {
			entity++
			db.SpawnEntity(entity, values)
		}
	}
	spawn(2, depot.Values{position.ID: position.Bytes(Position{}), velocity.ID: velocity.Bytes(Velocity{})})
	spawn(3, depot.Values{position.ID: position.Bytes(Position{}), health.ID: health.Bytes(Health{Value: 0})})
	spawn(4, depot.Values{velocity.ID: velocity.Bytes(Velocity{})})

	query := depot.Factory.NewQuery()
	node := query.And(position, query.Not(velocity))
	cursor := depot.Factory.NewCursor(node, db)
	fmt.Println("position without velocity:", cursor.TotalMatched())

	// Despawn every entity with zero health once iteration ends.
	for e, row := range cursor.Entities() {
		hp, _ := health.GetFromRow(row)
		if hp.Value <= 0 {
			db.EnqueueDespawnEntity(e)
		}
	}
	fmt.Println("remaining entities:", db.EntityCount())

	// Output:
	// position without velocity: 3
	// remaining entities: 6
}
