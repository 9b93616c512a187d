/*
Package depot provides columnar archetype storage for an Entity-Component-System (ECS) runtime.

Entities that carry exactly the same set of component types live together in one table, with
one densely packed column per component. Adding or removing a component migrates the entity
to the table for its new set, carrying every value over. Component values are opaque bytes
described by a ComponentLayout, so storage never needs to know the Go types involved.

Core Concepts:

  - Entity: An id with no data of its own.
  - Component: A registered layout (size, alignment, optional drop) under a ComponentID.
  - Table: All entities sharing one signature, stored column by column.
  - Database: The tables plus the indexes mapping entities and signatures to them.
  - World: A Database that also mints entity and component ids.

Basic Usage:

	world, _ := depot.Factory.NewWorld()

	position, _ := depot.FactoryNewComponent[Position](1, nil)
	velocity, _ := depot.FactoryNewComponent[Velocity](2, nil)
	position.Register(world.Database())
	velocity.Register(world.Database())

	entity, _ := world.Spawn(depot.Values{
		position.ID: position.Bytes(Position{X: 1, Y: 2}),
		velocity.ID: velocity.Bytes(Velocity{X: 0, Y: 1}),
	})

	cursor := world.Database().Query(position.ID, velocity.ID)
	for cursor.Next() {
		pos, _ := position.GetFromCursor(cursor)
		vel, _ := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

While a cursor iterates, the database is locked. Spawning, despawning or migrating then fails
with ErrLocked; use the Enqueue variants to defer those changes until iteration ends.
*/
package depot
