package bench

import (
	"testing"

	"github.com/TheBitDrifter/depot"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type components struct {
	position depot.AccessibleComponent[Position]
	velocity depot.AccessibleComponent[Velocity]
}

func setup(b *testing.B) (*depot.World, components) {
	b.Helper()
	world, err := depot.Factory.NewWorld(depot.WithColumnCapacity(1024))
	if err != nil {
		b.Fatal(err)
	}
	var c components
	if c.position, err = depot.FactoryNewComponent[Position](1, nil); err != nil {
		b.Fatal(err)
	}
	if c.velocity, err = depot.FactoryNewComponent[Velocity](2, nil); err != nil {
		b.Fatal(err)
	}
	if err := c.position.Register(world.Database()); err != nil {
		b.Fatal(err)
	}
	if err := c.velocity.Register(world.Database()); err != nil {
		b.Fatal(err)
	}

	if _, err := world.SpawnMany(nPos, depot.Values{
		c.position.ID: c.position.Bytes(Position{}),
	}); err != nil {
		b.Fatal(err)
	}
	if _, err := world.SpawnMany(nPosVel, depot.Values{
		c.position.ID: c.position.Bytes(Position{}),
		c.velocity.ID: c.velocity.Bytes(Velocity{X: 1, Y: 1}),
	}); err != nil {
		b.Fatal(err)
	}
	return world, c
}

func BenchmarkIterDepotGet(b *testing.B) {
	b.StopTimer()
	world, c := setup(b)
	cursor := world.Database().Query(c.velocity.ID, c.position.ID)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			pos, _ := c.position.GetFromCursor(cursor)
			vel, _ := c.velocity.GetFromCursor(cursor)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkIterDepotEntities(b *testing.B) {
	b.StopTimer()
	world, c := setup(b)
	query := depot.Factory.NewQuery()
	cursor := depot.Factory.NewCursor(query.And(c.velocity, c.position), world.Database())
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, row := range cursor.Entities() {
			pos, _ := c.position.GetFromRow(row)
			vel, _ := c.velocity.GetFromRow(row)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkMigrateDepot(b *testing.B) {
	b.StopTimer()
	world, c := setup(b)
	db := world.Database()
	entities := world.Entities()[:nPosVel]
	vel := c.velocity.Bytes(Velocity{X: 1, Y: 1})
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, e := range entities {
			if err := db.AddComponent(e, c.velocity.ID, vel); err != nil {
				b.Fatal(err)
			}
		}
		for _, e := range entities {
			if err := db.RemoveComponent(e, c.velocity.ID); err != nil {
				b.Fatal(err)
			}
		}
	}
}
