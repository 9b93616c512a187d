package depot_test

import (
	"reflect"
	"testing"

	"github.com/TheBitDrifter/depot"
	"gotest.tools/v3/assert"
)

// Rows only move through the Database, which keeps its entity index in step.
func TestTableRowMutatorsUnexported(t *testing.T) {
	typ := reflect.TypeOf(&depot.Table{})
	for _, name := range []string{"InsertRow", "RemoveRow", "DeleteRow"} {
		_, ok := typ.MethodByName(name)
		assert.Assert(t, !ok, "Table exports %s", name)
	}
}

func TestTableFromDatabaseStaysConsistent(t *testing.T) {
	db, err := depot.Factory.NewDatabase()
	assert.NilError(t, err)
	health, err := depot.FactoryNewComponent[Health](1, nil)
	assert.NilError(t, err)
	assert.NilError(t, health.Register(db))
	assert.NilError(t, db.SpawnEntity(1, depot.Values{health.ID: health.Bytes(Health{Value: 4})}))

	tbl, err := db.TableOf(1)
	assert.NilError(t, err)
	row, err := tbl.RowOf(1)
	assert.NilError(t, err)
	assert.NilError(t, row.Set(health.ID, health.Bytes(Health{Value: 8})))

	assert.Assert(t, db.Contains(1))
	hp, err := health.GetFromEntity(db, 1)
	assert.NilError(t, err)
	assert.Equal(t, hp.Value, int64(8))
}
