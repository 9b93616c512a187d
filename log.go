package depot

import "github.com/rs/zerolog"

func loadSignatureIntoArray(sig Signature) *zerolog.Array {
	arrayLogger := zerolog.Arr()
	for id := range sig.All() {
		arrayLogger = arrayLogger.Uint64(uint64(id))
	}
	return arrayLogger
}

func logComponentRegistered(logger *zerolog.Logger, id ComponentID, bit uint32, layout ComponentLayout) {
	logger.Debug().
		Uint64("component_id", uint64(id)).
		Uint32("bit", bit).
		Uint64("size", uint64(layout.Size)).
		Uint64("align", uint64(layout.Align)).
		Bool("drop", layout.Drop != nil).
		Msg("component registered")
}

func logTable(logger *zerolog.Logger, level zerolog.Level, t *Table, msg string) {
	logger.WithLevel(level).
		Uint32("table_id", uint32(t.id)).
		Array("components", loadSignatureIntoArray(t.signature)).
		Int("rows", t.Len()).
		Msg(msg)
}

func logMigration(logger *zerolog.Logger, entity EntityID, from, to TableID, component ComponentID, added bool) {
	event := logger.Debug().
		Uint64("entity_id", uint64(entity)).
		Uint32("from_table", uint32(from)).
		Uint32("to_table", uint32(to)).
		Uint64("component_id", uint64(component))
	if added {
		event.Msg("component added")
		return
	}
	event.Msg("component removed")
}

func logEntity(logger *zerolog.Logger, entity EntityID, t *Table, msg string) {
	logger.Debug().
		Uint64("entity_id", uint64(entity)).
		Uint32("table_id", uint32(t.id)).
		Array("components", loadSignatureIntoArray(t.signature)).
		Msg(msg)
}

func logQueueFlush(logger *zerolog.Logger, spawns, components, despawns int, err error) {
	event := logger.Debug()
	if err != nil {
		event = logger.Error().Err(err)
	}
	event.
		Int("spawns", spawns).
		Int("component_ops", components).
		Int("despawns", despawns).
		Msg("operation queue flushed")
}
