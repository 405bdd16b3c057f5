package depot

import (
	"github.com/rs/zerolog"
)

func loadStoreIntoArrayLogger(s *ComponentStore, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Str("component_type", s.typ.name)
	dictLogger = dictLogger.Int("live", s.Len())
	dictLogger = dictLogger.Int("capacity", s.Cap())
	dictLogger = dictLogger.Int("columns", s.ColumnCount())
	return arrayLogger.Dict(dictLogger)
}

// LogStores logs every store of idx with its size and column count
func LogStores(logger *zerolog.Logger, idx *EntityIndex, level zerolog.Level) {
	arrayLogger := zerolog.Arr()
	for _, s := range idx.stores {
		arrayLogger = loadStoreIntoArrayLogger(s, arrayLogger)
	}
	logger.WithLevel(level).
		Str("index_id", idx.id.String()).
		Int("entities", idx.Len()).
		Int("total_stores", len(idx.stores)).
		Array("stores", arrayLogger).
		Send()
}

func logCompaction(logger *zerolog.Logger, stats compactionStats) {
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	arrayLogger := zerolog.Arr()
	for _, s := range stats.stores {
		dictLogger := zerolog.Dict().
			Str("component_type", s.typ.name).
			Int("live", s.live).
			Int("capacity", s.capacity).
			Bool("shrunk", s.shrunk)
		arrayLogger = arrayLogger.Dict(dictLogger)
		if s.pruned > 0 {
			logger.Trace().
				Str("component_type", s.typ.name).
				Int("pruned", s.pruned).
				Msg("decorations pruned")
		}
	}
	logger.Debug().
		Int("entities", stats.liveEntities).
		Int("moved", stats.movedEntities).
		Int("capacity", stats.entityCapacity).
		Bool("shrunk", stats.shrunk).
		Array("stores", arrayLogger).
		Msg("compacted")
}
