package depot

import (
	"math"

	"github.com/TheBitDrifter/mask"
)

type compactionStats struct {
	liveEntities   int
	movedEntities  int
	entityCapacity int
	shrunk         bool
	stores         []storeStats
}

type storeStats struct {
	typ      *ComponentType
	live     int
	capacity int
	pruned   int
	shrunk   bool
}

// Compact removes the gaps left by removals, re-sorts every store into entity order and
// shrinks sparse storage. Component indices obtained before compaction are invalid
// afterwards; canonical handles are updated in place. While the index is locked the
// compaction is deferred to the final Unlock.
func (idx *EntityIndex) Compact() {
	if idx.Locked() {
		idx.opQueue.enqueueCompact()
		return
	}
	stats := idx.compact()
	logCompaction(&idx.logger, stats)
}

func (idx *EntityIndex) compact() compactionStats {
	oldToNew := make([]uint32, len(idx.entities))
	stats := compactionStats{}

	w := uint32(1)
	for r := uint32(1); r < idx.insertCursor; r++ {
		e := idx.entities[r]
		if e == nil {
			continue
		}
		if w != r {
			idx.entities[w] = e
			idx.masks[w] = idx.masks[r]
			e.slot = w
			stats.movedEntities++
		}
		oldToNew[r] = w
		w++
	}
	var empty mask.Mask
	for i := w; i < idx.insertCursor; i++ {
		idx.entities[i] = nil
		idx.masks[i] = empty
	}
	idx.insertCursor = w

	if capacity, ok := shrunkCapacity(idx.live, len(idx.entities)); ok {
		idx.resize(capacity)
		stats.shrunk = true
	}
	stats.liveEntities = idx.live
	stats.entityCapacity = len(idx.entities)

	for _, s := range idx.stores {
		stats.stores = append(stats.stores, s.compact(oldToNew, len(idx.entities)))
	}
	return stats
}

// compact re-sorts the store by new entity index, packs live components to the front and
// rebuilds the entity mapping for an entity array of numEntities slots.
func (s *ComponentStore) compact(oldToNew []uint32, numEntities int) storeStats {
	stats := storeStats{typ: s.typ, pruned: s.pruneDecorations()}
	cols := append(append([]Column(nil), s.declared...), s.decorations()...)

	key := func(i uint32) uint32 {
		e := s.componentToEntity[i]
		if e == 0 {
			return math.MaxUint32
		}
		return oldToNew[e]
	}

	// Components are usually close to entity order already, which keeps insertion sort
	// near linear.
	end := s.insertCursor
	for i := uint32(2); i < end; i++ {
		for j := i; j > 1 && key(j-1) > key(j); j-- {
			s.swap(j-1, j, cols)
		}
	}

	n := uint32(0)
	for i := uint32(1); i < end; i++ {
		c := s.components[i]
		if c == nil {
			break
		}
		c.index = i
		s.componentToEntity[i] = oldToNew[s.componentToEntity[i]]
		n = i
	}
	s.insertCursor = n + 1

	if capacity, ok := shrunkCapacity(int(n), len(s.components)); ok {
		s.resize(capacity)
		stats.shrunk = true
	}

	if numEntities < len(s.entityToComponent) {
		s.entityToComponent = make([]uint32, numEntities)
	} else {
		clear(s.entityToComponent)
		s.expandEntityCapacity(numEntities)
	}
	for i := uint32(1); i <= n; i++ {
		s.entityToComponent[s.componentToEntity[i]] = i
	}

	stats.live = s.live
	stats.capacity = len(s.components)
	return stats
}

func (s *ComponentStore) swap(i, j uint32, cols []Column) {
	s.components[i], s.components[j] = s.components[j], s.components[i]
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
	s.versions[i], s.versions[j] = s.versions[j], s.versions[i]
	s.componentToEntity[i], s.componentToEntity[j] = s.componentToEntity[j], s.componentToEntity[i]
	for _, col := range cols {
		col.Swap(i, j)
	}
}
