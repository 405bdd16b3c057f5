package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EntityIndex owns the entity slots of one simulation, one ComponentStore per component
// type in use, and the ownership graph connecting them. It is not safe for concurrent use.
type EntityIndex struct {
	id       uuid.UUID
	logger   zerolog.Logger
	registry *Registry

	entities     []*Entity
	masks        []mask.Mask
	insertCursor uint32
	idSeq        uint32
	live         int

	stores      []*ComponentStore
	storesByRow []*ComponentStore
	ownership   *OwnershipGraph

	locks   int
	opQueue opQueue
}

func newEntityIndex(registry *Registry) *EntityIndex {
	capacity := max(Config.initialEntityCapacity, 1)
	id := uuid.New()
	idx := &EntityIndex{
		id:           id,
		logger:       Config.logger.With().Str("index_id", id.String()).Logger(),
		registry:     registry,
		entities:     make([]*Entity, capacity),
		masks:        make([]mask.Mask, capacity),
		insertCursor: 1,
		opQueue:      newOpQueue(),
	}
	idx.ownership = newOwnershipGraph(idx)
	return idx
}

func (idx *EntityIndex) ID() uuid.UUID {
	return idx.id
}

func (idx *EntityIndex) Registry() *Registry {
	return idx.registry
}

func (idx *EntityIndex) Ownership() *OwnershipGraph {
	return idx.ownership
}

// Len returns the number of live entities
func (idx *EntityIndex) Len() int {
	return idx.live
}

// Cap returns the size of the entity arrays, sentinel included
func (idx *EntityIndex) Cap() int {
	return len(idx.entities)
}

// Entity returns the entity at slot, nil for the sentinel or a free slot
func (idx *EntityIndex) Entity(slot uint32) *Entity {
	if int(slot) >= len(idx.entities) {
		return nil
	}
	return idx.entities[slot]
}

// AddEntity allocates a new entity with no components
func (idx *EntityIndex) AddEntity() *Entity {
	slot := idx.insertCursor
	if int(slot) >= len(idx.entities) {
		capacity := grownCapacity(int(slot) + 1)
		idx.resize(capacity)
		for _, s := range idx.stores {
			s.expandEntityCapacity(capacity)
		}
	}
	idx.insertCursor++
	idx.idSeq++
	e := &Entity{index: idx, slot: slot, id: idx.idSeq}
	idx.entities[slot] = e
	idx.live++
	return e
}

// AddEntityFrom allocates a new entity carrying a copy of every component of template.
// The template may belong to another index.
func (idx *EntityIndex) AddEntityFrom(template *Entity) *Entity {
	if template == nil || !template.IsAlive() {
		fatal(ErrTemplateNotLive, "entity template %v", template)
	}
	var components []*Component
	for c := range template.Components() {
		components = append(components, c)
	}
	e := idx.AddEntity()
	for _, c := range components {
		// required types may already have been cloned by an earlier component
		if e.Has(c.Type()) {
			continue
		}
		idx.Store(c.Type()).AddComponentFrom(e.slot, c)
	}
	return e
}

// RemoveEntity removes everything e owns, then its components, then frees its slot
func (idx *EntityIndex) RemoveEntity(e *Entity) {
	if e == nil || e.index != idx {
		fatal(ErrForeignHandle, "%v is not from index %s", e, idx.id)
	}
	if !e.IsAlive() {
		fatal(ErrEntityRemoved, "%v", e)
	}
	idx.ownership.disownAndRemoveChildren(ownerRef{entity: e})
	if !e.IsAlive() {
		return
	}
	slot := e.slot
	for _, s := range idx.stores {
		s.RemoveComponent(slot)
	}
	if idx.entities[slot] != e {
		return
	}
	var empty mask.Mask
	idx.entities[slot] = nil
	idx.masks[slot] = empty
	e.slot = 0
	idx.live--
}

// Iterate yields live entities in slot order
func (idx *EntityIndex) Iterate() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for i := uint32(1); i < idx.insertCursor; i++ {
			e := idx.entities[i]
			if e == nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Store returns the store for ct, creating it on first use
func (idx *EntityIndex) Store(ct *ComponentType) *ComponentStore {
	if ct == nil {
		fatal(ErrArgument, "nil component type")
	}
	row := idx.registry.row(ct)
	if int(row) < len(idx.storesByRow) && idx.storesByRow[row] != nil {
		return idx.storesByRow[row]
	}
	s := newComponentStore(idx, ct, row, len(idx.entities))
	if int(row) >= len(idx.storesByRow) {
		idx.storesByRow = resized(idx.storesByRow, int(row)+1)
	}
	idx.storesByRow[row] = s
	idx.stores = append(idx.stores, s)
	idx.logger.Debug().
		Str("component_type", ct.name).
		Int("row", int(row)).
		Msg("component store created")
	return s
}

// Stores returns the stores created so far in creation order
func (idx *EntityIndex) Stores() []*ComponentStore {
	out := make([]*ComponentStore, len(idx.stores))
	copy(out, idx.stores)
	return out
}

func (idx *EntityIndex) storeIfExists(ct *ComponentType) *ComponentStore {
	row, ok := idx.registry.rows[ct]
	if !ok || int(row) >= len(idx.storesByRow) {
		return nil
	}
	return idx.storesByRow[row]
}

func (idx *EntityIndex) slotAlive(slot uint32) bool {
	return slot != 0 && int(slot) < len(idx.entities) && idx.entities[slot] != nil
}

func (idx *EntityIndex) resize(capacity int) {
	idx.entities = resized(idx.entities, capacity)
	idx.masks = resized(idx.masks, capacity)
}

// Locked reports whether deferred operations are being queued
func (idx *EntityIndex) Locked() bool {
	return idx.locks > 0
}

// Lock starts deferring Enqueue* operations and compaction. Locks nest.
func (idx *EntityIndex) Lock() {
	idx.locks++
}

// Unlock releases one lock; the last one applies everything queued meanwhile
func (idx *EntityIndex) Unlock() {
	if idx.locks == 0 {
		return
	}
	idx.locks--
	if idx.locks == 0 {
		idx.processOperationQueue()
	}
}
