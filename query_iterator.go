package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

// QueryIterator walks the entities holding every required component type and positions a
// flyweight handle per registered type on each match.
//
// A full scan is driven by the required store with the fewest live components at the time
// the types are added. A restricted scan walks a caller-supplied entity sequence instead.
// Iterators are not reentrant and their handles are invalidated by compaction.
type QueryIterator struct {
	index *EntityIndex

	primary  *Component
	required []*Component
	optional []*Component

	requiredMask mask.Mask
	excludedMask mask.Mask
	hasExcluded  bool
	filter       QueryNode

	cursor  uint32
	current *Entity

	restricted bool
	source     iter.Seq[*Entity]
	candidates []*Entity
	collected  bool
	position   int
}

func newQueryIterator(idx *EntityIndex) *QueryIterator {
	return &QueryIterator{index: idx}
}

func newRestrictedQueryIterator(idx *EntityIndex, entities iter.Seq[*Entity]) *QueryIterator {
	return &QueryIterator{index: idx, restricted: true, source: entities}
}

// AddRequired registers a type every match must hold and returns its handle
func (q *QueryIterator) AddRequired(ct *ComponentType) *Component {
	s := q.index.Store(ct)
	h := newFlyweight(s)
	q.requiredMask.Mark(s.row)
	switch {
	case q.restricted:
		q.required = append(q.required, h)
	case q.primary == nil:
		q.primary = h
	case s.Len() < q.primary.store.Len():
		q.required = append(q.required, q.primary)
		q.primary = h
	default:
		q.required = append(q.required, h)
	}
	return h
}

// AddOptional registers a type whose handle is positioned when present and left at index
// 0 otherwise
func (q *QueryIterator) AddOptional(ct *ComponentType) *Component {
	h := newFlyweight(q.index.Store(ct))
	q.optional = append(q.optional, h)
	return h
}

// AddExcluded rejects entities holding ct
func (q *QueryIterator) AddExcluded(ct *ComponentType) *QueryIterator {
	q.excludedMask.Mark(q.index.Store(ct).row)
	q.hasExcluded = true
	return q
}

// Where adds a type-set filter evaluated against each candidate's mask
func (q *QueryIterator) Where(node QueryNode) *QueryIterator {
	q.filter = node
	return q
}

// Next advances to the next match and reports whether there was one
func (q *QueryIterator) Next() bool {
	if q.restricted {
		return q.nextRestricted()
	}
	if q.primary == nil {
		return q.nextEntity()
	}
	ps := q.primary.store
	for q.cursor+1 < ps.insertCursor {
		q.cursor++
		ei := ps.componentToEntity[q.cursor]
		if ei == 0 {
			continue
		}
		if q.accept(ei) {
			q.primary.SetIndex(q.cursor)
			return true
		}
	}
	q.current = nil
	return false
}

// nextEntity walks entity slots directly when no type is required
func (q *QueryIterator) nextEntity() bool {
	for q.cursor+1 < q.index.insertCursor {
		q.cursor++
		if q.index.entities[q.cursor] == nil {
			continue
		}
		if q.accept(q.cursor) {
			return true
		}
	}
	q.current = nil
	return false
}

func (q *QueryIterator) nextRestricted() bool {
	if !q.collected {
		q.candidates = iter_util.Collect(q.source)
		q.collected = true
	}
	for q.position < len(q.candidates) {
		e := q.candidates[q.position]
		q.position++
		if e == nil {
			continue
		}
		if e.index != q.index {
			fatal(ErrForeignHandle, "%v is not from index %s", e, q.index.id)
		}
		if !e.IsAlive() {
			continue
		}
		if q.accept(e.slot) {
			return true
		}
	}
	q.current = nil
	return false
}

func (q *QueryIterator) accept(ei uint32) bool {
	m := q.index.masks[ei]
	if !m.ContainsAll(q.requiredMask) {
		return false
	}
	if q.hasExcluded && !m.ContainsNone(q.excludedMask) {
		return false
	}
	if q.filter != nil && !q.filter.Evaluate(m, q.index.registry) {
		return false
	}
	for _, h := range q.required {
		ci := h.store.ComponentIndex(ei)
		if ci == 0 {
			return false
		}
		h.SetIndex(ci)
	}
	for _, h := range q.optional {
		h.SetIndex(h.store.ComponentIndex(ei))
	}
	q.current = q.index.entities[ei]
	return true
}

// Entity returns the entity of the current match
func (q *QueryIterator) Entity() *Entity {
	return q.current
}

// Reset restarts iteration from the beginning
func (q *QueryIterator) Reset() {
	q.cursor = 0
	q.position = 0
	q.candidates = nil
	q.collected = false
	q.current = nil
	if q.primary != nil {
		q.primary.SetIndex(0)
	}
	for _, h := range q.required {
		h.SetIndex(0)
	}
	for _, h := range q.optional {
		h.SetIndex(0)
	}
}

// Entities ranges over the matches from the start. The index is locked for the duration of
// the loop, so Enqueue* operations and compaction requested inside it run afterwards.
func (q *QueryIterator) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		q.Reset()
		q.index.Lock()
		defer q.index.Unlock()
		for q.Next() {
			if !yield(q.current) {
				return
			}
		}
	}
}

// Count runs the query to exhaustion and returns the number of matches
func (q *QueryIterator) Count() int {
	q.Reset()
	total := 0
	for q.Next() {
		total++
	}
	q.Reset()
	return total
}
