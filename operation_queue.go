package depot

type operation struct {
	typ      operationType
	amount   int
	types    []*ComponentType
	template *Entity
	entities []*Entity
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAddComponent
	opRemoveComponent
	opNoop
)

type opKey struct {
	entity *Entity
	typ    *ComponentType
}

type opQueue struct {
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	compact        bool
	pendingDestroy map[*Entity]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[*Entity]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

// EnqueueAddEntities creates n entities with the given types, immediately when unlocked
func (idx *EntityIndex) EnqueueAddEntities(n int, types ...*ComponentType) {
	if !idx.Locked() {
		idx.addEntities(n, nil, types)
		return
	}
	idx.opQueue.createOps = append(idx.opQueue.createOps, operation{
		typ:    opCreate,
		amount: n,
		types:  types,
	})
}

// EnqueueAddEntitiesFrom creates n copies of template, immediately when unlocked
func (idx *EntityIndex) EnqueueAddEntitiesFrom(n int, template *Entity) {
	if !idx.Locked() {
		idx.addEntities(n, template, nil)
		return
	}
	idx.opQueue.createOps = append(idx.opQueue.createOps, operation{
		typ:      opCreate,
		amount:   n,
		template: template,
	})
}

// EnqueueRemoveEntities removes entities, immediately when unlocked
func (idx *EntityIndex) EnqueueRemoveEntities(entities ...*Entity) {
	if !idx.Locked() {
		for _, e := range entities {
			if e != nil && e.IsAlive() {
				idx.RemoveEntity(e)
			}
		}
		return
	}
	idx.opQueue.enqueueDestroy(entities)
}

// EnqueueAddComponent adds ct to e, immediately when unlocked
func (idx *EntityIndex) EnqueueAddComponent(e *Entity, ct *ComponentType) {
	if !idx.Locked() {
		e.Add(ct)
		return
	}
	idx.opQueue.enqueueComponentOp(opAddComponent, e, ct)
}

// EnqueueRemoveComponent removes ct from e, immediately when unlocked
func (idx *EntityIndex) EnqueueRemoveComponent(e *Entity, ct *ComponentType) {
	if !idx.Locked() {
		e.Remove(ct)
		return
	}
	idx.opQueue.enqueueComponentOp(opRemoveComponent, e, ct)
}

func (idx *EntityIndex) addEntities(n int, template *Entity, types []*ComponentType) {
	for i := 0; i < n; i++ {
		var e *Entity
		if template != nil {
			e = idx.AddEntityFrom(template)
		} else {
			e = idx.AddEntity()
		}
		for _, ct := range types {
			if !e.Has(ct) {
				e.Add(ct)
			}
		}
	}
}

func (idx *EntityIndex) processOperationQueue() {
	q := &idx.opQueue
	if len(q.createOps) == 0 &&
		len(q.componentOps) == 0 &&
		len(q.destroyOps) == 0 &&
		!q.compact {
		return
	}

	// Process creates first
	for _, op := range q.createOps {
		if op.template != nil && !op.template.IsAlive() {
			continue
		}
		idx.addEntities(op.amount, op.template, op.types)
	}

	// Process component modifications
	for _, op := range q.componentOps {
		e := op.entities[0]
		// Verify the entity wasn't removed in the meantime
		if !e.IsAlive() {
			continue
		}
		switch op.typ {
		case opAddComponent:
			e.Add(op.types[0])
		case opRemoveComponent:
			e.Remove(op.types[0])
		}
	}

	// Process destroys last
	for _, op := range q.destroyOps {
		for _, e := range op.entities {
			if e.IsAlive() {
				idx.RemoveEntity(e)
			}
		}
	}

	compact := q.compact
	q.createOps = q.createOps[:0]
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	q.compact = false
	clear(q.pendingDestroy)
	clear(q.pendingMods)

	if compact {
		idx.Compact()
	}
}

func (q *opQueue) enqueueCompact() {
	q.compact = true
}

func (q *opQueue) enqueueDestroy(entities []*Entity) {
	// Filter out already queued entities
	var newEntities []*Entity
	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, exists := q.pendingDestroy[e]; exists {
			continue
		}
		newEntities = append(newEntities, e)
		q.pendingDestroy[e] = struct{}{}

		// Component operations on a doomed entity are dropped
		for key, idx := range q.pendingMods {
			if key.entity == e {
				q.componentOps[idx].typ = opNoop
				delete(q.pendingMods, key)
			}
		}
	}

	if len(newEntities) > 0 {
		q.destroyOps = append(q.destroyOps, operation{
			typ:      opDestroy,
			entities: newEntities,
		})
	}
}

func (q *opQueue) enqueueComponentOp(typ operationType, e *Entity, ct *ComponentType) {
	if e == nil || ct == nil {
		fatal(ErrArgument, "nil entity or component type")
	}
	// If entity is pending destroy, ignore component operations
	if _, isDestroyed := q.pendingDestroy[e]; isDestroyed {
		return
	}

	// A later operation on the same entity and type replaces the earlier one
	key := opKey{entity: e, typ: ct}
	if existingIdx, exists := q.pendingMods[key]; exists {
		q.componentOps[existingIdx].typ = typ
		return
	}

	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:      typ,
		entities: []*Entity{e},
		types:    []*ComponentType{ct},
	})
}
