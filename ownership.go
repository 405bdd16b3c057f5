package depot

// ownerRef is a tagged union of canonical handles; exactly one field is set for a valid ref
type ownerRef struct {
	entity    *Entity
	component *Component
}

func (r ownerRef) valid() bool {
	return r.entity != nil || r.component != nil
}

func (r ownerRef) value() Ownable {
	if r.entity != nil {
		return r.entity
	}
	if r.component != nil {
		return r.component
	}
	return nil
}

func (r ownerRef) alive() bool {
	switch {
	case r.entity != nil:
		return r.entity.IsAlive()
	case r.component != nil:
		return r.component.IsAlive()
	}
	return false
}

func (r ownerRef) entityIndex() *EntityIndex {
	switch {
	case r.entity != nil:
		return r.entity.index
	case r.component != nil:
		return r.component.store.index
	}
	return nil
}

// OwnershipGraph records which entity or component owns which. Every object has at most one
// owner; removing an owner removes everything it owns first. Cycles are not rejected.
type OwnershipGraph struct {
	index  *EntityIndex
	owners map[ownerRef]ownerRef
	owned  map[ownerRef]map[ownerRef]struct{}
}

func newOwnershipGraph(idx *EntityIndex) *OwnershipGraph {
	return &OwnershipGraph{
		index:  idx,
		owners: make(map[ownerRef]ownerRef),
		owned:  make(map[ownerRef]map[ownerRef]struct{}),
	}
}

// Owner returns obj's owner, nil if it has none
func (g *OwnershipGraph) Owner(obj Ownable) Ownable {
	if obj == nil {
		return nil
	}
	owner, ok := g.owners[obj.ownerRef()]
	if !ok {
		return nil
	}
	return owner.value()
}

// SetOwner transfers obj to owner, revoking it from any previous owner. A nil owner
// just revokes.
func (g *OwnershipGraph) SetOwner(obj Ownable, owner Ownable) {
	if obj == nil {
		fatal(ErrArgument, "nil ownable")
	}
	ref := obj.ownerRef()
	if !ref.valid() {
		fatal(ErrArgument, "%v is not alive", obj)
	}
	if ref.entityIndex() != g.index {
		fatal(ErrForeignHandle, "%v is not from index %s", obj, g.index.id)
	}

	var ownerKey ownerRef
	if owner != nil {
		ownerKey = owner.ownerRef()
		if !ownerKey.valid() {
			fatal(ErrArgument, "owner %v is not alive", owner)
		}
		if ownerKey.entityIndex() != g.index {
			fatal(ErrForeignHandle, "owner %v is not from index %s", owner, g.index.id)
		}
		if ownerKey == ref {
			fatal(ErrArgument, "%v cannot own itself", obj)
		}
	}

	g.revoke(ref)
	if !ownerKey.valid() {
		return
	}
	g.owners[ref] = ownerKey
	children, ok := g.owned[ownerKey]
	if !ok {
		children = make(map[ownerRef]struct{})
		g.owned[ownerKey] = children
	}
	children[ref] = struct{}{}
}

// Owned lists what owner currently owns, in no particular order
func (g *OwnershipGraph) Owned(owner Ownable) []Ownable {
	if owner == nil {
		return nil
	}
	children := g.owned[owner.ownerRef()]
	out := make([]Ownable, 0, len(children))
	for child := range children {
		out = append(out, child.value())
	}
	return out
}

// revoke removes ref from its owner's owned-set
func (g *OwnershipGraph) revoke(ref ownerRef) {
	previous, ok := g.owners[ref]
	if !ok {
		return
	}
	delete(g.owners, ref)
	if children := g.owned[previous]; children != nil {
		delete(children, ref)
		if len(children) == 0 {
			delete(g.owned, previous)
		}
	}
}

// disownAndRemoveChildren detaches ref from its owner and removes, depth first, every object
// it owns. It returns once the whole subtree is gone.
func (g *OwnershipGraph) disownAndRemoveChildren(ref ownerRef) {
	if !ref.valid() {
		return
	}
	g.revoke(ref)
	children := g.owned[ref]
	if len(children) == 0 {
		return
	}
	delete(g.owned, ref)
	pending := make([]ownerRef, 0, len(children))
	for child := range children {
		delete(g.owners, child)
		pending = append(pending, child)
	}
	for _, child := range pending {
		if !child.alive() {
			continue
		}
		switch {
		case child.entity != nil:
			g.index.RemoveEntity(child.entity)
		case child.component != nil:
			c := child.component
			c.store.RemoveComponent(c.store.componentToEntity[c.index])
		}
	}
}
