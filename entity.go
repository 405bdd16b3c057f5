package depot

import (
	"fmt"
	"iter"
)

var _ Ownable = &Entity{}

// Entity is the canonical handle of an entity slot. The slot changes on compaction, the id
// never does.
type Entity struct {
	index *EntityIndex
	slot  uint32
	id    uint32
}

// Index returns the entity's current slot, 0 once removed
func (e *Entity) Index() uint32 {
	return e.slot
}

func (e *Entity) ID() uint32 {
	return e.id
}

func (e *Entity) EntityIndex() *EntityIndex {
	return e.index
}

func (e *Entity) IsAlive() bool {
	if e.slot == 0 || int(e.slot) >= len(e.index.entities) {
		return false
	}
	current := e.index.entities[e.slot]
	return current != nil && current.id == e.id
}

// Add attaches a new component of ct, replacing any existing one. It returns nil if the
// entity owned by the replaced component was removed along with it.
func (e *Entity) Add(ct *ComponentType) *Component {
	e.mustBeAlive()
	return e.index.Store(ct).AddComponent(e.slot)
}

// AddFrom attaches a copy of template, which may belong to any entity or index
func (e *Entity) AddFrom(template *Component) *Component {
	e.mustBeAlive()
	if template == nil {
		fatal(ErrArgument, "nil template for %v", e)
	}
	return e.index.Store(template.Type()).AddComponentFrom(e.slot, template)
}

// Get returns the entity's component of ct, nil if it has none
func (e *Entity) Get(ct *ComponentType) *Component {
	if !e.IsAlive() {
		return nil
	}
	s := e.index.storeIfExists(ct)
	if s == nil {
		return nil
	}
	return s.Component(e.slot)
}

func (e *Entity) Has(ct *ComponentType) bool {
	return e.Get(ct) != nil
}

// As returns the entity's component of ct, adding one first if needed
func (e *Entity) As(ct *ComponentType) *Component {
	if c := e.Get(ct); c != nil {
		return c
	}
	return e.Add(ct)
}

// Remove detaches the entity's component of ct
func (e *Entity) Remove(ct *ComponentType) bool {
	if !e.IsAlive() {
		return false
	}
	s := e.index.storeIfExists(ct)
	if s == nil {
		return false
	}
	return s.RemoveComponent(e.slot)
}

// Components yields the entity's components in store registration order
func (e *Entity) Components() iter.Seq[*Component] {
	return func(yield func(*Component) bool) {
		for _, s := range e.index.stores {
			if !e.IsAlive() {
				return
			}
			c := s.Component(e.slot)
			if c == nil {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (e *Entity) Owner() Ownable {
	return e.index.ownership.Owner(e)
}

func (e *Entity) SetOwner(owner Ownable) {
	e.index.ownership.SetOwner(e, owner)
}

// Owned lists what the entity currently owns
func (e *Entity) Owned() []Ownable {
	return e.index.ownership.Owned(e)
}

func (e *Entity) ownerRef() ownerRef {
	if !e.IsAlive() {
		return ownerRef{}
	}
	return ownerRef{entity: e}
}

func (e *Entity) mustBeAlive() {
	if !e.IsAlive() {
		fatal(ErrEntityRemoved, "%v", e)
	}
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(index=%d, id=%d)", e.slot, e.id)
}
