package depot

import "fmt"

var _ Ownable = &Component{}

// Component is a handle onto one slot of a ComponentStore.
//
// Canonical handles are created by the store, one per live component, and follow their
// component through compaction. Flyweight handles are handed out by query iterators and
// are repositioned with SetIndex; several of them may alias the same component over time.
type Component struct {
	store     *ComponentStore
	index     uint32
	id        uint32
	flyweight bool
}

func newFlyweight(store *ComponentStore) *Component {
	return &Component{store: store, flyweight: true}
}

func (c *Component) Index() uint32 {
	return c.index
}

func (c *Component) ID() uint32 {
	return c.id
}

func (c *Component) Type() *ComponentType {
	return c.store.typ
}

func (c *Component) Store() *ComponentStore {
	return c.store
}

func (c *Component) IsFlyweight() bool {
	return c.flyweight
}

// SetIndex binds a flyweight handle to a component index (0 unbinds it)
func (c *Component) SetIndex(index uint32) {
	if !c.flyweight {
		fatal(ErrArgument, "cannot rebind canonical %v", c)
	}
	c.index = index
	c.id = c.store.ids[index]
}

func (c *Component) IsAlive() bool {
	if c.index == 0 || int(c.index) >= len(c.store.ids) {
		return false
	}
	return c.store.ids[c.index] == c.id
}

// Version returns the component's change counter. Dead handles report the sentinel's
// negative version.
func (c *Component) Version() int32 {
	if !c.IsAlive() {
		return c.store.versions[0]
	}
	return c.store.versions[c.index]
}

// UpdateVersion marks the component as changed
func (c *Component) UpdateVersion() {
	if c.IsAlive() {
		c.store.incrementVersion(c.index)
	}
}

// Entity returns the entity the component is attached to, nil when dead
func (c *Component) Entity() *Entity {
	if !c.IsAlive() {
		return nil
	}
	return c.store.index.entities[c.store.componentToEntity[c.index]]
}

// Canonical returns the authoritative handle for the component the receiver points at
func (c *Component) Canonical() *Component {
	if !c.IsAlive() {
		return nil
	}
	return c.store.components[c.index]
}

func (c *Component) Owner() Ownable {
	return c.store.index.ownership.Owner(c)
}

func (c *Component) SetOwner(owner Ownable) {
	c.store.index.ownership.SetOwner(c, owner)
}

func (c *Component) ownerRef() ownerRef {
	return ownerRef{component: c.Canonical()}
}

// mustBeLive keeps writes away from the sentinel slot
func mustBeLive(c *Component) {
	if !c.IsAlive() {
		fatal(ErrComponentRemoved, "%v", c)
	}
}

func (c *Component) String() string {
	return fmt.Sprintf("%s(index=%d, id=%d)", c.store.typ, c.index, c.id)
}
