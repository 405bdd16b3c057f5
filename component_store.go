package depot

import "weak"

// ComponentStore holds every component of one type within one EntityIndex. Data lives in
// columns indexed by component index; entityToComponent and componentToEntity map between
// the two index spaces, with 0 meaning absent on both sides.
type ComponentStore struct {
	index *EntityIndex
	typ   *ComponentType
	row   uint32

	entityToComponent []uint32
	componentToEntity []uint32
	components        []*Component
	ids               []uint32
	versions          []int32

	declared  []Column
	decorated []weak.Pointer[decorationCell]

	insertCursor uint32
	idSeq        uint32
	versionClock uint32
	live         int
}

func newComponentStore(idx *EntityIndex, typ *ComponentType, row uint32, entityCapacity int) *ComponentStore {
	capacity := max(Config.initialComponentCapacity, 1)
	s := &ComponentStore{
		index:             idx,
		typ:               typ,
		row:               row,
		entityToComponent: make([]uint32, entityCapacity),
		componentToEntity: make([]uint32, capacity),
		components:        make([]*Component, capacity),
		ids:               make([]uint32, capacity),
		versions:          make([]int32, capacity),
		declared:          make([]Column, len(typ.properties)),
		insertCursor:      1,
	}
	s.versions[0] = -1
	for i, p := range typ.properties {
		col := p.newColumn()
		col.Resize(capacity)
		col.SetDefault(0)
		s.declared[i] = col
	}
	return s
}

func (s *ComponentStore) Type() *ComponentType {
	return s.typ
}

// Len returns the number of live components
func (s *ComponentStore) Len() int {
	return s.live
}

// Cap returns the size of the component arrays, sentinel included
func (s *ComponentStore) Cap() int {
	return len(s.components)
}

// ColumnCount returns declared plus tracked decorated columns. Decorations whose holder is
// gone stay counted until the next compaction prunes them.
func (s *ComponentStore) ColumnCount() int {
	return len(s.declared) + len(s.decorated)
}

// ComponentIndex returns the component index for an entity slot, 0 if it has none
func (s *ComponentStore) ComponentIndex(entityIndex uint32) uint32 {
	if int(entityIndex) >= len(s.entityToComponent) {
		return 0
	}
	return s.entityToComponent[entityIndex]
}

// EntityIndexOf returns the entity slot a component index is attached to, 0 if none
func (s *ComponentStore) EntityIndexOf(componentIndex uint32) uint32 {
	if int(componentIndex) >= len(s.componentToEntity) {
		return 0
	}
	return s.componentToEntity[componentIndex]
}

// Component returns the canonical component of an entity slot, nil if it has none
func (s *ComponentStore) Component(entityIndex uint32) *Component {
	return s.components[s.ComponentIndex(entityIndex)]
}

// AddComponent attaches a fresh component to the entity slot, replacing any existing one.
// It returns nil when removing the replaced component also removed the entity.
func (s *ComponentStore) AddComponent(entityIndex uint32) *Component {
	return s.addComponent(entityIndex, nil)
}

// AddComponentFrom attaches a component whose declared properties are copied from template.
// Like AddComponent it returns nil if the replacement removed the entity.
func (s *ComponentStore) AddComponentFrom(entityIndex uint32, template *Component) *Component {
	if template == nil {
		fatal(ErrArgument, "nil template for %s", s.typ)
	}
	return s.addComponent(entityIndex, template)
}

func (s *ComponentStore) addComponent(entityIndex uint32, template *Component) *Component {
	if template != nil {
		if template.store.typ != s.typ {
			fatal(ErrArgument, "template %v is not a %s", template, s.typ)
		}
		if !template.IsAlive() {
			fatal(ErrTemplateNotLive, "template %v", template)
		}
	}
	if !s.index.slotAlive(entityIndex) {
		fatal(ErrEntityRemoved, "entity slot %d", entityIndex)
	}

	ci := s.insertCursor
	if int(ci) >= len(s.components) {
		s.resize(grownCapacity(int(ci) + 1))
	}
	s.insertCursor++

	// The new slot is filled before any existing component is removed so that a template
	// attached to this very entity is still readable.
	for i, col := range s.declared {
		if template != nil {
			col.CloneFrom(template.store.declared[i], template.index, ci)
		} else {
			col.SetDefault(ci)
		}
	}
	for _, col := range s.decorations() {
		col.SetDefault(ci)
	}

	var templateEntity *Entity
	if template != nil {
		templateEntity = template.Entity()
	}

	if s.entityToComponent[entityIndex] != 0 {
		s.RemoveComponent(entityIndex)
		if !s.index.slotAlive(entityIndex) {
			// the replaced component owned its own entity
			s.clearSlot(ci)
			if s.insertCursor == ci+1 {
				s.insertCursor = ci
			}
			return nil
		}
	}

	s.idSeq++
	c := &Component{store: s, index: ci, id: s.idSeq}
	s.ids[ci] = c.id
	s.components[ci] = c
	s.componentToEntity[ci] = entityIndex
	s.entityToComponent[entityIndex] = ci
	s.live++
	s.incrementVersion(ci)
	s.index.masks[entityIndex].Mark(s.row)

	for _, req := range s.typ.requires {
		rs := s.index.Store(req)
		if rs.entityToComponent[entityIndex] != 0 {
			continue
		}
		var reqTemplate *Component
		if templateEntity != nil {
			reqTemplate = templateEntity.Get(req)
		}
		if added := rs.addComponent(entityIndex, reqTemplate); added != nil {
			s.index.ownership.SetOwner(added, c)
		}
	}
	return c
}

// RemoveComponent detaches the entity's component, cascading to everything it owns.
// It reports whether anything was removed.
func (s *ComponentStore) RemoveComponent(entityIndex uint32) bool {
	ci := s.ComponentIndex(entityIndex)
	if ci == 0 {
		return false
	}
	c := s.components[ci]
	s.index.ownership.disownAndRemoveChildren(ownerRef{component: c})
	if s.components[ci] != c {
		// removed while cascading
		return true
	}
	s.clearSlot(ci)
	s.entityToComponent[entityIndex] = 0
	s.index.masks[entityIndex].Unmark(s.row)
	c.index = 0
	s.live--
	return true
}

// clearSlot resets every column at ci so references are dropped promptly
func (s *ComponentStore) clearSlot(ci uint32) {
	for _, col := range s.declared {
		col.SetDefault(ci)
	}
	for _, col := range s.decorations() {
		col.SetDefault(ci)
	}
	s.ids[ci] = 0
	s.componentToEntity[ci] = 0
	s.components[ci] = nil
}

func (s *ComponentStore) incrementVersion(ci uint32) {
	if ci == 0 {
		return
	}
	s.versions[ci] = int32(s.versionClock & 0x7FFFFFFF)
	s.versionClock++
}

func (s *ComponentStore) expandEntityCapacity(n int) {
	if n <= len(s.entityToComponent) {
		return
	}
	expanded := make([]uint32, n)
	copy(expanded, s.entityToComponent)
	s.entityToComponent = expanded
}

// resize reallocates every component-indexed array to capacity
func (s *ComponentStore) resize(capacity int) {
	s.componentToEntity = resized(s.componentToEntity, capacity)
	s.components = resized(s.components, capacity)
	s.ids = resized(s.ids, capacity)
	s.versions = resized(s.versions, capacity)
	for _, col := range s.declared {
		col.Resize(capacity)
	}
	for _, col := range s.decorations() {
		col.Resize(capacity)
	}
}

func resized[T any](values []T, capacity int) []T {
	if capacity == len(values) {
		return values
	}
	out := make([]T, capacity)
	copy(out, values)
	return out
}

// decorations resolves the decorated columns that are still held externally
func (s *ComponentStore) decorations() []Column {
	if len(s.decorated) == 0 {
		return nil
	}
	cols := make([]Column, 0, len(s.decorated))
	for _, ref := range s.decorated {
		if cell := ref.Value(); cell != nil && !cell.released {
			cols = append(cols, cell.column)
		}
	}
	return cols
}
