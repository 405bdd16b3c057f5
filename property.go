package depot

var _ PropertyDecl = &Property[int]{}

// Property declares a named column of a component type and, once the type is built,
// gives typed access to that column through any component handle of the type.
type Property[T any] struct {
	name  string
	def   T
	clone func(T) T
	owner *ComponentType
	slot  int
}

// NewProperty declares a property whose new slots start out as def
func NewProperty[T any](name string, def T) *Property[T] {
	return &Property[T]{name: name, def: def}
}

// NewClonedProperty declares a property whose values are copied through clone whenever a
// component is created from a template
func NewClonedProperty[T any](name string, def T, clone func(T) T) *Property[T] {
	return &Property[T]{name: name, def: def, clone: clone}
}

func (p *Property[T]) Name() string {
	return p.name
}

// Type returns the component type that declared the property, nil before declaration
func (p *Property[T]) Type() *ComponentType {
	return p.owner
}

func (p *Property[T]) newColumn() Column {
	return NewColumn(p.def, p.clone)
}

func (p *Property[T]) bind(owner *ComponentType, slot int) {
	if p.owner != nil && p.owner != owner {
		fatal(ErrArgument, "property %q is already declared by %s", p.name, p.owner)
	}
	p.owner = owner
	p.slot = slot
}

// Column returns the backing column of store
func (p *Property[T]) Column(store *ComponentStore) *TypedColumn[T] {
	if store.typ != p.owner {
		fatal(ErrArgument, "property %q of %s used with store of %s", p.name, p.owner, store.typ)
	}
	return store.declared[p.slot].(*TypedColumn[T])
}

// Get reads the value at the component's current index. A dead or unbound handle reads
// the declared default.
func (p *Property[T]) Get(c *Component) T {
	return p.Column(c.store).Get(c.index)
}

// Ref returns a pointer to the value. Writes through it do not update the version.
func (p *Property[T]) Ref(c *Component) *T {
	col := p.Column(c.store)
	mustBeLive(c)
	return col.Ref(c.index)
}

// Set writes the value and bumps the component's version
func (p *Property[T]) Set(c *Component, v T) {
	col := p.Column(c.store)
	mustBeLive(c)
	col.Set(c.index, v)
	c.store.incrementVersion(c.index)
}
