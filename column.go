package depot

var _ Column = &TypedColumn[int]{}

// TypedColumn is a growable array of T indexed by component index
type TypedColumn[T any] struct {
	values []T
	def    T
	clone  func(T) T
}

// NewColumn creates an empty column. clone, when non-nil, is applied to values copied
// out of a template and to the default, so reference types are never shared between slots.
func NewColumn[T any](def T, clone func(T) T) *TypedColumn[T] {
	return &TypedColumn[T]{def: def, clone: clone}
}

func (c *TypedColumn[T]) Get(i uint32) T {
	return c.values[i]
}

// Ref returns a pointer into the column. It is invalidated by any resize.
func (c *TypedColumn[T]) Ref(i uint32) *T {
	return &c.values[i]
}

func (c *TypedColumn[T]) Set(i uint32, v T) {
	c.values[i] = v
}

func (c *TypedColumn[T]) Default() T {
	return c.def
}

func (c *TypedColumn[T]) SetDefault(i uint32) {
	if c.clone != nil {
		c.values[i] = c.clone(c.def)
		return
	}
	c.values[i] = c.def
}

func (c *TypedColumn[T]) Cap() int {
	return len(c.values)
}

// Resize reallocates to exactly capacity entries, keeping the common prefix
func (c *TypedColumn[T]) Resize(capacity int) {
	if capacity == len(c.values) {
		return
	}
	resized := make([]T, capacity)
	copy(resized, c.values)
	c.values = resized
}

func (c *TypedColumn[T]) Swap(i, j uint32) {
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

func (c *TypedColumn[T]) CloneFrom(src Column, srcIndex, dstIndex uint32) {
	other, ok := src.(*TypedColumn[T])
	if !ok {
		fatal(ErrArgument, "cannot clone %T into %T", src, c)
	}
	v := other.values[srcIndex]
	if c.clone != nil {
		v = c.clone(v)
	}
	c.values[dstIndex] = v
}
