package depot

import "github.com/rotisserie/eris"

var _ Cache[any] = &SimpleCache[any]{}

// SimpleCache maps string keys to densely packed items. Index 0 is reserved so that a
// zero index never names a registered item.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if _, exists := c.itemIndices[key]; exists {
		return -1, eris.Wrapf(ErrDuplicateType, "key %q", key)
	}
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, eris.Wrapf(ErrRegistryFull, "cache at maximum capacity (%d)", c.maxCapacity)
	}
	if len(c.items) == 0 {
		var zero T
		c.items = append(c.items, zero)
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *SimpleCache[T]) Len() int {
	return len(c.itemIndices)
}

// Items returns the registered items in registration order
func (c *SimpleCache[T]) Items() []T {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]T, len(c.items)-1)
	copy(out, c.items[1:])
	return out
}

func (c *SimpleCache[T]) Clear() {
	c.items = nil
	c.itemIndices = make(map[string]int)
}
