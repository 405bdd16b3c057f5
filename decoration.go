package depot

import "weak"

// decorationCell is the only strong link to a decorated column. The store refers to it
// through a weak pointer, so it disappears with the last *Decoration referring to it.
type decorationCell struct {
	column   Column
	released bool
}

// Decoration is a column attached to a component type after the fact, typically scratch
// state owned by a single system. Keep the *Decoration reachable for as long as the column
// is needed: once it is garbage collected, or Release is called, the next compaction
// drops the column from the store.
//
// Writes through a decoration do not update component versions.
type Decoration[T any] struct {
	cell   *decorationCell
	column *TypedColumn[T]
	store  *ComponentStore
}

// Decorate adds a column of T to store, defaulted for every live component
func Decorate[T any](store *ComponentStore, def T) *Decoration[T] {
	return DecorateCloned(store, def, nil)
}

// DecorateCloned is Decorate with a clone function applied to defaults
func DecorateCloned[T any](store *ComponentStore, def T, clone func(T) T) *Decoration[T] {
	col := NewColumn(def, clone)
	col.Resize(len(store.components))
	col.SetDefault(0)
	for i := uint32(1); i < store.insertCursor; i++ {
		if store.components[i] != nil {
			col.SetDefault(i)
		}
	}
	cell := &decorationCell{column: col}
	store.decorated = append(store.decorated, weak.Make(cell))
	return &Decoration[T]{cell: cell, column: col, store: store}
}

func (d *Decoration[T]) Store() *ComponentStore {
	return d.store
}

// Column exposes the raw column for bulk access
func (d *Decoration[T]) Column() *TypedColumn[T] {
	return d.column
}

func (d *Decoration[T]) Get(c *Component) T {
	d.check(c)
	return d.column.Get(c.index)
}

func (d *Decoration[T]) Ref(c *Component) *T {
	d.check(c)
	mustBeLive(c)
	return d.column.Ref(c.index)
}

func (d *Decoration[T]) Set(c *Component, v T) {
	d.check(c)
	mustBeLive(c)
	d.column.Set(c.index, v)
}

// Release detaches the column without waiting for garbage collection
func (d *Decoration[T]) Release() {
	d.cell.released = true
}

func (d *Decoration[T]) Released() bool {
	return d.cell.released
}

func (d *Decoration[T]) check(c *Component) {
	if c.store != d.store {
		fatal(ErrArgument, "decoration of %s used with %v", d.store.typ, c)
	}
	if d.cell.released {
		fatal(ErrArgument, "decoration of %s has been released", d.store.typ)
	}
}

// pruneDecorations forgets decorated columns that are no longer held
func (s *ComponentStore) pruneDecorations() int {
	kept := s.decorated[:0]
	pruned := 0
	for _, ref := range s.decorated {
		if cell := ref.Value(); cell != nil && !cell.released {
			kept = append(kept, ref)
			continue
		}
		pruned++
	}
	clear(s.decorated[len(kept):])
	s.decorated = kept
	return pruned
}
