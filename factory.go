package depot

import (
	"iter"

	"github.com/TheBitDrifter/table"
)

type factory struct{}

var Factory factory

func (f factory) NewRegistry(schema table.Schema) *Registry {
	return newRegistry(schema)
}

func (f factory) NewEntityIndex(registry *Registry) *EntityIndex {
	return newEntityIndex(registry)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

// NewQueryIterator scans every entity of idx
func (f factory) NewQueryIterator(idx *EntityIndex) *QueryIterator {
	return newQueryIterator(idx)
}

// NewRestrictedQueryIterator scans only the given entities, in order. The sequence is
// consumed again on every Reset.
func (f factory) NewRestrictedQueryIterator(idx *EntityIndex, entities iter.Seq[*Entity]) *QueryIterator {
	return newRestrictedQueryIterator(idx, entities)
}

func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
