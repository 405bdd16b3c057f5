/*
Package depot provides the storage and query engine of an Entity-Component-System (ECS).

Every component type is stored column by column: each declared property gets its own densely
packed array, indexed by component index, inside one ComponentStore per type. An EntityIndex
owns the entity slots, the stores and the ownership graph that ties entities and components
together.

Core Concepts:

  - Entity: a slot in the EntityIndex with an id that is never reused.
  - ComponentType: a named set of properties, plus the types it requires.
  - ComponentStore: the columns and index mappings for one component type.
  - Ownership: any entity or component may own others; removing an owner removes what it owns.
  - QueryIterator: joins several stores, driven by the smallest required one.
  - Compaction: an explicit pass that closes gaps and restores entity order.

Index 0 is reserved everywhere and never holds live data.

Basic Usage:

	// Describe component types
	x := depot.NewProperty("x", 0.0)
	y := depot.NewProperty("y", 0.0)
	position := depot.FactoryNewComponentType[Position]("position", x, y)
	velocity := depot.FactoryNewComponentType[Velocity]("velocity", depot.NewProperty("dx", 0.0))

	// Create an index over a registry
	registry := depot.Factory.NewRegistry(table.Factory.NewSchema())
	index := depot.Factory.NewEntityIndex(registry)

	e := index.AddEntity()
	x.Set(e.Add(position), 10)
	e.Add(velocity)

	// Query entities and process them
	query := depot.Factory.NewQueryIterator(index)
	pos := query.AddRequired(position)
	query.AddRequired(velocity)
	for query.Next() {
		x.Set(pos, x.Get(pos)+1)
	}

	// Between simulation passes
	index.Compact()

Nothing in the package is safe for concurrent use.
*/
package depot
