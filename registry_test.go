package depot

import (
	"fmt"
	"testing"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
	"gotest.tools/v3/assert"
)

func TestRegistryRegister(t *testing.T) {
	registry := Factory.NewRegistry(table.Factory.NewSchema())
	a, b, _ := letters()

	rowA, err := registry.Register(a)
	assert.NilError(t, err)
	rowB, err := registry.Register(b)
	assert.NilError(t, err)
	assert.Assert(t, rowA != rowB)

	again, err := registry.Register(a)
	assert.NilError(t, err)
	assert.Equal(t, again, rowA)
	assert.Equal(t, registry.Len(), 2)

	found, ok := registry.Lookup("B")
	assert.Assert(t, ok)
	assert.Equal(t, found, b)
	_, ok = registry.Lookup("missing")
	assert.Assert(t, !ok)

	assertSame(t, registry.Types(), []*ComponentType{a, b})
}

func TestRegistryErrors(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		registry := Factory.NewRegistry(table.Factory.NewSchema())
		_, err := registry.Register(FactoryNewComponentType[aTag]("same"))
		assert.NilError(t, err)
		_, err = registry.Register(FactoryNewComponentType[bTag]("same"))
		assert.Assert(t, eris.Is(err, ErrDuplicateType))
	})

	t.Run("full", func(t *testing.T) {
		previous := Config.maxComponentTypes
		assert.NilError(t, Config.SetMaxComponentTypes(2))
		defer func() { Config.maxComponentTypes = previous }()

		registry := Factory.NewRegistry(table.Factory.NewSchema())
		a, b, c := letters()
		_, err := registry.Register(a)
		assert.NilError(t, err)
		_, err = registry.Register(b)
		assert.NilError(t, err)
		_, err = registry.Register(c)
		assert.Assert(t, eris.Is(err, ErrRegistryFull))

		idx := Factory.NewEntityIndex(registry)
		assertPanicsWith(t, ErrRegistryFull, func() {
			idx.Store(c)
		})
	})

	t.Run("nil type", func(t *testing.T) {
		registry := Factory.NewRegistry(table.Factory.NewSchema())
		_, err := registry.Register(nil)
		assert.Assert(t, eris.Is(err, ErrArgument))
	})
}

func TestRegistrySharedByIndexes(t *testing.T) {
	registry := Factory.NewRegistry(table.Factory.NewSchema())
	a, b, _ := letters()
	first := Factory.NewEntityIndex(registry)
	second := Factory.NewEntityIndex(registry)
	assert.Assert(t, first.ID() != second.ID())

	first.AddEntity().Add(b)
	second.AddEntity().Add(a)
	e := second.AddEntity()
	e.Add(b)

	assert.Equal(t, first.Store(b).row, second.Store(b).row)
	assert.Equal(t, registry.Len(), 2)
	assert.Equal(t, first.Store(b).Len(), 1)
	assert.Equal(t, second.Store(b).Len(), 1)
	assert.Assert(t, first.Store(a).Len() == 0)
}

func TestRegistryRowsAreLocal(t *testing.T) {
	// more types across the process than a mask holds
	total := int(mask.MaxBits) + 16
	perRegistry := 8
	for r := 0; r*perRegistry < total; r++ {
		idx := newIndex()
		for i := 0; i < perRegistry; i++ {
			ct := FactoryNewComponentType[aTag](fmt.Sprintf("type%d", i))
			e := idx.AddEntity()
			c := e.Add(ct)
			assert.Assert(t, c.IsAlive())
			assert.Equal(t, idx.Store(ct).row, uint32(i))
			assert.Assert(t, e.Has(ct))
		}
		assertMappings(t, idx)
	}
}

func TestRegistryMaskCapacity(t *testing.T) {
	registry := Factory.NewRegistry(table.Factory.NewSchema())
	for i := 0; i < int(mask.MaxBits); i++ {
		row, err := registry.Register(FactoryNewComponentType[bTag](fmt.Sprintf("type%d", i)))
		assert.NilError(t, err)
		assert.Equal(t, row, uint32(i))
	}
	_, err := registry.Register(FactoryNewComponentType[bTag]("overflow"))
	assert.Assert(t, eris.Is(err, ErrRegistryFull))

	idx := Factory.NewEntityIndex(registry)
	last, _ := registry.Lookup(fmt.Sprintf("type%d", int(mask.MaxBits)-1))
	e := idx.AddEntity()
	e.Add(last)
	assert.Assert(t, e.Has(last))
}
