package depot

import (
	"slices"
	"testing"

	"github.com/TheBitDrifter/table"
	"github.com/rotisserie/eris"
	"gotest.tools/v3/assert"
)

type (
	positionTag struct{}
	velocityTag struct{}
	labelTag    struct{}
	aTag        struct{}
	bTag        struct{}
	cTag        struct{}
)

// world bundles an index with freshly declared component types, since properties bind to
// the first type that declares them
type world struct {
	index    *EntityIndex
	position *ComponentType
	velocity *ComponentType
	label    *ComponentType

	x, y   *Property[float64]
	dx, dy *Property[float64]
	tags   *Property[[]string]
}

func newWorld() *world {
	w := &world{
		x:    NewProperty("x", 0.0),
		y:    NewProperty("y", 0.0),
		dx:   NewProperty("dx", 0.0),
		dy:   NewProperty("dy", 0.0),
		tags: NewClonedProperty("tags", []string(nil), slices.Clone[[]string]),
	}
	w.position = FactoryNewComponentType[positionTag]("position", w.x, w.y)
	w.velocity = FactoryNewComponentType[velocityTag]("velocity", w.dx, w.dy)
	w.label = FactoryNewComponentType[labelTag]("label", w.tags)
	w.index = Factory.NewEntityIndex(Factory.NewRegistry(table.Factory.NewSchema()))
	return w
}

// letters returns three property-less types for set-membership tests
func letters() (a, b, c *ComponentType) {
	return FactoryNewComponentType[aTag]("A"),
		FactoryNewComponentType[bTag]("B"),
		FactoryNewComponentType[cTag]("C")
}

func newIndex() *EntityIndex {
	return Factory.NewEntityIndex(Factory.NewRegistry(table.Factory.NewSchema()))
}

func assertPanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		assert.Assert(t, r != nil, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		assert.Assert(t, ok, "panic value %v is not an error", r)
		assert.Check(t, eris.Is(err, target), "got %v, want %v", err, target)
	}()
	fn()
}

// assertMappings checks that every live entity and its components point at each other
func assertMappings(t *testing.T, idx *EntityIndex) {
	t.Helper()
	for e := range idx.Iterate() {
		assert.Equal(t, idx.Entity(e.Index()), e)
		for _, s := range idx.Stores() {
			ci := s.ComponentIndex(e.Index())
			if ci == 0 {
				continue
			}
			assert.Equal(t, s.EntityIndexOf(ci), e.Index())
			assert.Equal(t, s.Component(e.Index()).Index(), ci)
		}
	}
	for _, s := range idx.Stores() {
		assert.Equal(t, s.ComponentIndex(0), uint32(0))
		assert.Equal(t, s.EntityIndexOf(0), uint32(0))
	}
	assert.Assert(t, idx.Entity(0) == nil)
}

// assertSame compares handle slices by identity
func assertSame[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	assert.Equal(t, len(got), len(want), "got %v, want %v", got, want)
	for i := range want {
		assert.Equal(t, got[i], want[i], "element %d", i)
	}
}
