package depot

import (
	"slices"
	"testing"

	"gotest.tools/v3/assert"
)

type letterWorld struct {
	index   *EntityIndex
	a, b, c *ComponentType
	e       []*Entity
}

// newLetterWorld builds five entities: e1{A} e2{B} e3{A,B} e4{} e5{A}
func newLetterWorld() *letterWorld {
	lw := &letterWorld{index: newIndex()}
	lw.a, lw.b, lw.c = letters()
	layout := [][]*ComponentType{
		{lw.a},
		{lw.b},
		{lw.a, lw.b},
		{},
		{lw.a},
	}
	for _, types := range layout {
		e := lw.index.AddEntity()
		for _, ct := range types {
			e.Add(ct)
		}
		lw.e = append(lw.e, e)
	}
	return lw
}

func collect(q *QueryIterator) []*Entity {
	var out []*Entity
	for q.Next() {
		out = append(out, q.Entity())
	}
	return out
}

func TestQueryIteratorRequired(t *testing.T) {
	lw := newLetterWorld()

	tests := []struct {
		name     string
		required []*ComponentType
		expected []int
	}{
		{"A", []*ComponentType{lw.a}, []int{0, 2, 4}},
		{"B", []*ComponentType{lw.b}, []int{1, 2}},
		{"A and B", []*ComponentType{lw.a, lw.b}, []int{2}},
		{"B and A", []*ComponentType{lw.b, lw.a}, []int{2}},
		{"C", []*ComponentType{lw.c}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Factory.NewQueryIterator(lw.index)
			for _, ct := range tt.required {
				q.AddRequired(ct)
			}
			var expected []*Entity
			for _, i := range tt.expected {
				expected = append(expected, lw.e[i])
			}
			assertSame(t, collect(q), expected)
			assert.Assert(t, !q.Next())
			assert.Assert(t, q.Entity() == nil)
		})
	}
}

func TestQueryIteratorHandles(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	a := q.AddRequired(lw.a)
	b := q.AddRequired(lw.b)

	assert.Assert(t, q.Next())
	assert.Equal(t, a.Canonical(), lw.e[2].Get(lw.a))
	assert.Equal(t, b.Canonical(), lw.e[2].Get(lw.b))
	assert.Equal(t, a.Entity(), lw.e[2])
	assert.Assert(t, !q.Next())
}

func TestQueryIteratorOptional(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	q.AddRequired(lw.a)
	b := q.AddOptional(lw.b)

	var seen []*Entity
	for q.Next() {
		e := q.Entity()
		seen = append(seen, e)
		if e == lw.e[2] {
			assert.Assert(t, b.Index() != 0)
			assert.Assert(t, b.IsAlive())
			assert.Equal(t, b.Canonical(), e.Get(lw.b))
		} else {
			assert.Equal(t, b.Index(), uint32(0))
			assert.Assert(t, !b.IsAlive())
		}
	}
	assertSame(t, seen, []*Entity{lw.e[0], lw.e[2], lw.e[4]})
}

func TestQueryIteratorPrimary(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	a := q.AddRequired(lw.a)
	assert.Equal(t, q.primary, a)

	b := q.AddRequired(lw.b)
	assert.Equal(t, q.primary, b)
	assertSame(t, q.required, []*Component{a})
}

func TestQueryIteratorExcluded(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	q.AddRequired(lw.a)
	q.AddExcluded(lw.b)
	assertSame(t, collect(q), []*Entity{lw.e[0], lw.e[4]})
}

func TestQueryIteratorWhere(t *testing.T) {
	lw := newLetterWorld()
	query := Factory.NewQuery()

	tests := []struct {
		name     string
		node     QueryNode
		expected []int
	}{
		{"A or B", query.Or(lw.a, lw.b), []int{0, 1, 2, 4}},
		{"not A", query.Not(lw.a), []int{1, 3}},
		{"not A and not B", query.Not(lw.a, lw.b), []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Factory.NewQueryIterator(lw.index).Where(tt.node)
			var expected []*Entity
			for _, i := range tt.expected {
				expected = append(expected, lw.e[i])
			}
			assertSame(t, collect(q), expected)
		})
	}
}

func TestQueryIteratorWithoutTypes(t *testing.T) {
	lw := newLetterWorld()
	lw.index.RemoveEntity(lw.e[1])
	q := Factory.NewQueryIterator(lw.index)
	assertSame(t, collect(q), []*Entity{lw.e[0], lw.e[2], lw.e[3], lw.e[4]})
}

func TestQueryIteratorReset(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	a := q.AddRequired(lw.a)

	assert.Assert(t, q.Next())
	assert.Assert(t, q.Next())
	q.Reset()
	assert.Equal(t, a.Index(), uint32(0))
	assert.Assert(t, q.Entity() == nil)
	assertSame(t, collect(q), []*Entity{lw.e[0], lw.e[2], lw.e[4]})
	assert.Equal(t, q.Count(), 3)
}

func TestQueryIteratorSkipsRemoved(t *testing.T) {
	lw := newLetterWorld()
	lw.e[2].Remove(lw.a)
	q := Factory.NewQueryIterator(lw.index)
	q.AddRequired(lw.a)
	assertSame(t, collect(q), []*Entity{lw.e[0], lw.e[4]})

	lw.index.Compact()
	q = Factory.NewQueryIterator(lw.index)
	q.AddRequired(lw.a)
	assertSame(t, collect(q), []*Entity{lw.e[0], lw.e[4]})
}

func TestRestrictedQueryIterator(t *testing.T) {
	t.Run("candidates in given order", func(t *testing.T) {
		lw := newLetterWorld()
		candidates := []*Entity{lw.e[4], lw.e[1], lw.e[0], lw.e[2]}
		q := Factory.NewRestrictedQueryIterator(lw.index, slices.Values(candidates))
		a := q.AddRequired(lw.a)
		assert.Assert(t, q.primary == nil)

		assert.Assert(t, q.Next())
		assert.Equal(t, q.Entity(), lw.e[4])
		assert.Equal(t, a.Canonical(), lw.e[4].Get(lw.a))
		assertSame(t, collect(q), []*Entity{lw.e[0], lw.e[2]})

		q.Reset()
		assertSame(t, collect(q), []*Entity{lw.e[4], lw.e[0], lw.e[2]})
	})

	t.Run("removed candidates are skipped", func(t *testing.T) {
		lw := newLetterWorld()
		candidates := []*Entity{lw.e[0], nil, lw.e[4]}
		q := Factory.NewRestrictedQueryIterator(lw.index, slices.Values(candidates))
		q.AddRequired(lw.a)
		lw.index.RemoveEntity(lw.e[0])
		assertSame(t, collect(q), []*Entity{lw.e[4]})
	})

	t.Run("foreign candidate", func(t *testing.T) {
		lw := newLetterWorld()
		foreign := newIndex().AddEntity()
		q := Factory.NewRestrictedQueryIterator(lw.index, slices.Values([]*Entity{foreign}))
		assertPanicsWith(t, ErrForeignHandle, func() {
			q.Next()
		})
	})
}

func TestQueryIteratorEntities(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	q.AddRequired(lw.a)

	var seen []*Entity
	for e := range q.Entities() {
		assert.Assert(t, lw.index.Locked())
		lw.index.EnqueueRemoveEntities(e)
		lw.index.EnqueueAddEntities(1, lw.c)
		seen = append(seen, e)
	}
	assert.Assert(t, !lw.index.Locked())
	assertSame(t, seen, []*Entity{lw.e[0], lw.e[2], lw.e[4]})
	assert.Assert(t, !lw.e[0].IsAlive())
	assert.Assert(t, !lw.e[2].IsAlive())
	assert.Assert(t, !lw.e[4].IsAlive())
	assert.Equal(t, lw.index.Store(lw.c).Len(), 3)

	for range q.Entities() {
		t.Fatal("no entity holds A any more")
	}
}

func TestQueryIteratorEntitiesBreak(t *testing.T) {
	lw := newLetterWorld()
	q := Factory.NewQueryIterator(lw.index)
	q.AddRequired(lw.a)
	lw.index.RemoveEntity(lw.e[1])
	for range q.Entities() {
		lw.index.Compact()
		assert.Equal(t, lw.e[2].Index(), uint32(3))
		break
	}
	assert.Assert(t, !lw.index.Locked())
	assert.Equal(t, lw.e[2].Index(), uint32(2))
	assert.Equal(t, lw.index.Cap(), 5)
}
