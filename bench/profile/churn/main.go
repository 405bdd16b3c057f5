// Profiling:
// go build ./profile/churn
// go tool pprof -http=":8000" -nodefraction=0.001 ./churn mem.pprof

package main

import (
	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/table"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

// run adds a batch of entities, walks them, removes them all and compacts, every iteration
func run(rounds, iters, numEntities int) {
	for range rounds {
		first := depot.NewProperty("first", comp1{})
		second := depot.NewProperty("second", comp2{})
		c1 := depot.FactoryNewComponentType[comp1]("comp1", first)
		c2 := depot.FactoryNewComponentType[comp2]("comp2", second)
		index := depot.Factory.NewEntityIndex(depot.Factory.NewRegistry(table.Factory.NewSchema()))

		query := depot.Factory.NewQueryIterator(index)
		h1 := query.AddRequired(c1)
		h2 := query.AddRequired(c2)
		for range iters {
			index.EnqueueAddEntities(numEntities, c1, c2)
			for e := range query.Entities() {
				v1 := first.Ref(h1)
				v2 := second.Ref(h2)
				v1.V += v2.V
				v1.W += v2.W
				index.EnqueueRemoveEntities(e)
			}
			index.Compact()
		}
	}
}
