package depot

import (
	"github.com/TheBitDrifter/mask"
)

// Column is the type-erased view of the packed storage backing one property of one
// component type. Indices are component indices; index 0 is the sentinel slot.
type Column interface {
	Cap() int
	SetDefault(i uint32)
	Resize(capacity int)
	Swap(i, j uint32)
	CloneFrom(src Column, srcIndex, dstIndex uint32)
}

// PropertyDecl is one entry of a component type descriptor: a name and a way to build its column
type PropertyDecl interface {
	Name() string
	newColumn() Column
	bind(owner *ComponentType, slot int)
}

// Ownable is anything that can own or be owned: *Entity and *Component
type Ownable interface {
	IsAlive() bool
	Owner() Ownable
	SetOwner(Ownable)
	ownerRef() ownerRef
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

// QueryNode filters entities by the set of component types they hold
type QueryNode interface {
	Evaluate(entityMask mask.Mask, registry *Registry) bool
}

type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
	Len() int
}
