package depot

import (
	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []*ComponentType

	// mask of components, valid for maskRegistry
	maskRegistry *Registry
	nodeMask     mask.Mask
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []*ComponentType) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
}

func (n *compositeNode) maskFor(registry *Registry) mask.Mask {
	if n.maskRegistry == registry {
		return n.nodeMask
	}
	var nodeMask mask.Mask
	for _, ct := range n.components {
		nodeMask.Mark(registry.row(ct))
	}
	n.maskRegistry = registry
	n.nodeMask = nodeMask
	return nodeMask
}

func (n *compositeNode) Evaluate(entityMask mask.Mask, registry *Registry) bool {
	nodeMask := n.maskFor(registry)

	switch n.op {
	case OpAnd:
		if !entityMask.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(entityMask, registry) {
				return false
			}
		}
		return true

	case OpOr:
		if len(n.components) > 0 && entityMask.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(entityMask, registry) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(entityMask, registry) {
				return false
			}
		}
		if len(n.components) == 0 {
			return true
		}
		return entityMask.ContainsNone(nodeMask)
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items)
}

func (q *query) node(op Operation, items []interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(op, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) ([]*ComponentType, []QueryNode) {
	components := make([]*ComponentType, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case *ComponentType:
			components = append(components, v)
		case []*ComponentType:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		default:
			fatal(ErrArgument, "unsupported query item %T", item)
		}
	}

	return components, children
}

func (q *query) Evaluate(entityMask mask.Mask, registry *Registry) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(entityMask, registry)
}
