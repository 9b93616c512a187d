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
	components []ComponentID
}

type leafNode struct {
	components []ComponentID
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []ComponentID) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
}

func newLeafNode(components []ComponentID) *leafNode {
	return &leafNode{components: components}
}

// nodeMask builds the mask for components. complete is false when any of
// them is unregistered, which no table can contain.
func nodeMask(components []ComponentID, indexer ComponentIndexer) (m mask.Mask, complete bool) {
	complete = true
	for _, comp := range components {
		bit, ok := indexer.BitFor(comp)
		if !ok {
			complete = false
			continue
		}
		m.Mark(bit)
	}
	return m, complete
}

func (n *compositeNode) Evaluate(archetype Archetype, indexer ComponentIndexer) bool {
	want, complete := nodeMask(n.components, indexer)
	archeMask := archetype.Mask()

	switch n.op {
	case OpAnd:
		if !complete || !archeMask.ContainsAll(want) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype, indexer) {
				return false
			}
		}
		return true

	case OpOr:
		if archeMask.ContainsAny(want) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, indexer) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return archeMask.ContainsNone(want)
		}
		for _, child := range n.children {
			if child.Evaluate(archetype, indexer) {
				return false
			}
		}
		return !archeMask.ContainsAny(want)
	}
	return false
}

func (n *leafNode) Evaluate(archetype Archetype, indexer ComponentIndexer) bool {
	want, complete := nodeMask(n.components, indexer)
	if !complete {
		return false
	}
	return archetype.Mask().ContainsAll(want)
}

func (q *query) And(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpOr, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpNot, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) ([]ComponentID, []QueryNode) {
	components := make([]ComponentID, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case ComponentID:
			components = append(components, v)
		case []ComponentID:
			components = append(components, v...)
		case Component:
			components = append(components, v.Component())
		case Signature:
			components = append(components, v.ids...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, children
}

func (q *query) Evaluate(archetype Archetype, indexer ComponentIndexer) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype, indexer)
}
