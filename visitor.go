package collision

// Visitor prunes a tree traversal. Accept is called per node; a false second
// return skips the node and its entire subtree.
type Visitor[T any] interface {
	Accept(node NodeIndex, tree *CollisionTree) (T, bool)
}

// TreeQuery traverses the tree depth-first, yielding the visitor's output
// for each accepted node. It is a lazy, one-shot iterator; mutation of the
// tree invalidates it.
type TreeQuery[T any] struct {
	tree    *CollisionTree
	visitor Visitor[T]
	stack   []NodeIndex
}

// Query starts a pruned traversal from the root.
func Query[T any](tree *CollisionTree, visitor Visitor[T]) *TreeQuery[T] {
	return &TreeQuery[T]{
		tree:    tree,
		visitor: visitor,
		stack:   []NodeIndex{tree.root},
	}
}

// Next returns the next accepted node's output, or false when the traversal
// is exhausted.
func (q *TreeQuery[T]) Next() (T, bool) {
	for len(q.stack) > 0 {
		current := q.stack[len(q.stack)-1]
		q.stack = q.stack[:len(q.stack)-1]

		output, ok := q.visitor.Accept(current, q.tree)
		if !ok {
			continue
		}

		n := q.tree.node(current)
		if !n.leaf() {
			q.stack = append(q.stack, n.children[0], n.children[1])
		}

		return output, true
	}

	var zero T
	return zero, false
}
