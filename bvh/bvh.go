// Package bvh builds a bounding volume hierarchy over the triangles of a mesh collider.
// The tree lives in the mesh's local space and is never rebuilt: callers bring their query
// boxes into local space instead.
package bvh

import (
	"sort"

	"github.com/akmonengine/tether/geometry"
)

// MaxTrianglesPerLeaf is the split threshold used by Build.
const MaxTrianglesPerLeaf = 4

// maxDepth stops the recursion on pathological inputs (many triangles sharing a centroid).
const maxDepth = 32

// Node is either a leaf holding triangle indices or an inner node with two children.
type Node struct {
	Bounds    geometry.AABB
	Left      *Node
	Right     *Node
	Triangles []int
}

// Build constructs the hierarchy over triangles, splitting each node at the median centroid
// along the largest extent of its bounds. It returns nil for an empty mesh.
func Build(triangles []geometry.Triangle) *Node {
	if len(triangles) == 0 {
		return nil
	}

	indices := make([]int, len(triangles))
	for i := range indices {
		indices[i] = i
	}

	return buildNode(triangles, indices, 0)
}

func buildNode(triangles []geometry.Triangle, indices []int, depth int) *Node {
	node := &Node{Bounds: triangles[indices[0]].Bounds()}
	for _, idx := range indices[1:] {
		node.Bounds = node.Bounds.Union(triangles[idx].Bounds())
	}

	if len(indices) <= MaxTrianglesPerLeaf || depth >= maxDepth {
		node.Triangles = indices
		return node
	}

	axis := node.Bounds.MaxExtentAxis()
	sort.SliceStable(indices, func(i, j int) bool {
		return triangles[indices[i]].Centroid()[axis] < triangles[indices[j]].Centroid()[axis]
	})

	mid := len(indices) / 2
	node.Left = buildNode(triangles, indices[:mid], depth+1)
	node.Right = buildNode(triangles, indices[mid:], depth+1)

	return node
}

// IsLeaf reports whether the node holds triangles directly.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Query appends to out the triangle indices of every leaf whose bounds overlap box.
// The result can contain triangles that do not overlap box themselves, but never misses one that does.
func (n *Node) Query(box geometry.AABB, out []int) []int {
	if n == nil || !n.Bounds.Overlaps(box) {
		return out
	}

	if n.IsLeaf() {
		return append(out, n.Triangles...)
	}

	out = n.Left.Query(box, out)
	return n.Right.Query(box, out)
}

// Count returns the number of triangle indices stored under n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return len(n.Triangles)
	}
	return n.Left.Count() + n.Right.Count()
}

// Depth returns the height of the tree rooted at n.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	l, r := n.Left.Depth(), n.Right.Depth()
	if l > r {
		return l + 1
	}
	return r + 1
}
