package ledger

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/colchain/colchain/errors"
	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
)

// Tree is the fork tree of a ledger table, rooted at the null sentinel.
// Entries whose predecessor has not been seen yet are buffered as orphans
// and attached once the predecessor arrives.
type Tree struct {
	nodes       []treeNode
	index       map[uuid.UUID]int
	orphans     map[uuid.UUID][]uuid.UUID
	orphanCount int
}

type treeNode struct {
	id       uuid.UUID
	parent   int
	children []int
}

func NewTree(root uuid.UUID) *Tree {
	t := &Tree{
		nodes:   []treeNode{{id: root, parent: -1}},
		index:   map[uuid.UUID]int{root: 0},
		orphans: make(map[uuid.UUID][]uuid.UUID),
	}

	return t
}

// BuildTree constructs the fork tree from a full table scan. The scan order
// is arbitrary, so orphans are resolved to a fixpoint afterwards.
func BuildTree(root uuid.UUID, entries []*model.LedgerEntry) (*Tree, error) {
	t := NewTree(root)

	for _, entry := range entries {
		t.Attach(entry.ID, entry.Predecessor)
	}

	if err := t.ResolveOrphans(); err != nil {
		return nil, err
	}

	return t, nil
}

// Attach adds child below predecessor. When the predecessor is not in the
// tree yet the child is buffered as an orphan and false is returned.
func (t *Tree) Attach(child, predecessor uuid.UUID) bool {
	parentIdx, ok := t.index[predecessor]
	if !ok {
		t.orphans[predecessor] = append(t.orphans[predecessor], child)
		t.orphanCount++

		return false
	}

	if _, exists := t.index[child]; exists {
		return true
	}

	idx := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{id: child, parent: parentIdx})
	t.nodes[parentIdx].children = append(t.nodes[parentIdx].children, idx)
	t.index[child] = idx

	return true
}

func (t *Tree) HasOrphans() bool {
	return t.orphanCount > 0
}

// ResolveOrphans attaches buffered orphans until none remain. Every pass
// must attach at least one orphan, otherwise some entry references a
// predecessor that does not exist and the table is corrupt.
func (t *Tree) ResolveOrphans() error {
	for t.orphanCount > 0 {
		fixed := 0

		for predecessor, children := range t.orphans {
			if _, ok := t.index[predecessor]; !ok {
				continue
			}

			delete(t.orphans, predecessor)

			for _, child := range children {
				t.Attach(child, predecessor)
				fixed++
				t.orphanCount--
			}
		}

		if fixed == 0 {
			return errors.NewOrphanResolutionStalledError("%d entries reference unknown predecessors", t.orphanCount)
		}
	}

	return nil
}

func (t *Tree) Size() int {
	return len(t.nodes)
}

func (t *Tree) Contains(id uuid.UUID) bool {
	_, ok := t.index[id]
	return ok
}

// Depth returns the distance of id from the root, or -1 when id is not in
// the tree. The root has depth 0.
func (t *Tree) Depth(id uuid.UUID) int {
	idx, ok := t.index[id]
	if !ok {
		return -1
	}

	depth := 0
	for t.nodes[idx].parent != -1 {
		idx = t.nodes[idx].parent
		depth++
	}

	return depth
}

// Leaves returns the id of every node without children.
func (t *Tree) Leaves() []uuid.UUID {
	var leaves []uuid.UUID

	for _, node := range t.nodes {
		if len(node.children) == 0 {
			leaves = append(leaves, node.id)
		}
	}

	return leaves
}

// DeepestLeaf returns the leaf furthest from the root. When several forks
// are equally long the leaf with the smallest id wins, so every node picks
// the same branch.
func (t *Tree) DeepestLeaf() uuid.UUID {
	best := t.nodes[0].id
	bestDepth := 0

	for _, leaf := range t.Leaves() {
		depth := t.Depth(leaf)

		if depth > bestDepth || (depth == bestDepth && bytes.Compare(leaf[:], best[:]) < 0) {
			best = leaf
			bestDepth = depth
		}
	}

	return best
}

// PathToRoot returns the ids from id up to and including the root.
func (t *Tree) PathToRoot(id uuid.UUID) []uuid.UUID {
	idx, ok := t.index[id]
	if !ok {
		return nil
	}

	var path []uuid.UUID

	for idx != -1 {
		path = append(path, t.nodes[idx].id)
		idx = t.nodes[idx].parent
	}

	return path
}

// CanonicalPath returns the ids from the root down to the deepest leaf.
func (t *Tree) CanonicalPath() []uuid.UUID {
	path := t.PathToRoot(t.DeepestLeaf())

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// String renders the tree one node per line, indented by depth.
func (t *Tree) String() string {
	var b strings.Builder

	t.write(&b, 0, 0)

	if t.orphanCount > 0 {
		fmt.Fprintf(&b, "orphans: %d\n", t.orphanCount)
	}

	return b.String()
}

func (t *Tree) write(b *strings.Builder, idx, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(model.RenderValue(t.nodes[idx].id[:]))
	b.WriteString("\n")

	for _, child := range t.nodes[idx].children {
		t.write(b, child, depth+1)
	}
}
