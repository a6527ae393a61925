// Package bhtree builds and traverses the Barnes-Hut tree of a
// Morton-sorted particle array.
//
// The tree is built bottom-up, one quadtree level at a time, with no
// recursive insert. Nodes live in a contiguous arena owned by the Tree and
// reference particles by index range, so the particle slice may be
// reallocated between steps. The node links form a left-child right-sibling
// forest under a single root.
package bhtree

import "github.com/san-kum/grav2d/internal/body"

// none marks an absent child or sibling link.
const none int32 = -1

// PrefixFunc yields a particle's Morton code under the given mask. The
// second result is false for particles without a representable code.
type PrefixFunc func(p *body.Particle, mask uint64) (uint64, bool)

// Node covers the particles in [First, Last) of the sorted array. Child and
// Sibling index into the owning tree's arena.
type Node struct {
	First, Last    int32
	Child, Sibling int32
	Agg            Aggregate
}

// Len returns the number of particles under the node.
func (n *Node) Len() int { return int(n.Last - n.First) }

// Tree owns its node arena for the duration of one simulation step.
type Tree struct {
	nodes []Node
	root  int32
}

// Len returns the number of nodes, the root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root node, which spans the whole particle range.
func (t *Tree) Root() *Node { return &t.nodes[t.root] }

func (t *Tree) alloc(n Node) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// Build constructs the tree over a Morton-sorted particle slice. A nil tree
// is returned for an empty slice. Particles without a code are grouped into
// a single prefix class and contribute to aggregates like any others.
func Build(particles []body.Particle, prefix PrefixFunc) *Tree {
	n := int32(len(particles))
	if n == 0 {
		return nil
	}
	t := &Tree{}
	if n == 1 {
		t.root = t.alloc(Node{
			First: 0, Last: 1,
			Child: none, Sibling: none,
			Agg: NewAggregate(particles),
		})
		return t
	}

	// Lift: one leaf per particle, sibling-linked in array order.
	t.nodes = make([]Node, 0, 2*n)
	layer := make([]int32, n)
	for i := int32(0); i < n; i++ {
		sib := i + 1
		if sib == n {
			sib = none
		}
		layer[i] = t.alloc(Node{
			First: i, Last: i + 1,
			Child: none, Sibling: sib,
			Agg: NewAggregate(particles[i : i+1]),
		})
	}

	// Coarsen and merge, two prefix bits per pass.
	next := make([]int32, 0, n/2)
	initMask := ^uint64(0)
	initMask <<= 2
	for mask := initMask; mask != 0; mask <<= 2 {
		next = next[:0]
		// Run in progress: earliest and latest group, the run's first
		// particle, and the accumulated aggregate.
		g0, g1 := layer[0], layer[0]
		first := t.nodes[g0].First
		agg := t.nodes[g0].Agg
		z0, ok0 := prefix(&particles[first], mask)
		for _, g := range layer[1:] {
			z1, ok1 := prefix(&particles[t.nodes[g].First], mask)
			if ok0 == ok1 && (!ok0 || z0 == z1) {
				// Same prefix: absorb into the run.
				g1 = g
				child := t.nodes[g].Agg
				agg.Merge(&child)
				continue
			}
			next = append(next, t.emit(first, g0, g1, agg))
			g0, g1 = g, g
			first = t.nodes[g].First
			agg = t.nodes[g].Agg
			z0, ok0 = z1, ok1
		}
		// Runoff.
		next = append(next, t.emit(first, g0, g1, agg))

		for i := 0; i < len(next)-1; i++ {
			t.nodes[next[i]].Sibling = next[i+1]
		}
		t.nodes[next[len(next)-1]].Sibling = none
		layer = append(layer[:0], next...)
	}

	// Root spans everything; its child chain enumerates the top-level
	// prefix classes.
	rootAgg := t.nodes[layer[0]].Agg
	for _, g := range layer[1:] {
		child := t.nodes[g].Agg
		rootAgg.Merge(&child)
	}
	t.root = t.alloc(Node{
		First: 0, Last: n,
		Child: layer[0], Sibling: none,
		Agg: rootAgg,
	})
	return t
}

// emit closes a run. A run of one group is reused as-is so that single-child
// chains collapse; otherwise a fresh parent adopts the run and the absorbed
// sibling chain is severed at its last node.
func (t *Tree) emit(first, g0, g1 int32, agg Aggregate) int32 {
	if g0 == g1 {
		return g0
	}
	idx := t.alloc(Node{
		First: first, Last: t.nodes[g1].Last,
		Child: g0, Sibling: none,
		Agg: agg,
	})
	t.nodes[g1].Sibling = none
	return idx
}
