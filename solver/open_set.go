package solver

import (
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// entry is a heap record for a cell of the open set.
type entry struct {
	cell  maze.Cell
	f     float64 // f-score at the time of the push
	order uint64  // insertion order into the open set, breaks f ties
}

// less orders entries by f-score, then by insertion order.
func less(a, b entry) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.order < b.order
}

// openSet is the search frontier. Cells keep the insertion order they got
// when they entered the set, so a later f-score improvement does not move
// them behind cells that were discovered after them. Superseded heap entries
// are discarded when popped.
type openSet struct {
	heap    *heap.Heap[entry]
	members mapset.Set[maze.Cell]
	order   map[maze.Cell]uint64
	f       map[maze.Cell]float64
	next    uint64
}

func newOpenSet() *openSet {
	return &openSet{
		heap:    heap.New[entry](less),
		members: mapset.New[maze.Cell](),
		order:   make(map[maze.Cell]uint64),
		f:       make(map[maze.Cell]float64),
	}
}

// push adds c with score f, or updates its score if it is already open.
func (o *openSet) push(c maze.Cell, f float64) {
	if !o.members.Has(c) {
		o.members.Put(c)
		o.order[c] = o.next
		o.next++
	}
	o.f[c] = f
	o.heap.Push(entry{cell: c, f: f, order: o.order[c]})
}

// pop removes and returns the open cell with the lowest f-score.
func (o *openSet) pop() (maze.Cell, bool) {
	for {
		e, ok := o.heap.Pop()
		if !ok {
			return maze.Cell{}, false
		}
		if !o.members.Has(e.cell) || o.f[e.cell] != e.f {
			continue
		}
		o.members.Remove(e.cell)
		delete(o.order, e.cell)
		delete(o.f, e.cell)
		return e.cell, true
	}
}

func (o *openSet) has(c maze.Cell) bool {
	return o.members.Has(c)
}

func (o *openSet) len() int {
	return o.members.Size()
}
