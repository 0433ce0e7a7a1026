package search

import (
	"container/heap"
	"fmt"
	"math"
)

// Discipline selects the order in which a Frontier releases nodes.
type Discipline int

const (
	FIFO Discipline = iota
	LIFO
	Priority
)

func (d Discipline) String() string {
	switch d {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case Priority:
		return "priority"
	default:
		return fmt.Sprintf("discipline(%d)", int(d))
	}
}

// Frontier holds nodes that are generated but not yet expanded.
type Frontier interface {
	Push(n *Node)
	// Pop removes the next node. It returns nil when the frontier is empty.
	Pop() *Node
	Len() int
}

// NewFrontier returns an empty frontier for the discipline.
func NewFrontier(d Discipline) Frontier {
	switch d {
	case LIFO:
		return &stack{}
	case Priority:
		return &priorityQueue{}
	default:
		return &queue{}
	}
}

type queue struct {
	items []*Node
	head  int
}

func (q *queue) Push(n *Node) { q.items = append(q.items, n) }

func (q *queue) Pop() *Node {
	if q.head == len(q.items) {
		return nil
	}
	n := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	// reclaim the consumed prefix once it dominates the slice
	if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append([]*Node(nil), q.items[q.head:]...)
		q.head = 0
	}
	return n
}

func (q *queue) Len() int { return len(q.items) - q.head }

type stack struct {
	items []*Node
}

func (s *stack) Push(n *Node) { s.items = append(s.items, n) }

func (s *stack) Pop() *Node {
	if len(s.items) == 0 {
		return nil
	}
	last := len(s.items) - 1
	n := s.items[last]
	s.items[last] = nil
	s.items = s.items[:last]
	return n
}

func (s *stack) Len() int { return len(s.items) }

// nodeHeap implements heap.Interface ordered by (Priority, Seq).
// NaN priorities sort after every number, among themselves by Seq.
type nodeHeap []*Node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	pi, pj := h[i].Priority, h[j].Priority
	ni, nj := math.IsNaN(pi), math.IsNaN(pj)
	switch {
	case ni && nj:
	case ni:
		return false
	case nj:
		return true
	case pi != pj:
		return pi < pj
	}
	return h[i].Seq < h[j].Seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*Node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

type priorityQueue struct {
	h nodeHeap
}

func (p *priorityQueue) Push(n *Node) { heap.Push(&p.h, n) }

func (p *priorityQueue) Pop() *Node {
	if len(p.h) == 0 {
		return nil
	}
	return heap.Pop(&p.h).(*Node)
}

func (p *priorityQueue) Len() int { return len(p.h) }
