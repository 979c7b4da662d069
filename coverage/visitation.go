package coverage

import (
	"maps"
	"slices"
)

// VisitationInfo Accumulates the states, edges (with the characters observed on each) and edge pairs a
// set of scans exercised. It only ever grows; FoldIn is a commutative, idempotent union.
//
// A VisitationInfo is not safe for concurrent mutation.
type VisitationInfo struct {
	nodes map[StateID]struct{}
	edges map[Edge]map[rune]struct{}
	pairs map[EdgePair]struct{}
}

func NewVisitationInfo() *VisitationInfo {
	return &VisitationInfo{
		nodes: make(map[StateID]struct{}),
		edges: make(map[Edge]map[rune]struct{}),
		pairs: make(map[EdgePair]struct{}),
	}
}

func (v *VisitationInfo) AddVisitedNode(id StateID) {
	v.nodes[id] = struct{}{}
}

// AddVisitedEdge Records that ch was consumed along e.
func (v *VisitationInfo) AddVisitedEdge(e Edge, ch rune) {
	chars, ok := v.edges[e]
	if !ok {
		chars = make(map[rune]struct{})
		v.edges[e] = chars
	}
	chars[ch] = struct{}{}
}

func (v *VisitationInfo) AddVisitedEdgePair(p EdgePair) {
	v.pairs[p] = struct{}{}
}

func (v *VisitationInfo) HasVisitedNode(id StateID) bool {
	_, ok := v.nodes[id]
	return ok
}

func (v *VisitationInfo) HasVisitedEdge(e Edge) bool {
	_, ok := v.edges[e]
	return ok
}

func (v *VisitationInfo) HasVisitedEdgePair(p EdgePair) bool {
	_, ok := v.pairs[p]
	return ok
}

func (v *VisitationInfo) NumVisitedNodes() int {
	return len(v.nodes)
}

func (v *VisitationInfo) NumVisitedEdges() int {
	return len(v.edges)
}

func (v *VisitationInfo) NumVisitedEdgePairs() int {
	return len(v.pairs)
}

// VisitedNodes Returns the visited states, Failure first.
func (v *VisitationInfo) VisitedNodes() []StateID {
	return slices.SortedFunc(maps.Keys(v.nodes), StateID.Compare)
}

// VisitedEdges Returns the visited edges in a stable order.
func (v *VisitationInfo) VisitedEdges() []Edge {
	return slices.SortedFunc(maps.Keys(v.edges), Edge.Compare)
}

// EdgeChars Returns the characters observed on e, ascending.
func (v *VisitationInfo) EdgeChars(e Edge) []rune {
	return slices.Sorted(maps.Keys(v.edges[e]))
}

func (v *VisitationInfo) VisitedEdgePairs() []EdgePair {
	return slices.SortedFunc(maps.Keys(v.pairs), EdgePair.Compare)
}

// FoldIn Merges other into v. other is left untouched and shares no memory with v afterwards.
func (v *VisitationInfo) FoldIn(other *VisitationInfo) {
	if other == nil || other == v {
		return
	}
	for id := range other.nodes {
		v.nodes[id] = struct{}{}
	}
	for e, chars := range other.edges {
		for ch := range chars {
			v.AddVisitedEdge(e, ch)
		}
	}
	for p := range other.pairs {
		v.pairs[p] = struct{}{}
	}
}

func (v *VisitationInfo) Clone() *VisitationInfo {
	c := NewVisitationInfo()
	c.FoldIn(v)
	return c
}

func (v *VisitationInfo) Equal(other *VisitationInfo) bool {
	if v == nil || other == nil {
		return v == other
	}
	return maps.Equal(v.nodes, other.nodes) &&
		maps.Equal(v.pairs, other.pairs) &&
		maps.EqualFunc(v.edges, other.edges, func(a, b map[rune]struct{}) bool {
			return maps.Equal(a, b)
		})
}

// Summary A snapshot of coverage ratios, each in [0, 1].
type Summary struct {
	NodeCoverage     float64
	EdgeCoverage     float64
	EdgePairCoverage float64
}
