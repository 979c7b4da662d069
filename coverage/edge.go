package coverage

import (
	"cmp"
	"fmt"
)

// Edge A directed transition between two table states over the inclusive code point range [Min, Max].
// Edges are compared by value, so two edges connecting the same states over the same range are the same
// edge regardless of which automaton transition produced them.
type Edge struct {
	From StateID
	To   StateID
	Min  int
	Max  int
}

// FailEdge Returns the edge from origin into Failure. FailEdge(Failure) is the failure self loop.
func FailEdge(origin StateID) Edge {
	return Edge{From: origin, To: Failure}
}

// IsFailEdge reports whether the edge leads into Failure, including the self loop.
func (e Edge) IsFailEdge() bool {
	return e.To.IsFailure()
}

// Width Number of code points in the edge range.
func (e Edge) Width() int {
	return e.Max - e.Min + 1
}

func (e Edge) Compare(other Edge) int {
	return cmp.Or(
		e.From.Compare(other.From),
		e.To.Compare(other.To),
		cmp.Compare(e.Min, other.Min),
		cmp.Compare(e.Max, other.Max),
	)
}

func (e Edge) String() string {
	if e.IsFailEdge() {
		return fmt.Sprintf("%s -> %s", e.From, e.To)
	}
	if e.Min == e.Max {
		return fmt.Sprintf("%s -[%U]-> %s", e.From, e.Min, e.To)
	}
	return fmt.Sprintf("%s -[%U-%U]-> %s", e.From, e.Min, e.Max, e.To)
}

// EdgePair Two edges taken back to back while scanning one string.
type EdgePair struct {
	Left  Edge
	Right Edge
}

func (p EdgePair) Compare(other EdgePair) int {
	return cmp.Or(p.Left.Compare(other.Left), p.Right.Compare(other.Right))
}

func (p EdgePair) String() string {
	return fmt.Sprintf("(%s, %s)", p.Left, p.Right)
}
