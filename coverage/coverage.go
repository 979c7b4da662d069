package coverage

import (
	"slices"

	"github.com/geange/regexcov/automaton"
)

// MatchMode Selects how a scan treats a character with no transition.
type MatchMode int

const (
	// FullMatch The whole string must be accepted; the scan stops at the first failure.
	FullMatch MatchMode = iota

	// PartialMatch Search semantics, approximated by restarting from the initial state once after each
	// failure. Independent retries at every offset are not modelled.
	PartialMatch
)

func (m MatchMode) String() string {
	switch m {
	case FullMatch:
		return "full"
	case PartialMatch:
		return "partial"
	}
	return "unknown"
}

// AutomatonCoverage Measures how thoroughly example strings exercise a deterministic automaton. It owns
// a TransitionTable and one accumulator per MatchMode.
//
// Evaluate mutates the accumulators and must not be called concurrently on one instance. EvaluateString
// is pure and may be called from any number of goroutines.
type AutomatonCoverage struct {
	table        *TransitionTable
	fullMatch    *VisitationInfo
	partialMatch *VisitationInfo
}

// New Builds the transition table of a, which must be deterministic.
func New(a *automaton.Automaton) (*AutomatonCoverage, error) {
	table, err := NewTransitionTable(a)
	if err != nil {
		return nil, err
	}
	return NewWithTable(table), nil
}

// NewWithTable Starts empty accumulators over an existing table, which may be shared.
func NewWithTable(table *TransitionTable) *AutomatonCoverage {
	return &AutomatonCoverage{
		table:        table,
		fullMatch:    NewVisitationInfo(),
		partialMatch: NewVisitationInfo(),
	}
}

func (c *AutomatonCoverage) TransitionTable() *TransitionTable {
	return c.table
}

// Evaluate Scans subject in both modes and folds the results into the accumulators.
func (c *AutomatonCoverage) Evaluate(subject string) {
	c.fullMatch.FoldIn(c.EvaluateString(subject, FullMatch))
	c.partialMatch.FoldIn(c.EvaluateString(subject, PartialMatch))
}

// EvaluateString Scans input once, code point by code point, and returns what it visited.
func (c *AutomatonCoverage) EvaluateString(input string, mode MatchMode) *VisitationInfo {
	info := NewVisitationInfo()

	initial := c.table.InitialState()
	cursor := initial
	info.AddVisitedNode(cursor)

	var previous Edge
	hasPrevious := false

	chars := []rune(input)
	for pos, ch := range chars {
		n, _ := cursor.Num()
		tr, ok := c.table.transition(n, ch)
		if !ok {
			info.AddVisitedNode(Failure)
			failEdge := FailEdge(cursor)
			info.AddVisitedEdge(failEdge, ch)
			if hasPrevious {
				info.AddVisitedEdgePair(EdgePair{Left: previous, Right: failEdge})
			}

			if mode == FullMatch {
				// once rejected, stay rejected
				if pos+1 < len(chars) {
					selfLoop := FailEdge(Failure)
					info.AddVisitedEdge(selfLoop, ch)
					info.AddVisitedEdgePair(EdgePair{Left: failEdge, Right: selfLoop})
				}
				break
			}

			cursor = initial
			hasPrevious = false
			continue
		}

		next := State(tr.Dest)
		info.AddVisitedNode(next)
		taken := Edge{From: cursor, To: next, Min: tr.Min, Max: tr.Max}
		info.AddVisitedEdge(taken, ch)
		if hasPrevious {
			info.AddVisitedEdgePair(EdgePair{Left: previous, Right: taken})
		}
		previous, hasPrevious = taken, true
		cursor = next
	}

	return info
}

func (c *AutomatonCoverage) FullMatchVisitationInfo() *VisitationInfo {
	return c.fullMatch
}

func (c *AutomatonCoverage) PartialMatchVisitationInfo() *VisitationInfo {
	return c.partialMatch
}

func (c *AutomatonCoverage) FullMatchSummary() Summary {
	return c.Summarize(c.fullMatch)
}

func (c *AutomatonCoverage) PartialMatchSummary() Summary {
	return c.Summarize(c.partialMatch)
}

// Summarize Computes coverage ratios of info against the table:
//
//	node      = visited states / (live states + 1)
//	edge      = sum of edge fractions / (transitions + one fail edge per state + 1)
//	edge pair = visited pairs / possible pairs
//
// The +1 terms account for Failure and its self loop.
func (c *AutomatonCoverage) Summarize(info *VisitationInfo) Summary {
	visitedNodes := 0
	for id := range info.nodes {
		if c.table.countsForNodeCoverage(id) {
			visitedNodes++
		}
	}

	// summed in a fixed order so results are reproducible to the last bit
	edgeAmount := 0.0
	for _, e := range info.VisitedEdges() {
		edgeAmount += edgeFraction(e, len(info.edges[e]))
	}

	return Summary{
		NodeCoverage:     ratio(float64(visitedNodes), float64(c.table.numCountableStates()+1)),
		EdgeCoverage:     ratio(edgeAmount, float64(c.table.CountTotalTransitions()+c.table.NumStates()+1)),
		EdgePairCoverage: ratio(float64(info.NumVisitedEdgePairs()), float64(c.table.CountPossibleEdgePairs())),
	}
}

// edgeFraction Edges touching Failure are fully covered once visited; the reject alphabet has no
// meaningful size.
func edgeFraction(e Edge, distinctChars int) float64 {
	if e.From.IsFailure() || e.To.IsFailure() {
		return 1
	}
	return float64(distinctChars) / float64(e.Width())
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// MissingFullMatchEdgePairs Returns the possible edge pairs no full match scan has recorded yet.
func (c *AutomatonCoverage) MissingFullMatchEdgePairs() []EdgePair {
	return slices.DeleteFunc(c.table.PossibleEdgePairs(), c.fullMatch.HasVisitedEdgePair)
}
