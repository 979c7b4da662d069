package suite

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/geange/regexcov/automaton"
	"github.com/geange/regexcov/coverage"
)

// ErrDFATooLarge The minimal automaton of a pattern has more states than the evaluator accepts.
var ErrDFATooLarge = errors.New("dfa too large")

const (
	DefaultMaxStates = 10000
	DefaultCacheSize = 200
)

// Evaluator Compiles patterns into coverage trackers and scores suites and reuse candidates with them.
// It is safe for concurrent use.
type Evaluator struct {
	logger    *slog.Logger
	workLimit int
	maxStates int
	threshold float64
	workers   int
	cacheSize int

	cache *AutomatonCache
	stats *Statistics
}

type Option func(*Evaluator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithWorkLimit Bounds the states each determinization may create.
func WithWorkLimit(workLimit int) Option {
	return func(e *Evaluator) {
		e.workLimit = workLimit
	}
}

// WithMaxStates Rejects minimal automata with more states, 0 disables the check.
func WithMaxStates(maxStates int) Option {
	return func(e *Evaluator) {
		e.maxStates = maxStates
	}
}

// WithAccuracyThreshold Fraction of suite strings a candidate must classify like the suite's pattern.
func WithAccuracyThreshold(threshold float64) Option {
	return func(e *Evaluator) {
		e.threshold = threshold
	}
}

func WithWorkers(workers int) Option {
	return func(e *Evaluator) {
		e.workers = workers
	}
}

func WithCacheSize(size int) Option {
	return func(e *Evaluator) {
		e.cacheSize = size
	}
}

func NewEvaluator(options ...Option) *Evaluator {
	e := &Evaluator{
		logger:    slog.Default().With(slog.String("component", "suite")),
		workLimit: automaton.DEFAULT_DETERMINIZE_WORK_LIMIT,
		maxStates: DefaultMaxStates,
		threshold: 1.0,
		cacheSize: DefaultCacheSize,
		stats:     &Statistics{},
	}
	for _, option := range options {
		option(e)
	}
	e.cache = NewAutomatonCache(e.cacheSize, e.compileAutomaton)
	return e
}

func (e *Evaluator) Statistics() *Statistics {
	return e.stats
}

func (e *Evaluator) compileAutomaton(pattern string) (*automaton.Automaton, error) {
	e.logger.Debug("compiling pattern", slog.String("pattern", pattern))

	re, err := automaton.NewRegExp(pattern)
	if err != nil {
		e.logger.Warn("bad pattern syntax", slog.String("pattern", pattern), slog.String("error", err.Error()))
		return nil, err
	}
	a, err := re.ToAutomaton(e.workLimit)
	if err != nil {
		e.logger.Warn("automaton construction failed", slog.String("pattern", pattern), slog.String("error", err.Error()))
		return nil, err
	}
	if e.maxStates > 0 && a.GetNumStates() > e.maxStates {
		err = fmt.Errorf("%w with %d states and %d transitions", ErrDFATooLarge, a.GetNumStates(), a.GetNumTransitions())
		e.logger.Warn("automaton too large", slog.String("pattern", pattern),
			slog.Int("states", a.GetNumStates()), slog.Int("transitions", a.GetNumTransitions()))
		return nil, err
	}
	return a, nil
}

// CompileCoverage Returns an empty coverage tracker for pattern. Compiled automata are cached, so
// compiling the same pattern again is cheap and a pattern that failed once fails again with the same
// error.
func (e *Evaluator) CompileCoverage(pattern string) (*coverage.AutomatonCoverage, error) {
	a, err := e.cache.GetOrCompile(pattern)
	if err != nil {
		return nil, err
	}
	return coverage.New(a)
}

// EvaluateSuite Measures how thoroughly the suite's strings cover its own pattern and counts the
// outcome in Statistics.
func (e *Evaluator) EvaluateSuite(ctx context.Context, s *TestSuite) (Result, error) {
	cov, err := e.CompileCoverage(s.Pattern)
	e.stats.record(err)
	if err != nil {
		return Result{SuiteID: s.ID}, err
	}
	if err := cov.EvaluateAll(ctx, s.Subjects(), e.workers); err != nil {
		return Result{SuiteID: s.ID}, err
	}

	result := NewResult(s.ID, cov.FullMatchSummary(), cov.PartialMatchSummary())
	e.logger.Debug("evaluated suite",
		slog.Int64("suite_id", s.ID),
		slog.Int("strings", len(s.Strings)),
		slog.Float64("full_match_edge_coverage", *result.FullEdgeCoverage))
	return result, nil
}

// Candidate A pattern proposed as a replacement for a suite's pattern.
type Candidate struct {
	ID      int64
	Pattern string
}

// CandidateResult Whether a candidate classifies the suite's strings like the suite's pattern does, per
// match mode.
type CandidateResult struct {
	Candidate
	FullMatch    Tristate
	PartialMatch Tristate
}

// EvaluateCandidate Checks c against every string of s. A mode is Undetermined when s lacks positive or
// negative strings for it.
func (e *Evaluator) EvaluateCandidate(s *TestSuite, c Candidate) (CandidateResult, error) {
	result := CandidateResult{Candidate: c}
	m, err := NewMatcher(c.Pattern)
	if err != nil {
		e.logger.Debug("skipping candidate", slog.Int64("candidate_id", c.ID), slog.String("error", err.Error()))
		return result, err
	}

	statuses := make([]*MatchStatus, len(s.Strings))
	status := func(i int) MatchStatus {
		if statuses[i] == nil {
			st := m.Status(s.Strings[i].Subject)
			statuses[i] = &st
		}
		return *statuses[i]
	}

	result.FullMatch = e.verdict(s, coverage.FullMatch, status)
	result.PartialMatch = e.verdict(s, coverage.PartialMatch, status)
	return result, nil
}

// verdict stops as soon as the threshold can no longer be reached.
func (e *Evaluator) verdict(s *TestSuite, mode coverage.MatchMode, status func(int) MatchStatus) Tristate {
	if !s.HasPositiveAndNegative(mode, 1) {
		return Undetermined
	}

	total := float64(len(s.Strings))
	correct := 0
	for i, str := range s.Strings {
		if status(i).Matches(mode) == str.Status.Matches(mode) {
			correct++
		}
		remaining := len(s.Strings) - i - 1
		if float64(correct+remaining)/total < e.threshold {
			return False
		}
	}
	return FromBool(float64(correct)/total >= e.threshold)
}

// RelativeCoverage Measures how thoroughly the suite's strings cover the candidate's automaton.
func (e *Evaluator) RelativeCoverage(ctx context.Context, s *TestSuite, c Candidate) (*coverage.AutomatonCoverage, error) {
	cov, err := e.CompileCoverage(c.Pattern)
	if err != nil {
		return nil, err
	}
	if err := cov.EvaluateAll(ctx, s.Subjects(), e.workers); err != nil {
		return nil, err
	}
	return cov, nil
}

// RankedCandidate A candidate with its relative coverage.
type RankedCandidate struct {
	Candidate
	FullMatch    coverage.Summary
	PartialMatch coverage.Summary
}

// RankCandidates Orders candidates by relative full match coverage: edge, then edge pair, then node
// coverage, all descending, ties by id. Candidates that fail to compile are left out.
func (e *Evaluator) RankCandidates(ctx context.Context, s *TestSuite, candidates []Candidate) ([]RankedCandidate, error) {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		cov, err := e.RelativeCoverage(ctx, s, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.logger.Debug("skipping candidate", slog.Int64("candidate_id", c.ID), slog.String("error", err.Error()))
			continue
		}
		ranked = append(ranked, RankedCandidate{
			Candidate:    c,
			FullMatch:    cov.FullMatchSummary(),
			PartialMatch: cov.PartialMatchSummary(),
		})
	}

	slices.SortFunc(ranked, func(a, b RankedCandidate) int {
		return cmp.Or(
			cmp.Compare(b.FullMatch.EdgeCoverage, a.FullMatch.EdgeCoverage),
			cmp.Compare(b.FullMatch.EdgePairCoverage, a.FullMatch.EdgePairCoverage),
			cmp.Compare(b.FullMatch.NodeCoverage, a.FullMatch.NodeCoverage),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return ranked, nil
}
