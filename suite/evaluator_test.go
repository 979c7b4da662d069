package suite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geange/regexcov/automaton"
)

func quietLogger() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEvaluator_CompileCoverage(t *testing.T) {
	var buf bytes.Buffer
	e := NewEvaluator(
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithWorkLimit(100),
		WithMaxStates(4),
	)

	cov, err := e.CompileCoverage("a(b|c)d")
	require.NoError(t, err)
	assert.Equal(t, 4, cov.TransitionTable().NumStates())
	assert.Contains(t, buf.String(), "compiling pattern")

	_, err = e.CompileCoverage("(a")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "bad pattern syntax")

	_, err = e.CompileCoverage("(a|b)*a(a|b){10}")
	assert.ErrorIs(t, err, automaton.ErrDFABudgetExceeded)
	assert.Contains(t, buf.String(), "automaton construction failed")

	_, err = e.CompileCoverage("abcd")
	assert.ErrorIs(t, err, ErrDFATooLarge)
	assert.EqualError(t, err, "dfa too large with 5 states and 4 transitions")

	// every call gets its own accumulators
	again, err := e.CompileCoverage("a(b|c)d")
	require.NoError(t, err)
	cov.Evaluate("abd")
	assert.Zero(t, again.FullMatchVisitationInfo().NumVisitedNodes())
}

func TestEvaluator_EvaluateSuite(t *testing.T) {
	e := NewEvaluator(quietLogger(), WithWorkLimit(100), WithMaxStates(4), WithWorkers(2))
	ctx := context.Background()

	s, err := NewTestSuite(1, "a(b|c)d", "abd", "b", "ae", "abe", "acd", "abde", "abdee")
	require.NoError(t, err)
	result, err := e.EvaluateSuite(ctx, s)
	require.NoError(t, err)
	require.True(t, result.Computed())
	assert.Equal(t, int64(1), result.SuiteID)
	assert.Equal(t, 1.0, *result.FullNodeCoverage)
	assert.Equal(t, 1.0, *result.FullEdgeCoverage)

	for i, pattern := range []string{"(a", "(a|b)*a(a|b){10}", "abcd"} {
		result, err := e.EvaluateSuite(ctx, &TestSuite{ID: int64(i + 2), Pattern: pattern})
		assert.Error(t, err)
		assert.Equal(t, int64(i+2), result.SuiteID)
		assert.False(t, result.Computed())
	}

	stats := e.Statistics()
	assert.Equal(t, int64(4), stats.Total())
	assert.Equal(t, int64(1), stats.BadSyntax())
	assert.Equal(t, int64(1), stats.DFABudgetExceeded())
	assert.Equal(t, int64(1), stats.TooLarge())
	assert.Equal(t, int64(1), stats.Successful())

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.EvaluateSuite(ctx, s)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEvaluator_EvaluateCandidate(t *testing.T) {
	s, err := NewTestSuite(1, `[0-9]+`, "1", "42", "x", "4a")
	require.NoError(t, err)

	tests := []struct {
		name      string
		pattern   string
		threshold float64
		full      Tristate
		partial   Tristate
	}{
		{"equivalent", `\d+`, 1, True, True},
		{"single digit", `[0-9]`, 1, False, True},
		{"single digit with lower threshold", `[0-9]`, 0.75, True, True},
		{"letters", `[a-z]+`, 1, False, False},
		{"letters with lowest threshold", `[a-z]+`, 0, True, True},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(quietLogger(), WithAccuracyThreshold(tt.threshold))
			result, err := e.EvaluateCandidate(s, Candidate{ID: 10, Pattern: tt.pattern})
			require.NoError(t, err)
			assert.Equal(t, int64(10), result.ID)
			assert.Equal(t, tt.full, result.FullMatch, "full match")
			assert.Equal(t, tt.partial, result.PartialMatch, "partial match")
		})
	}

	t.Run("undetermined", func(t *testing.T) {
		onlyPositive, err := NewTestSuite(2, `[0-9]+`, "1", "2")
		require.NoError(t, err)
		result, err := NewEvaluator(quietLogger()).EvaluateCandidate(onlyPositive, Candidate{ID: 11, Pattern: `\d`})
		require.NoError(t, err)
		assert.Equal(t, Undetermined, result.FullMatch)
		assert.Equal(t, Undetermined, result.PartialMatch)
	})

	t.Run("bad candidate", func(t *testing.T) {
		_, err := NewEvaluator(quietLogger()).EvaluateCandidate(s, Candidate{ID: 12, Pattern: `(`})
		assert.Error(t, err)
	})
}

func TestEvaluator_RankCandidates(t *testing.T) {
	e := NewEvaluator(quietLogger())
	s, err := NewTestSuite(1, "a(b|c)d", "abd")
	require.NoError(t, err)

	candidates := []Candidate{
		{ID: 1, Pattern: "a(b|c)d"},
		{ID: 2, Pattern: "abd"},
		{ID: 3, Pattern: "(a"},
		{ID: 4, Pattern: "x"},
		{ID: 5, Pattern: "abd"},
	}
	ranked, err := e.RankCandidates(context.Background(), s, candidates)
	require.NoError(t, err)

	ids := make([]int64, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{4, 2, 5, 1}, ids)

	// two fail edges out of four edges
	assert.Equal(t, 0.5, ranked[0].FullMatch.EdgeCoverage)
	assert.Equal(t, 3/8.0, ranked[1].FullMatch.EdgeCoverage)
	assert.Equal(t, 2.5/8, ranked[3].FullMatch.EdgeCoverage)

	cov, err := e.RelativeCoverage(context.Background(), s, candidates[1])
	require.NoError(t, err)
	assert.Equal(t, ranked[1].FullMatch, cov.FullMatchSummary())
	assert.Equal(t, ranked[1].PartialMatch, cov.PartialMatchSummary())

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.RankCandidates(ctx, s, candidates)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStatistics(t *testing.T) {
	var stats Statistics
	stats.record(nil)
	stats.record(nil)
	stats.record(fmt.Errorf("wrapped: %w", automaton.ErrDFABudgetExceeded))
	stats.record(fmt.Errorf("%w with 1 states and 0 transitions", ErrDFATooLarge))
	stats.record(errors.New("expected ')' at position 2"))

	assert.Equal(t, int64(5), stats.Total())
	assert.Equal(t, int64(2), stats.Successful())
	assert.Equal(t, int64(1), stats.BadSyntax())
	assert.Equal(t, int64(1), stats.DFABudgetExceeded())
	assert.Equal(t, int64(1), stats.TooLarge())

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("statistics", slog.Any("suites", &stats))
	assert.Contains(t, buf.String(), "suites.total=5")
	assert.Contains(t, buf.String(), "suites.successful=2")
}
