package suite

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/geange/regexcov/automaton"
)

// Statistics Counts suites by outcome. Safe for concurrent use.
type Statistics struct {
	total             atomic.Int64
	badSyntax         atomic.Int64
	dfaBudgetExceeded atomic.Int64
	tooLarge          atomic.Int64
}

// record counts one suite whose pattern compiled with err.
func (s *Statistics) record(err error) {
	s.total.Add(1)
	switch {
	case err == nil:
	case errors.Is(err, automaton.ErrDFABudgetExceeded):
		s.dfaBudgetExceeded.Add(1)
	case errors.Is(err, ErrDFATooLarge):
		s.tooLarge.Add(1)
	default:
		s.badSyntax.Add(1)
	}
}

func (s *Statistics) Total() int64 {
	return s.total.Load()
}

func (s *Statistics) BadSyntax() int64 {
	return s.badSyntax.Load()
}

func (s *Statistics) DFABudgetExceeded() int64 {
	return s.dfaBudgetExceeded.Load()
}

func (s *Statistics) TooLarge() int64 {
	return s.tooLarge.Load()
}

// Successful Suites whose pattern compiled to a usable automaton.
func (s *Statistics) Successful() int64 {
	return s.Total() - (s.BadSyntax() + s.DFABudgetExceeded() + s.TooLarge())
}

func (s *Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("total", s.Total()),
		slog.Int64("successful", s.Successful()),
		slog.Int64("bad_syntax", s.BadSyntax()),
		slog.Int64("dfa_budget_exceeded", s.DFABudgetExceeded()),
		slog.Int64("too_large", s.TooLarge()),
	)
}
