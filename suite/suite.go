package suite

import (
	"fmt"

	"github.com/coregx/coregex"

	"github.com/geange/regexcov/coverage"
)

// MatchStatus How a pattern treats one subject. Start and End are the byte offsets of the leftmost match,
// or -1 when there is none.
type MatchStatus struct {
	FullMatch    bool
	PartialMatch bool
	Start        int
	End          int
}

// Matches reports whether the subject counts as positive in mode.
func (m MatchStatus) Matches(mode coverage.MatchMode) bool {
	if mode == coverage.FullMatch {
		return m.FullMatch
	}
	return m.PartialMatch
}

// Matcher Decides full and partial matches of a pattern with a backtracking-free engine, so a hostile
// pattern cannot stall an evaluation.
//
// The engine reads RE2 syntax. The PCRE-only named group (?'name'...), atomic groups and possessive
// quantifiers are rewritten to their plain RE2 forms first, matching how the automaton reads them.
// Constructs neither side supports, such as backreferences and lookaround, are rejected, and so are
// \Z and \G, which the automaton reads as empty anchors.
type Matcher struct {
	pattern string
	search  *coregex.Regex
	whole   *coregex.Regex
}

func NewMatcher(pattern string) (*Matcher, error) {
	re2 := re2Pattern(pattern)
	search, err := coregex.Compile(re2)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	whole, err := coregex.Compile(`\A(?:` + re2 + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return &Matcher{pattern: pattern, search: search, whole: whole}, nil
}

func (m *Matcher) Pattern() string {
	return m.pattern
}

func (m *Matcher) Status(subject string) MatchStatus {
	status := MatchStatus{
		FullMatch: m.whole.MatchString(subject),
		Start:     -1,
		End:       -1,
	}
	if loc := m.search.FindStringIndex(subject); loc != nil {
		status.PartialMatch = true
		status.Start, status.End = loc[0], loc[1]
	}
	return status
}

// ComputeMatchStatus Compiles pattern and reports how it treats subject.
func ComputeMatchStatus(pattern, subject string) (MatchStatus, error) {
	m, err := NewMatcher(pattern)
	if err != nil {
		return MatchStatus{}, err
	}
	return m.Status(subject), nil
}

// TestString A subject together with the way the suite's own pattern treats it.
type TestString struct {
	Subject string
	Status  MatchStatus
}

// TestSuite The example strings written for one pattern.
type TestSuite struct {
	ID      int64
	Pattern string
	Strings []TestString
}

// NewTestSuite Labels every subject with the match status of pattern.
func NewTestSuite(id int64, pattern string, subjects ...string) (*TestSuite, error) {
	m, err := NewMatcher(pattern)
	if err != nil {
		return nil, err
	}
	s := &TestSuite{ID: id, Pattern: pattern, Strings: make([]TestString, 0, len(subjects))}
	for _, subject := range subjects {
		s.Strings = append(s.Strings, TestString{Subject: subject, Status: m.Status(subject)})
	}
	return s, nil
}

func (s *TestSuite) Subjects() []string {
	subjects := make([]string, 0, len(s.Strings))
	for _, str := range s.Strings {
		subjects = append(subjects, str.Subject)
	}
	return subjects
}

// HasPositiveAndNegative reports whether the suite holds at least minCount strings the pattern matches in
// mode and at least minCount it rejects. minCount below 1 is treated as 1.
func (s *TestSuite) HasPositiveAndNegative(mode coverage.MatchMode, minCount int) bool {
	minCount = max(minCount, 1)
	positive, negative := 0, 0
	for _, str := range s.Strings {
		if str.Status.Matches(mode) {
			positive++
		} else {
			negative++
		}
	}
	return positive >= minCount && negative >= minCount
}
