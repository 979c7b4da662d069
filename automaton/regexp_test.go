package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func compile(t *testing.T, pattern string, options ...RegExpOption) *Automaton {
	t.Helper()
	re, err := NewRegExp(pattern, options...)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	a, err := re.ToAutomaton(DEFAULT_DETERMINIZE_WORK_LIMIT)
	if !assert.Nil(t, err) {
		t.FailNow()
	}
	return a
}

func TestNewRegExp(t *testing.T) {
	a := compile(t, "+-*(A|.....|BC)*]", WithMatchFlags(NONE))
	assert.True(t, a.IsDeterministic())
	assert.True(t, Run(a, "+]"))
	assert.True(t, Run(a, "+--ABC]"))
	assert.True(t, Run(a, "+-hello]"))
	assert.False(t, Run(a, "-]"))
}

func TestRegExp_Languages(t *testing.T) {
	tests := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{`\d`, []string{"5"}, []string{"a", "55", ""}},
		{`\w`, []string{"_", "a", "Z", "0"}, []string{"-", " "}},
		{`\s+`, []string{" \t\n"}, []string{"a"}},
		{`[\da]`, []string{"a", "7"}, []string{"b"}},
		{`[^a]`, []string{"b", "é"}, []string{"a", ""}},
		{`[]a]`, []string{"]", "a"}, []string{"b"}},
		{`[a-]`, []string{"a", "-"}, []string{"b"}},
		{`[\d-.]+`, []string{"1-2.5"}, []string{"x"}},
		{`[+-]?\d+`, []string{"+1", "-20", "3"}, []string{"+"}},
		{`a.c`, []string{"abc", "a\nc", "a😀c"}, []string{"ac"}},
		{``, []string{""}, []string{"a"}},
		{`()`, []string{""}, []string{"a"}},
		{`a|`, []string{"", "a"}, []string{"aa"}},
		{`ab?c`, []string{"ac", "abc"}, []string{"abbc"}},
		{`ab*c`, []string{"ac", "abbbc"}, []string{"abd"}},
		{`ab+c`, []string{"abc", "abbc"}, []string{"ac"}},
		{`a{2}`, []string{"aa"}, []string{"a", "aaa"}},
		{`a{2,}`, []string{"aa", "aaaaa"}, []string{"a"}},
		{`a{1,3}`, []string{"a", "aaa"}, []string{"", "aaaa"}},
		{`a{0}`, []string{""}, []string{"a"}},
		{`a{`, []string{"a{"}, []string{"a"}},
		{`a{x}`, []string{"a{x}"}, []string{"a"}},
		{`a{1,x}`, []string{"a{1,x}"}, []string{"a"}},
		{`a+?b`, []string{"aab"}, []string{"b"}},
		{`a*+b`, []string{"b", "aab"}, []string{"a"}},
		{`a{2,}?`, []string{"aa"}, []string{"a"}},
		{`(?:ab)+`, []string{"abab"}, []string{"aba"}},
		{`(?>ab)c`, []string{"abc"}, []string{"ab"}},
		{`(?<year>\d{4})-(?P<m>\d\d)-(?'d'\d\d)`, []string{"2024-05-01"}, []string{"2024-5-01"}},
		{`^abc$`, []string{"abc"}, []string{"ab"}},
		{`\bfoo\B\A\z\Z\G`, []string{"foo"}, []string{"foo "}},
		{`^http(s)?:\/\/$`, []string{"http://", "https://"}, []string{"http:/"}},
		{`\x41B\x{1F600}`, []string{"AB😀"}, []string{"AB"}},
		{`\t\n\r\f\v\a\e\0`, []string{"\t\n\r\f\v\a\x1b\x00"}, []string{""}},
		{`\cA\012`, []string{"\x01\n"}, []string{""}},
		{`\Q.*\E+`, []string{".*", ".**"}, []string{"ab", ".*.*"}},
		{`\Q\E`, []string{""}, []string{"a"}},
		{`(\Qa)\E)`, []string{"a)"}, []string{"a"}},
		{`\Q(a`, []string{"(a"}, []string{"a"}},
		{`\.\*\$`, []string{".*$"}, []string{"a"}},
		{`\p{Lu}`, []string{"Ä", "A"}, []string{"a"}},
		{`\pL+`, []string{"héllo"}, []string{"1"}},
		{`\P{L}`, []string{"1", " "}, []string{"a"}},
		{`\p{Greek}`, []string{"λ"}, []string{"l"}},
		{`\p{IsAlpha}\p{Digit}`, []string{"a1"}, []string{"é1"}},
		{`[\p{Lu}\d]`, []string{"Q", "4"}, []string{"q"}},
		{`[\D]`, []string{"a"}, []string{"1"}},
		{`\D.+`, []string{"ab", "a1"}, []string{"1b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			a := compile(t, tt.pattern)
			for _, s := range tt.accept {
				assert.Truef(t, Run(a, s), "%q should accept %q", tt.pattern, s)
			}
			for _, s := range tt.reject {
				assert.Falsef(t, Run(a, s), "%q should reject %q", tt.pattern, s)
			}
		})
	}
}

func TestRegExp_CaseInsensitive(t *testing.T) {
	a := compile(t, "abc[x-z]", WithMatchFlags(ASCII_CASE_INSENSITIVE))
	assert.True(t, Run(a, "AbCY"))
	assert.True(t, Run(a, "abcx"))
	assert.False(t, Run(a, "abcw"))

	a = compile(t, "é", WithMatchFlags(ASCII_CASE_INSENSITIVE))
	assert.True(t, Run(a, "é"))
	assert.False(t, Run(a, "É"))
}

func TestRegExp_IllegalFlag(t *testing.T) {
	_, err := NewRegExp("a", WithMatchFlags(0x0001))
	assert.NotNil(t, err)
}

func TestRegExp_RepeatBound(t *testing.T) {
	for _, tt := range []struct {
		pattern string
		message string
	}{
		{`a{300}`, "bound 300 is too large to be compiled (must be <= 100)"},
		{`a{1,1000}`, "bound 1000 is too large to be compiled (must be <= 100)"},
		{`a{1000}`, "bound 1000 is too large to be compiled (must be <= 100)"},
		{`a{1000,}`, "bound 1000 is too large to be compiled (must be <= 100)"},
	} {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := NewRegExp(tt.pattern)
			assert.EqualError(t, err, tt.message)
		})
	}

	re, err := NewRegExp(`a{300}`, WithMaxRepeatBound(300))
	assert.Nil(t, err)
	a, err := re.ToAutomaton(DEFAULT_DETERMINIZE_WORK_LIMIT)
	assert.Nil(t, err)
	assert.Equal(t, 301, a.GetNumStates())
}

func TestRegExp_Unsupported(t *testing.T) {
	for _, tt := range []struct {
		pattern  string
		contains string
	}{
		{`a(?!b)`, "?!"},
		{`a(?=b)`, "?="},
		{`(?<=a)b`, "?<"},
		{`(?<!a)b`, "?<"},
		{`(?i)a`, "?i"},
		{`(a)\1`, "backreferences"},
		{`(?<n>a)\k<n>`, "backreferences"},
	} {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := NewRegExp(tt.pattern)
			if assert.NotNil(t, err) {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestRegExp_SyntaxErrors(t *testing.T) {
	for _, pattern := range []string{
		`(ab`,
		`ab)`,
		`[ab`,
		`[z-a]`,
		`a\`,
		`\xZZ`,
		`\x{110000}`,
		`\u12`,
		`\p{NoSuchThing}`,
		`\p{L`,
		`(?<>a)`,
		`a{3,1}`,
	} {
		t.Run(pattern, func(t *testing.T) {
			_, err := NewRegExp(pattern)
			assert.NotNil(t, err)
		})
	}
}

func TestRegExp_WorkLimit(t *testing.T) {
	re, err := NewRegExp(`(a|b)*a(a|b){10}`)
	assert.Nil(t, err)

	_, err = re.ToAutomaton(100)
	assert.ErrorIs(t, err, ErrDFABudgetExceeded)

	a, err := re.ToAutomaton(DEFAULT_DETERMINIZE_WORK_LIMIT)
	assert.Nil(t, err)
	assert.Equal(t, 2048, a.GetNumStates())
	assert.True(t, Run(a, "babbbbbbbbbb"))
	assert.False(t, Run(a, "bbbbbbbbbbbb"))

	re, err = NewRegExp(`(abcdefghij){20,40}`)
	assert.Nil(t, err)
	_, err = re.ToAutomaton(100)
	assert.ErrorIs(t, err, ErrDFABudgetExceeded)
}

func TestRegExp_MinimalSize(t *testing.T) {
	tests := []struct {
		pattern     string
		states      int
		transitions int
	}{
		{`a*`, 1, 1},
		{`(ab)*`, 2, 2},
		{`a+`, 2, 2},
		{`[a-z0-9]*A`, 2, 3},
		{`(a|b)*`, 1, 1},
		{`x(ab)*`, 3, 3},
		{`^(?:[a-z0-9_](?:[a-z0-9-_]{0,61}[a-z0-9])?\.)+[a-z0-9][a-z0-9-]{0,61}[a-z0-9]$`, 250, 1108},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			a := compile(t, tt.pattern)
			assert.Equal(t, tt.states, a.GetNumStates())
			assert.Equal(t, tt.transitions, a.GetNumTransitions())
			assert.Equal(t, tt.states, int(LiveStates(a).Count()))
		})
	}
}

func TestRegExp_Pattern(t *testing.T) {
	re, err := NewRegExp(`a(b|c)d`)
	assert.Nil(t, err)
	assert.Equal(t, `a(b|c)d`, re.Pattern())
}
