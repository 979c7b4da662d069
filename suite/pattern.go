package suite

import (
	"slices"
	"strings"
)

// re2Pattern Rewrites the PCRE-only spellings the automaton parser accepts into their RE2 equivalents:
// (?'name'...) becomes (?P<name>...), the atomic group (?>...) becomes (?:...) and possessive quantifiers
// lose their trailing +. Atomic groups and possessive quantifiers are read as plain ones, which is also
// how the automaton reads them. Escapes, \Q...\E quotes and character classes are copied untouched.
func re2Pattern(pattern string) string {
	rs := []rune(pattern)
	var sb strings.Builder
	afterQuantifier, afterOpen := false, false

	for i := 0; i < len(rs); i++ {
		c := rs[i]
		quantifier, open := false, false

		switch {
		case c == '\\' && i+1 < len(rs) && rs[i+1] == 'Q':
			end := indexFrom(rs, i+2, '\\', 'E')
			if end < 0 {
				sb.WriteString(string(rs[i:]))
				return sb.String()
			}
			sb.WriteString(string(rs[i : end+2]))
			i = end + 1
		case c == '\\' && i+1 < len(rs):
			sb.WriteString(string(rs[i : i+2]))
			i++
		case c == '[':
			end := classEnd(rs, i)
			sb.WriteString(string(rs[i:end]))
			i = end - 1
		case c == '(' && hasPrefix(rs, i+1, '?', '>'):
			sb.WriteString("(?:")
			i += 2
		case c == '(' && hasPrefix(rs, i+1, '?', '\''):
			end := indexFrom(rs, i+3, '\'')
			if end < 0 {
				sb.WriteRune(c)
				open = true
				break
			}
			sb.WriteString("(?P<" + string(rs[i+3:end]) + ">")
			i = end
		case c == '(':
			sb.WriteRune(c)
			open = true
		case c == '+' && afterQuantifier:
			// possessive
		case c == '*' || c == '+' || (c == '?' && !afterOpen):
			sb.WriteRune(c)
			quantifier = !afterQuantifier
		case c == '{':
			if end := boundEnd(rs, i); end > 0 {
				sb.WriteString(string(rs[i:end]))
				i = end - 1
				quantifier = true
			} else {
				sb.WriteRune(c)
			}
		default:
			sb.WriteRune(c)
		}

		afterQuantifier, afterOpen = quantifier, open
	}
	return sb.String()
}

func hasPrefix(rs []rune, from int, prefix ...rune) bool {
	return from+len(prefix) <= len(rs) && slices.Equal(rs[from:from+len(prefix)], prefix)
}

// indexFrom returns the index of the first occurrence of seq at or after from, or -1.
func indexFrom(rs []rune, from int, seq ...rune) int {
	for i := from; i+len(seq) <= len(rs); i++ {
		if hasPrefix(rs, i, seq...) {
			return i
		}
	}
	return -1
}

// classEnd returns the index just past the ']' closing the class opened at start, or len(rs).
func classEnd(rs []rune, start int) int {
	i := start + 1
	if i < len(rs) && rs[i] == '^' {
		i++
	}
	// a leading ] is literal
	if i < len(rs) && rs[i] == ']' {
		i++
	}
	for ; i < len(rs); i++ {
		switch rs[i] {
		case '\\':
			i++
		case ']':
			return i + 1
		}
	}
	return len(rs)
}

// boundEnd returns the index just past a {n}, {n,} or {n,m} bound starting at start, or -1.
func boundEnd(rs []rune, start int) int {
	i := start + 1
	digits := func() int {
		n := 0
		for ; i < len(rs) && rs[i] >= '0' && rs[i] <= '9'; i++ {
			n++
		}
		return n
	}
	if digits() == 0 {
		return -1
	}
	if i < len(rs) && rs[i] == ',' {
		i++
		digits()
	}
	if i < len(rs) && rs[i] == '}' {
		return i + 1
	}
	return -1
}
