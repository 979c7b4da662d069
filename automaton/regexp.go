package automaton

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type Kind int

const (
	REGEXP_UNION         = Kind(iota) // The union of two expressions
	REGEXP_CONCATENATION              // A sequence of two expressions
	REGEXP_OPTIONAL                   // An optional expression
	REGEXP_REPEAT                     // An expression that repeats
	REGEXP_REPEAT_MIN                 // An expression that repeats a minimum number of times
	REGEXP_REPEAT_MINMAX              // An expression that repeats a minimum and maximum number of times
	REGEXP_CHAR                       // A Character
	REGEXP_CHAR_CLASS                 // A set of character ranges
	REGEXP_ANYCHAR                    // Any Character allowed
	REGEXP_EMPTY                      // An empty expression
	REGEXP_STRING                     // A string expression
)

const (
	NONE                   = 0x0000
	ASCII_CASE_INSENSITIVE = 0x0100
)

// DEFAULT_MAX_REPEAT_BOUND Largest n accepted in {n}, {n,} and {n,m} unless overridden.
const DEFAULT_MAX_REPEAT_BOUND = 100

// RegExp Regular Expression extension to Automaton.
//
// The supported syntax is the commonly used subset of PCRE that denotes a regular language:
// alternation, grouping (capturing, non-capturing, named and atomic groups), the ? * + {n} {n,} {n,m}
// quantifiers with lazy and possessive suffixes, character classes, class escapes (\d \w \s and
// their negations), unicode properties (\p{..}), and the usual character escapes. Anchors and word
// boundaries match the empty string since the automaton describes whole-string languages.
// Lookaround and backreferences are rejected.
type RegExp struct {
	kind       Kind
	exp1, exp2 *RegExp
	s          string
	c          int
	ranges     []Range
	min, max   int
	flags      int

	originalString []rune
	pos            int
	maxBound       int
	quoting        bool
}

type regExpOption struct {
	matchFlags int
	maxBound   int
}

type RegExpOption func(*regExpOption)

// WithMatchFlags Sets match flags; only ASCII_CASE_INSENSITIVE is defined.
func WithMatchFlags(flags int) RegExpOption {
	return func(o *regExpOption) {
		o.matchFlags = flags
	}
}

// WithMaxRepeatBound Sets the largest accepted repetition bound.
func WithMaxRepeatBound(bound int) RegExpOption {
	return func(o *regExpOption) {
		o.maxBound = bound
	}
}

func NewRegExp(s string, options ...RegExpOption) (*RegExp, error) {
	opts := &regExpOption{
		matchFlags: NONE,
		maxBound:   DEFAULT_MAX_REPEAT_BOUND,
	}
	for _, fn := range options {
		fn(opts)
	}

	if opts.matchFlags&^ASCII_CASE_INSENSITIVE != 0 {
		return nil, errors.New("illegal match flag")
	}
	if opts.maxBound < 0 {
		return nil, errors.New("illegal repeat bound")
	}

	exp := &RegExp{
		originalString: []rune(s),
		flags:          opts.matchFlags,
		maxBound:       opts.maxBound,
	}

	e, err := exp.parseUnionExp()
	if err != nil {
		return nil, err
	}
	if exp.more() {
		return nil, fmt.Errorf("end-of-string expected at position %d", exp.pos)
	}

	e.originalString = exp.originalString
	e.maxBound = exp.maxBound
	return e, nil
}

// Pattern Returns the source text of the expression.
func (r *RegExp) Pattern() string {
	return string(r.originalString)
}

func newContainerNode(flags int, kind Kind, exp1, exp2 *RegExp) *RegExp {
	return &RegExp{kind: kind, exp1: exp1, exp2: exp2, flags: flags}
}

func newRepeatingNode(flags int, kind Kind, exp *RegExp, min, max int) *RegExp {
	return &RegExp{kind: kind, exp1: exp, min: min, max: max, flags: flags}
}

func makeUnion(flags int, exp1, exp2 *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_UNION, exp1, exp2)
}

func isStringLike(exp *RegExp) bool {
	return exp.kind == REGEXP_CHAR || exp.kind == REGEXP_STRING
}

func makeConcatenation(flags int, exp1, exp2 *RegExp) *RegExp {
	if isStringLike(exp1) && isStringLike(exp2) {
		return makeStringRegExp(flags, exp1, exp2)
	}

	rexp1, rexp2 := exp1, exp2
	if exp1.kind == REGEXP_CONCATENATION && isStringLike(exp1.exp2) && isStringLike(exp2) {
		rexp1 = exp1.exp1
		rexp2 = makeStringRegExp(flags, exp1.exp2, exp2)
	} else if isStringLike(exp1) && exp2.kind == REGEXP_CONCATENATION && isStringLike(exp2.exp1) {
		rexp1 = makeStringRegExp(flags, exp1, exp2.exp1)
		rexp2 = exp2.exp2
	}
	return newContainerNode(flags, REGEXP_CONCATENATION, rexp1, rexp2)
}

func makeStringRegExp(flags int, exp1, exp2 *RegExp) *RegExp {
	b := new(strings.Builder)
	for _, exp := range []*RegExp{exp1, exp2} {
		if exp.kind == REGEXP_STRING {
			b.WriteString(exp.s)
		} else {
			b.WriteRune(rune(exp.c))
		}
	}
	return makeString(flags, b.String())
}

func makeOptional(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_OPTIONAL, exp, nil)
}

func makeRepeat(flags int, exp *RegExp) *RegExp {
	return newContainerNode(flags, REGEXP_REPEAT, exp, nil)
}

func makeRepeatMin(flags int, exp *RegExp, min int) *RegExp {
	return newRepeatingNode(flags, REGEXP_REPEAT_MIN, exp, min, 0)
}

func makeRepeatRange(flags int, exp *RegExp, min, max int) *RegExp {
	return newRepeatingNode(flags, REGEXP_REPEAT_MINMAX, exp, min, max)
}

func makeChar(flags int, c int) *RegExp {
	return &RegExp{kind: REGEXP_CHAR, c: c, flags: flags}
}

func makeCharClass(flags int, ranges []Range) *RegExp {
	return &RegExp{kind: REGEXP_CHAR_CLASS, ranges: NormalizeRanges(ranges), flags: flags}
}

func makeAnyChar(flags int) *RegExp {
	return newContainerNode(flags, REGEXP_ANYCHAR, nil, nil)
}

func makeString(flags int, s string) *RegExp {
	return &RegExp{kind: REGEXP_STRING, s: s, flags: flags}
}

// ToAutomaton Constructs the minimal deterministic automaton for this regular expression.
// determinizeWorkLimit bounds the number of states created by each determinization step.
func (r *RegExp) ToAutomaton(determinizeWorkLimit int) (*Automaton, error) {
	a, err := r.toAutomatonInternal(determinizeWorkLimit)
	if err != nil {
		return nil, err
	}
	return Minimize(a, determinizeWorkLimit)
}

func (r *RegExp) toAutomatonInternal(determinizeWorkLimit int) (*Automaton, error) {
	var a *Automaton
	var err error

	switch r.kind {
	case REGEXP_UNION, REGEXP_CONCATENATION:
		list := make([]*Automaton, 0)
		if err := r.findLeaves(r.exp1, r.kind, &list, determinizeWorkLimit); err != nil {
			return nil, err
		}
		if err := r.findLeaves(r.exp2, r.kind, &list, determinizeWorkLimit); err != nil {
			return nil, err
		}
		if r.kind == REGEXP_UNION {
			a, err = Union(list...)
		} else {
			a, err = Concatenate(list...)
		}
		if err != nil {
			return nil, err
		}
		return Minimize(a, determinizeWorkLimit)

	case REGEXP_OPTIONAL:
		if a, err = r.exp1.toAutomatonInternal(determinizeWorkLimit); err != nil {
			return nil, err
		}
		if a, err = Optional(a); err != nil {
			return nil, err
		}
		return Minimize(a, determinizeWorkLimit)

	case REGEXP_REPEAT:
		if a, err = r.exp1.toAutomatonInternal(determinizeWorkLimit); err != nil {
			return nil, err
		}
		if a, err = Repeat(a); err != nil {
			return nil, err
		}
		return Minimize(a, determinizeWorkLimit)

	case REGEXP_REPEAT_MIN:
		if a, err = r.exp1.toAutomatonInternal(determinizeWorkLimit); err != nil {
			return nil, err
		}
		minNumStates := (a.GetNumStates() - 1) * r.min
		if determinizeWorkLimit > 0 && minNumStates > determinizeWorkLimit {
			return nil, fmt.Errorf("%w: repeat needs %d states", ErrDFABudgetExceeded, minNumStates)
		}
		if a, err = RepeatCount(a, r.min); err != nil {
			return nil, err
		}
		return Minimize(a, determinizeWorkLimit)

	case REGEXP_REPEAT_MINMAX:
		if a, err = r.exp1.toAutomatonInternal(determinizeWorkLimit); err != nil {
			return nil, err
		}
		minMaxNumStates := (a.GetNumStates() - 1) * r.max
		if determinizeWorkLimit > 0 && minMaxNumStates > determinizeWorkLimit {
			return nil, fmt.Errorf("%w: repeat needs %d states", ErrDFABudgetExceeded, minMaxNumStates)
		}
		if a, err = RepeatRange(a, r.min, r.max); err != nil {
			return nil, err
		}
		return Minimize(a, determinizeWorkLimit)

	case REGEXP_CHAR:
		if r.check(ASCII_CASE_INSENSITIVE) {
			return defaultAutomata.MakeCharRanges(foldRanges([]Range{{r.c, r.c}}))
		}
		return defaultAutomata.MakeChar(rune(r.c))

	case REGEXP_CHAR_CLASS:
		ranges := r.ranges
		if r.check(ASCII_CASE_INSENSITIVE) {
			ranges = foldRanges(ranges)
		}
		return defaultAutomata.MakeCharRanges(ranges)

	case REGEXP_ANYCHAR:
		return defaultAutomata.MakeAnyChar()

	case REGEXP_EMPTY:
		return defaultAutomata.MakeEmpty(), nil

	case REGEXP_STRING:
		if r.check(ASCII_CASE_INSENSITIVE) {
			return r.toCaseInsensitiveString()
		}
		return defaultAutomata.MakeString(r.s)
	}

	return nil, fmt.Errorf("unknown expression kind %d", r.kind)
}

func (r *RegExp) toCaseInsensitiveString() (*Automaton, error) {
	list := make([]*Automaton, 0)
	for _, v := range r.s {
		a, err := defaultAutomata.MakeCharRanges(foldRanges([]Range{{int(v), int(v)}}))
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if len(list) == 0 {
		return defaultAutomata.MakeEmptyString(), nil
	}
	return Concatenate(list...)
}

// foldRanges adds the other ASCII case of every letter covered by ranges.
func foldRanges(ranges []Range) []Range {
	folded := append([]Range(nil), ranges...)
	for _, rg := range ranges {
		if lo, hi := max(rg.Min, 'a'), min(rg.Max, 'z'); lo <= hi {
			folded = append(folded, Range{lo - 'a' + 'A', hi - 'a' + 'A'})
		}
		if lo, hi := max(rg.Min, 'A'), min(rg.Max, 'Z'); lo <= hi {
			folded = append(folded, Range{lo - 'A' + 'a', hi - 'A' + 'a'})
		}
	}
	return NormalizeRanges(folded)
}

func (r *RegExp) findLeaves(exp *RegExp, kind Kind, list *[]*Automaton, determinizeWorkLimit int) error {
	if exp.kind == kind {
		if err := r.findLeaves(exp.exp1, kind, list, determinizeWorkLimit); err != nil {
			return err
		}
		return r.findLeaves(exp.exp2, kind, list, determinizeWorkLimit)
	}

	a, err := exp.toAutomatonInternal(determinizeWorkLimit)
	if err != nil {
		return err
	}
	*list = append(*list, a)
	return nil
}

func (r *RegExp) more() bool {
	return r.pos < len(r.originalString)
}

func (r *RegExp) peek(s string) bool {
	return r.more() && strings.ContainsRune(s, r.originalString[r.pos])
}

func (r *RegExp) match(c int) bool {
	if r.pos >= len(r.originalString) {
		return false
	}
	if r.originalString[r.pos] == rune(c) {
		r.pos++
		return true
	}
	return false
}

func (r *RegExp) next() (int, error) {
	if !r.more() {
		return 0, io.EOF
	}
	ch := r.originalString[r.pos]
	r.pos++
	return int(ch), nil
}

func (r *RegExp) check(flags int) bool {
	return r.flags&flags != 0
}

func (r *RegExp) parseUnionExp() (*RegExp, error) {
	e, err := r.parseConcatExp()
	if err != nil {
		return nil, err
	}
	if r.match('|') {
		e2, err := r.parseUnionExp()
		if err != nil {
			return nil, err
		}
		e = makeUnion(r.flags, e, e2)
	}
	return e, nil
}

func (r *RegExp) parseConcatExp() (*RegExp, error) {
	var e *RegExp
	for r.more() && (r.quoting || !r.peek(")|")) {
		e2, err := r.parseRepeatExp()
		if err != nil {
			return nil, err
		}
		if e == nil {
			e = e2
		} else {
			e = makeConcatenation(r.flags, e, e2)
		}
	}
	if e == nil {
		return makeString(r.flags, ""), nil
	}
	return e, nil
}

func (r *RegExp) parseRepeatExp() (*RegExp, error) {
	e, err := r.parseAtomExp()
	if err != nil {
		return nil, err
	}
	if r.quoting {
		// the next character is quoted, it cannot be a quantifier
		return e, nil
	}

	for r.more() {
		switch {
		case r.match('?'):
			e = makeOptional(r.flags, e)
		case r.match('*'):
			e = makeRepeat(r.flags, e)
		case r.match('+'):
			e = makeRepeatMin(r.flags, e, 1)
		case r.peek("{"):
			bounded, ok, err := r.parseBound(e)
			if err != nil {
				return nil, err
			}
			if !ok {
				// not a quantifier, '{' is a literal
				return e, nil
			}
			e = bounded
		default:
			return e, nil
		}

		// lazy and possessive quantifiers denote the same language
		if !r.match('?') {
			r.match('+')
		}
	}

	return e, nil
}

// parseBound parses {n}, {n,} or {n,m}. ok is false, and the position is left unchanged, when the text
// at the current position is not a well formed bound.
func (r *RegExp) parseBound(e *RegExp) (*RegExp, bool, error) {
	start := r.pos
	r.match('{')

	n, ok := r.parseInt()
	if !ok {
		r.pos = start
		return nil, false, nil
	}
	m := n
	if r.match(',') {
		if m, ok = r.parseInt(); !ok {
			m = -1
		}
	}
	if !r.match('}') {
		r.pos = start
		return nil, false, nil
	}

	for _, bound := range []int{n, m} {
		if bound > r.maxBound {
			return nil, false, fmt.Errorf("bound %d is too large to be compiled (must be <= %d)", bound, r.maxBound)
		}
	}

	if m == -1 {
		return makeRepeatMin(r.flags, e, n), true, nil
	}
	if m < n {
		return nil, false, fmt.Errorf("illegal repetition range {%d,%d} at position %d", n, m, start)
	}
	return makeRepeatRange(r.flags, e, n, m), true, nil
}

func (r *RegExp) parseInt() (int, bool) {
	start := r.pos
	for r.peek("0123456789") {
		r.pos++
	}
	if start == r.pos {
		return 0, false
	}
	n, err := strconv.Atoi(string(r.originalString[start:r.pos]))
	if err != nil {
		// out of range
		return math.MaxInt, true
	}
	return n, true
}

func (r *RegExp) parseAtomExp() (*RegExp, error) {
	if r.quoting {
		return r.parseQuotedChar(), nil
	}

	start := r.pos
	c, err := r.next()
	if err != nil {
		return nil, err
	}

	switch c {
	case '(':
		return r.parseGroupExp(start)
	case '[':
		return r.parseCharClassExp()
	case '.':
		return makeAnyChar(r.flags), nil
	case '^', '$':
		return makeString(r.flags, ""), nil
	case '\\':
		return r.parseEscapeExp(start)
	}

	// includes quantifier characters with nothing to repeat
	return makeChar(r.flags, c), nil
}

func (r *RegExp) parseGroupExp(start int) (*RegExp, error) {
	if r.match('?') {
		c, err := r.next()
		if err != nil {
			return nil, fmt.Errorf("expected ')' at position %d", r.pos)
		}
		switch c {
		case ':', '>':
		case 'P':
			if !r.match('<') {
				return nil, fmt.Errorf("unsupported group construct ?P at position %d", start)
			}
			if err := r.parseGroupName('>'); err != nil {
				return nil, err
			}
		case '<':
			if r.peek("=!") {
				return nil, fmt.Errorf("unsupported group construct ?<%c at position %d", r.originalString[r.pos], start)
			}
			if err := r.parseGroupName('>'); err != nil {
				return nil, err
			}
		case '\'':
			if err := r.parseGroupName('\''); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported group construct ?%c at position %d", c, start)
		}
	}

	e, err := r.parseUnionExp()
	if err != nil {
		return nil, err
	}
	if !r.match(')') {
		return nil, fmt.Errorf("expected ')' at position %d", r.pos)
	}
	return e, nil
}

func (r *RegExp) parseGroupName(end int) error {
	start := r.pos
	for r.more() {
		c := r.originalString[r.pos]
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		r.pos++
	}
	if start == r.pos || !r.match(end) {
		return fmt.Errorf("invalid group name at position %d", start)
	}
	return nil
}

func (r *RegExp) parseCharClassExp() (*RegExp, error) {
	negate := r.match('^')
	ranges := make([]Range, 0)

	for first := true; ; first = false {
		if !r.more() {
			return nil, fmt.Errorf("expected ']' at position %d", r.pos)
		}
		if !first && r.match(']') {
			break
		}

		lo, set, err := r.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if set != nil {
			ranges = append(ranges, set...)
			continue
		}

		if !r.peek("-") || r.pos+1 >= len(r.originalString) || r.originalString[r.pos+1] == ']' {
			ranges = append(ranges, Range{lo, lo})
			continue
		}

		dash := r.pos
		r.pos++
		hi, hiSet, err := r.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if hiSet != nil {
			// a-\d: the dash is literal
			ranges = append(ranges, Range{lo, lo}, Range{'-', '-'})
			ranges = append(ranges, hiSet...)
			continue
		}
		if hi < lo {
			return nil, fmt.Errorf("illegal character range at position %d", dash)
		}
		ranges = append(ranges, Range{lo, hi})
	}

	if negate {
		ranges = ComplementRanges(ranges)
	}
	return makeCharClass(r.flags, ranges), nil
}

func (r *RegExp) parseClassAtom() (int, []Range, error) {
	c, err := r.next()
	if err != nil {
		return 0, nil, err
	}
	if c != '\\' {
		return c, nil, nil
	}
	return r.parseEscape()
}

func (r *RegExp) parseEscapeExp(start int) (*RegExp, error) {
	if !r.more() {
		return nil, fmt.Errorf("trailing backslash at position %d", start)
	}

	switch c := r.originalString[r.pos]; {
	case strings.ContainsRune("bBAzZG", c):
		r.pos++
		return makeString(r.flags, ""), nil
	case c == 'k' || (c >= '1' && c <= '9'):
		return nil, fmt.Errorf("backreferences are not supported at position %d", start)
	case c == 'Q':
		r.pos++
		r.quoting = true
		if !r.more() || r.endOfQuote() {
			return makeString(r.flags, ""), nil
		}
		return r.parseQuotedChar(), nil
	}

	c, set, err := r.parseEscape()
	if err != nil {
		return nil, err
	}
	if set != nil {
		return makeCharClass(r.flags, set), nil
	}
	return makeChar(r.flags, c), nil
}

// endOfQuote consumes \E when it is at the current position and leaves quoting mode.
func (r *RegExp) endOfQuote() bool {
	if r.pos+1 < len(r.originalString) && r.originalString[r.pos] == '\\' && r.originalString[r.pos+1] == 'E' {
		r.pos += 2
		r.quoting = false
		return true
	}
	return false
}

// parseQuotedChar reads one character between \Q and \E.
func (r *RegExp) parseQuotedChar() *RegExp {
	c := r.originalString[r.pos]
	r.pos++
	r.endOfQuote()
	return makeChar(r.flags, int(c))
}

// parseEscape parses the escape following a backslash. It returns either a single code point or, for class
// escapes, the set of ranges it stands for.
func (r *RegExp) parseEscape() (int, []Range, error) {
	start := r.pos - 1
	c, err := r.next()
	if err != nil {
		return 0, nil, fmt.Errorf("trailing backslash at position %d", start)
	}

	switch c {
	case 'd':
		return 0, digitRanges, nil
	case 'D':
		return 0, ComplementRanges(digitRanges), nil
	case 'w':
		return 0, wordRanges, nil
	case 'W':
		return 0, ComplementRanges(wordRanges), nil
	case 's':
		return 0, spaceRanges, nil
	case 'S':
		return 0, ComplementRanges(spaceRanges), nil
	case 'p', 'P':
		set, err := r.parseProperty(start)
		if err != nil {
			return 0, nil, err
		}
		if c == 'P' {
			set = ComplementRanges(set)
		}
		return 0, set, nil
	case 'n':
		return '\n', nil, nil
	case 't':
		return '\t', nil, nil
	case 'r':
		return '\r', nil, nil
	case 'f':
		return '\f', nil, nil
	case 'v':
		return '\v', nil, nil
	case 'a':
		return '\a', nil, nil
	case 'e':
		return 0x1b, nil, nil
	case '0':
		v := 0
		for i := 0; i < 3 && r.peek("01234567"); i++ {
			v = v*8 + int(r.originalString[r.pos]-'0')
			r.pos++
		}
		return v, nil, nil
	case 'c':
		ctrl, err := r.next()
		if err != nil {
			return 0, nil, fmt.Errorf("illegal control escape at position %d", start)
		}
		return ctrl ^ 64, nil, nil
	case 'x':
		if r.match('{') {
			return r.parseHex(start, -1, '}')
		}
		return r.parseHex(start, 2, -1)
	case 'u':
		return r.parseHex(start, 4, -1)
	}

	return c, nil, nil
}

// parseHex reads exactly digits hex digits, or any number up to the terminator when digits is -1.
func (r *RegExp) parseHex(start, digits int, end int) (int, []Range, error) {
	from := r.pos
	for r.peek("0123456789abcdefABCDEF") && (digits < 0 || r.pos-from < digits) {
		r.pos++
	}
	text := string(r.originalString[from:r.pos])
	if end != -1 && !r.match(end) {
		return 0, nil, fmt.Errorf("illegal hexadecimal escape sequence at position %d", start)
	}
	if text == "" || (digits > 0 && len(text) != digits) {
		return 0, nil, fmt.Errorf("illegal hexadecimal escape sequence at position %d", start)
	}
	v, err := strconv.ParseInt(text, 16, 64)
	if err != nil || v > unicode.MaxRune {
		return 0, nil, fmt.Errorf("hexadecimal codepoint is too big at position %d", start)
	}
	return int(v), nil, nil
}

func (r *RegExp) parseProperty(start int) ([]Range, error) {
	var name string
	if r.match('{') {
		from := r.pos
		for r.more() && !r.peek("}") {
			r.pos++
		}
		name = string(r.originalString[from:r.pos])
		if !r.match('}') {
			return nil, fmt.Errorf("unclosed character family at position %d", start)
		}
	} else {
		c, err := r.next()
		if err != nil {
			return nil, fmt.Errorf("illegal character family at position %d", start)
		}
		name = string(rune(c))
	}

	name = strings.TrimPrefix(name, "Is")
	if set, ok := posixClasses[name]; ok {
		return set, nil
	}
	if table, ok := unicode.Categories[name]; ok {
		return rangeTableRanges(table), nil
	}
	if table, ok := unicode.Scripts[name]; ok {
		return rangeTableRanges(table), nil
	}
	return nil, fmt.Errorf("unknown character property name {%s} at position %d", name, start)
}

func rangeTableRanges(table *unicode.RangeTable) []Range {
	ranges := make([]Range, 0, len(table.R16)+len(table.R32))
	for _, rg := range table.R16 {
		ranges = appendStride(ranges, int(rg.Lo), int(rg.Hi), int(rg.Stride))
	}
	for _, rg := range table.R32 {
		ranges = appendStride(ranges, int(rg.Lo), int(rg.Hi), int(rg.Stride))
	}
	return NormalizeRanges(ranges)
}

func appendStride(ranges []Range, lo, hi, stride int) []Range {
	if stride == 1 {
		return append(ranges, Range{lo, hi})
	}
	for c := lo; c <= hi; c += stride {
		ranges = append(ranges, Range{c, c})
	}
	return ranges
}

var (
	digitRanges = []Range{{'0', '9'}}
	wordRanges  = []Range{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	spaceRanges = []Range{{'\t', '\r'}, {' ', ' '}}

	posixClasses = map[string][]Range{
		"Lower":  {{'a', 'z'}},
		"Upper":  {{'A', 'Z'}},
		"ASCII":  {{0, 0x7f}},
		"Alpha":  {{'A', 'Z'}, {'a', 'z'}},
		"Digit":  digitRanges,
		"Alnum":  {{'0', '9'}, {'A', 'Z'}, {'a', 'z'}},
		"Punct":  {{'!', '/'}, {':', '@'}, {'[', '`'}, {'{', '~'}},
		"Space":  spaceRanges,
		"XDigit": {{'0', '9'}, {'A', 'F'}, {'a', 'f'}},
		"Blank":  {{'\t', '\t'}, {' ', ' '}},
		"Cntrl":  {{0, 0x1f}, {0x7f, 0x7f}},
	}
)
