package suite

import (
	"sync"

	"github.com/geange/regexcov/automaton"
)

// CompileFunc Builds the minimal automaton of a pattern.
type CompileFunc func(pattern string) (*automaton.Automaton, error)

// AutomatonCache A bounded pattern -> automaton cache. When full, the entry that is cheapest to rebuild
// (fewest states plus transitions) is evicted. Patterns that failed to compile fail again without
// recompiling; up to maxSize failures are remembered, oldest forgotten first.
//
// Cached automata are shared between callers and must not be modified.
type AutomatonCache struct {
	mu      sync.Mutex
	maxSize int
	compile CompileFunc
	entries map[string]*automaton.Automaton
	failed  map[string]error

	// failed patterns, oldest first
	failedOrder []string
}

func NewAutomatonCache(maxSize int, compile CompileFunc) *AutomatonCache {
	return &AutomatonCache{
		maxSize: max(maxSize, 1),
		compile: compile,
		entries: make(map[string]*automaton.Automaton),
		failed:  make(map[string]error),
	}
}

// GetOrCompile Returns the cached automaton of pattern, compiling it on a miss. Compilation runs outside
// the lock, so two goroutines missing on the same pattern may both compile it; the first result wins.
func (c *AutomatonCache) GetOrCompile(pattern string) (*automaton.Automaton, error) {
	c.mu.Lock()
	if a, ok := c.entries[pattern]; ok {
		c.mu.Unlock()
		return a, nil
	}
	if err, ok := c.failed[pattern]; ok {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	a, err := c.compile(pattern)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.rememberFailure(pattern, err)
		return nil, err
	}
	if existing, ok := c.entries[pattern]; ok {
		return existing, nil
	}
	if len(c.entries) >= c.maxSize {
		c.evict()
	}
	c.entries[pattern] = a
	return a, nil
}

func (c *AutomatonCache) evict() {
	victim, victimCost := "", -1
	for pattern, a := range c.entries {
		cost := a.GetNumStates() + a.GetNumTransitions()
		if victimCost < 0 || cost < victimCost || (cost == victimCost && pattern < victim) {
			victim, victimCost = pattern, cost
		}
	}
	delete(c.entries, victim)
}

func (c *AutomatonCache) rememberFailure(pattern string, err error) {
	if _, ok := c.failed[pattern]; ok {
		return
	}
	if len(c.failedOrder) >= c.maxSize {
		delete(c.failed, c.failedOrder[0])
		c.failedOrder = c.failedOrder[1:]
	}
	c.failed[pattern] = err
	c.failedOrder = append(c.failedOrder, pattern)
}

// Len Number of cached automata, failures excluded.
func (c *AutomatonCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether pattern is cached.
func (c *AutomatonCache) Contains(pattern string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[pattern]
	return ok
}
