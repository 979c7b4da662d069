package coverage

import (
	"context"
	"sync"
)

const defaultWorkers = 4

type partialResult struct {
	fullMatch    *VisitationInfo
	partialMatch *VisitationInfo
}

// EvaluateAll Evaluates subjects on a pool of workers and folds their results into the accumulators.
// Each worker keeps private accumulators built from EvaluateString; they are reduced on the calling
// goroutine, so the outcome is identical to calling Evaluate for every subject in turn.
//
// workers <= 0 selects a default. When ctx is cancelled the accumulators are left untouched and the
// context error is returned.
func (c *AutomatonCoverage) EvaluateAll(ctx context.Context, subjects []string, workers int) error {
	if workers <= 0 {
		workers = defaultWorkers
	}
	workers = max(min(workers, len(subjects)), 1)

	jobs := make(chan string, len(subjects))
	results := make(chan partialResult, workers)

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc := partialResult{fullMatch: NewVisitationInfo(), partialMatch: NewVisitationInfo()}
			for subject := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				acc.fullMatch.FoldIn(c.EvaluateString(subject, FullMatch))
				acc.partialMatch.FoldIn(c.EvaluateString(subject, PartialMatch))
			}
			results <- acc
		}()
	}

	for _, subject := range subjects {
		jobs <- subject
	}
	close(jobs)

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(results)
	}()

	fullMatch, partialMatch := NewVisitationInfo(), NewVisitationInfo()
	for r := range results {
		fullMatch.FoldIn(r.fullMatch)
		partialMatch.FoldIn(r.partialMatch)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	c.fullMatch.FoldIn(fullMatch)
	c.partialMatch.FoldIn(partialMatch)
	return nil
}
