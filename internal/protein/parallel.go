package protein

import (
	"runtime"
	"sync"
	"time"
)

// WorkItem holds one query sequence ready for classification.
type WorkItem struct {
	Seq     int
	Header  string
	Sequence string
}

// WorkResult holds the classification output for a single query.
type WorkResult struct {
	Seq    int
	Header string
	Preds  []Prediction
	Err    error
}

// ParallelClassify classifies work items using a pool of workers, one
// query per task, mirroring libuproc's uproc_mosaic worker-pool driver.
// All workers share c; Classify keeps its per-query state local and never
// mutates c or the read-only ecurves/substitution matrix it references, so
// no synchronisation is needed. Results are sent to the
// returned channel in arrival order, not sequence order; use
// OrderedCollect to restore input order. If workers is 0, runtime.NumCPU()
// is used.
func (c *Classifier) ParallelClassify(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				preds, err := c.Classify(item.Sequence)
				results <- WorkResult{
					Seq:    item.Seq,
					Header: item.Header,
					Preds:  preds,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected one arrives.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	return OrderedCollectWithProgress(results, 0, nil, fn)
}

// OrderedCollectWithProgress is like OrderedCollect but periodically calls
// progress with the number of queries processed so far. If interval is 0
// or progress is nil, no progress reporting is done.
func OrderedCollectWithProgress(results <-chan WorkResult, interval time.Duration, progress func(int), fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if interval > 0 && progress != nil {
		ticker = time.NewTicker(interval)
		tickC = ticker.C
		defer ticker.Stop()
	}

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				for range results {
				}
				return err
			}
		}

		if tickC != nil {
			select {
			case <-tickC:
				progress(nextSeq)
			default:
			}
		}
	}

	return nil
}
