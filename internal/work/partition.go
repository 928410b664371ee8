package work

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sunholo/corelang/internal/diag"
)

// Partition runs check over every job, in parallel across a fixed pool of
// workers when that pays off, inline otherwise (spec.md §5: "workers <= 1
// or len(globals) <= 1 runs inline"). Each worker drains a shared,
// pre-loaded job channel; cancel is checked cooperatively before each job
// starts, mirroring the teacher's goroutine+channel+select cancellation
// idiom in internal/eval_harness/runner.go (there applied to a single
// subprocess wait, here to an entire job queue).
func Partition(jobs []Job, workers int, check CheckFunc, cancel <-chan struct{}) []Result {
	if workers <= 1 || len(jobs) <= 1 {
		return runInline(jobs, check, cancel)
	}

	jobCh := make(chan Job, len(jobs))
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	resultCh := make(chan Result, len(jobs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				select {
				case <-cancel:
					return
				default:
				}
				resultCh <- runOne(job, check)
			}
		}()
	}

	wg.Wait()
	close(resultCh)

	results := make([]Result, 0, len(jobs))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

func runInline(jobs []Job, check CheckFunc, cancel <-chan struct{}) []Result {
	results := make([]Result, 0, len(jobs))
	for _, j := range jobs {
		select {
		case <-cancel:
			return results
		default:
		}
		results = append(results, runOne(j, check))
	}
	return results
}

func runOne(job Job, check CheckFunc) Result {
	expr, errs := check(job)
	res := Result{Job: job, Errs: errs, RunID: uuid.New().String()}
	if expr != nil && !errs.HasErrors() {
		res.Expr = &expr
	}
	return res
}

// MergeErrors folds every result's diagnostics into one sorted collector,
// the shape instantiation (strictly sequential, and only run once the
// whole partition completes per spec.md §5's ordering guarantees) expects
// to consume.
func MergeErrors(results []Result) diag.Errors {
	var errs diag.Errors
	for _, r := range results {
		r := r
		errs.Merge(&r.Errs)
	}
	errs.Sort()
	return errs
}
