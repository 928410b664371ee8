package work

import (
	"testing"

	"github.com/sunholo/corelang/internal/ast"
	"github.com/sunholo/corelang/internal/diag"
	"github.com/sunholo/corelang/internal/names"
	"github.com/sunholo/corelang/internal/typedast"
	"github.com/sunholo/corelang/internal/types"
)

func okCheck(job Job) (typedast.Expr, diag.Errors) {
	return typedast.Lit{Node: typedast.Node{Type: &types.Con{Name: "Int", K: types.Star{}}}, Value: 1}, diag.Errors{}
}

func failingCheck(job Job) (typedast.Expr, diag.Errors) {
	var errs diag.Errors
	errs.Add(diag.New(diag.CHK001, "typecheck", "boom", job.Body.Position()))
	return nil, errs
}

func jobs(n int) []Job {
	out := make([]Job, n)
	for i := range out {
		out[i] = Job{Name: names.Local("job"), Body: &ast.Lit{Kind: ast.LitInt, Value: 1}}
	}
	return out
}

func TestPartitionInlineForSingleWorker(t *testing.T) {
	results := Partition(jobs(5), 1, okCheck, nil)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if r.RunID == "" {
			t.Error("expected a non-empty RunID")
		}
	}
}

func TestPartitionInlineForSingleJob(t *testing.T) {
	results := Partition(jobs(1), 8, okCheck, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestPartitionParallelProcessesEveryJob(t *testing.T) {
	results := Partition(jobs(50), 4, okCheck, nil)
	if len(results) != 50 {
		t.Fatalf("expected 50 results, got %d", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.RunID] {
			t.Errorf("duplicate RunID %s", r.RunID)
		}
		seen[r.RunID] = true
	}
}

func TestPartitionStopsOnCancel(t *testing.T) {
	cancel := make(chan struct{})
	close(cancel)
	results := Partition(jobs(20), 4, okCheck, cancel)
	if len(results) == 20 {
		t.Fatal("expected cancellation to stop at least some jobs from completing")
	}
}

func TestMergeErrorsCollectsAcrossResults(t *testing.T) {
	results := Partition(jobs(3), 1, failingCheck, nil)
	errs := MergeErrors(results)
	if errs.Len() != 3 {
		t.Fatalf("expected 3 merged errors, got %d", errs.Len())
	}
}
