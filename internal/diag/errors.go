package diag

import "sort"

// Errors is a mutable diagnostic collector threaded through every
// component (spec.md §4.7). Components accumulate reports as long as
// subsequent work can meaningfully continue, and abandon a subproblem
// once its result is required by a later stage.
type Errors struct {
	reports []*Report
}

// Add appends a report.
func (e *Errors) Add(r *Report) {
	if r != nil {
		e.reports = append(e.reports, r)
	}
}

// Eat absorbs an error, extracting and recording its *Report if present,
// or wrapping it as a generic report under the given phase otherwise.
// Eat never aborts the caller — it is the collect-and-continue primitive.
func (e *Errors) Eat(phase string, err error) {
	if err == nil {
		return
	}
	if r, ok := AsReport(err); ok {
		e.Add(r)
		return
	}
	e.Add(&Report{
		Schema:  SchemaVersion,
		Code:    "GEN000",
		Phase:   phase,
		Message: err.Error(),
	})
}

// Merge appends another Errors' reports (used when joining per-job
// collectors at the end of parallel type checking, spec.md §5).
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	e.reports = append(e.reports, other.reports...)
}

// HasErrors reports whether anything was collected.
func (e *Errors) HasErrors() bool {
	return len(e.reports) > 0
}

// Len reports the number of collected diagnostics.
func (e *Errors) Len() int {
	return len(e.reports)
}

// Reports returns a defensive copy of the accumulated diagnostics, sorted
// per Sort's ordering.
func (e *Errors) Reports() []*Report {
	e.Sort()
	out := make([]*Report, len(e.reports))
	copy(out, e.reports)
	return out
}

// Sort orders diagnostics deterministically by (file, start offset, end
// offset, message) — spec.md §5 "Ordering guarantees", §8 property 7.
func (e *Errors) Sort() {
	sort.SliceStable(e.reports, func(i, j int) bool {
		a, b := e.reports[i].PrimarySpan(), e.reports[j].PrimarySpan()
		if a.Start.File != b.Start.File {
			return a.Start.File < b.Start.File
		}
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		if a.End.Offset != b.End.Offset {
			return a.End.Offset < b.End.Offset
		}
		return e.reports[i].Message < e.reports[j].Message
	})
}

// ToError converts the collector into a single error value for callers
// that need the stdlib error contract. Returns nil when empty.
func (e *Errors) ToError() error {
	if !e.HasErrors() {
		return nil
	}
	e.Sort()
	return &MultiError{Reports: e.reports}
}

// MultiError bundles multiple reports behind a single error value.
type MultiError struct {
	Reports []*Report
}

func (m *MultiError) Error() string {
	if len(m.Reports) == 1 {
		return m.Reports[0].Error2()
	}
	s := m.Reports[0].Error2()
	for _, r := range m.Reports[1:] {
		s += "; " + r.Error2()
	}
	return s
}

// Error2 avoids colliding with ReportError.Error while giving *Report a
// plain-string rendering for MultiError's use.
func (r *Report) Error2() string {
	return r.Code + ": " + r.Message
}
