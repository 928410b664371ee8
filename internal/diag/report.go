// Package diag provides centralized, structured error reporting for the
// compiler core: a stable XXX### code taxonomy, multi-span diagnostics,
// and a deterministic accumulator that implements spec.md §4.7's
// collect-and-continue discipline and §5/§8's sorted-error-sequence
// guarantee.
package diag

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/sunholo/corelang/internal/ast"
)

// LabeledSpan is one (label, span) pair inside a diagnostic. The first
// entry in a Report's Spans is always the primary location; the rest are
// "see also here" contextual breadcrumbs (spec.md §7).
type LabeledSpan struct {
	Label string
	Span  ast.Span
}

// Report is the canonical structured diagnostic. Every component in the
// pipeline accumulates *Report values into an Errors collector rather than
// returning bare errors, so multiple independent problems can be surfaced
// from one run.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Spans   []LabeledSpan  `json:"spans,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is a suggested remediation with a confidence score, surfaced to an
// IDE layer as a code-action hint (spec.md §7).
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// PrimarySpan returns the report's primary location, or the zero Span if
// none was attached.
func (r *Report) PrimarySpan() ast.Span {
	if len(r.Spans) == 0 {
		return ast.Span{}
	}
	return r.Spans[0].Span
}

// ReportError wraps a *Report so it survives the standard errors.As chain.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a *Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report with a single primary span.
func New(code, phase, message string, primary ast.Span) *Report {
	return &Report{
		Schema:  SchemaVersion,
		Code:    code,
		Phase:   phase,
		Message: message,
		Spans:   []LabeledSpan{{Label: "here", Span: primary}},
	}
}

// WithSeeAlso appends a contextual breadcrumb span.
func (r *Report) WithSeeAlso(label string, span ast.Span) *Report {
	r.Spans = append(r.Spans, LabeledSpan{Label: label, Span: span})
	return r
}

// WithData attaches structured payload data, merging into any existing
// map.
func (r *Report) WithData(data map[string]any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	for k, v := range data {
		r.Data[k] = v
	}
	return r
}

// ToJSON renders the report deterministically: encoding/json emits
// struct fields in declaration order and sorts Data's map keys itself.
func (r *Report) ToJSON(indent bool) (string, error) {
	type sortedReport Report
	cp := sortedReport(*r)
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(cp, "", "  ")
	} else {
		data, err = json.Marshal(cp)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// sortKeys returns m's keys in sorted order.
func sortKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
