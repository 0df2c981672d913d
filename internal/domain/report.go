package domain

import (
	"fmt"
	"strings"
)

// ParseFailure is one record that could not be parsed.
type ParseFailure struct {
	// Source is the file name or row number of the record.
	Source string
	Err    error
}

func (f ParseFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

// ParseReport collects per-record failures of a batch import. The batch
// keeps going; callers decide whether failures matter.
type ParseReport struct {
	Parsed   int
	Failures []ParseFailure
}

func (r *ParseReport) Fail(source string, err error) {
	r.Failures = append(r.Failures, ParseFailure{Source: source, Err: err})
}

func (r ParseReport) OK() bool {
	return len(r.Failures) == 0
}

func (r ParseReport) String() string {
	if r.OK() {
		return fmt.Sprintf("%d parsed", r.Parsed)
	}
	msgs := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%d parsed, %d failed: %s", r.Parsed, len(r.Failures), strings.Join(msgs, "; "))
}
