package orchestrate

import (
	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
)

//go:generate go tool stringer -type=Status -linecomment

// Status is the outcome of one pair.
type Status int

const (
	StatusGenerated Status = iota // generated
	StatusSkipped                 // skipped
	StatusFailed                  // failed
)

// Result is the outcome of one pair.
type Result struct {
	Mapper string
	Source analyze.TypeID
	Target analyze.TypeID
	Status Status
	// Path is the written file; empty unless generated.
	Path string
	Err  error
}

// Report summarizes a run in processing order.
type Report struct {
	Results     []Result
	Diagnostics diagnostic.Diagnostics
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0

	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}

	return n
}

// Mappers returns the mapper names with status s.
func (r *Report) Mappers(s Status) []string {
	var names []string

	for _, res := range r.Results {
		if res.Status == s {
			names = append(names, res.Mapper)
		}
	}

	return names
}
