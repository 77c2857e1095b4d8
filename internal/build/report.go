package build

import (
	"time"

	"informcompile/internal/storyfile"
)

// Status is the terminal state of one input file.
type Status string

const (
	StatusCompiled Status = "compiled"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// SkipReason explains a skipped input.
type SkipReason string

const (
	SkipNotFound     SkipReason = "source_not_found"
	SkipNotSource    SkipReason = "not_inform_source"
	SkipOutputExists SkipReason = "output_exists"
)

// Outcome records what happened to one input file.
type Outcome struct {
	Source   string              `json:"source"`
	Status   Status              `json:"status"`
	Reason   SkipReason          `json:"reason,omitempty"`
	Target   string              `json:"target,omitempty"`
	Release  string              `json:"release,omitempty"`
	Serial   string              `json:"serial,omitempty"`
	Language string              `json:"language,omitempty"`
	Story    *storyfile.Artifact `json:"story,omitempty"`
	JS       *storyfile.Artifact `json:"js,omitempty"`
	Link     string              `json:"link,omitempty"`
	Header   *storyfile.Header   `json:"header,omitempty"`
	Duration time.Duration       `json:"duration_ns,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Report collects the outcomes of a run in input order.
type Report struct {
	RunID    string        `json:"run_id"`
	Outcomes []Outcome     `json:"outcomes"`
	Duration time.Duration `json:"duration_ns"`
}

// Compiled counts compiled inputs.
func (r Report) Compiled() int { return r.count(StatusCompiled) }

// Skipped counts skipped inputs.
func (r Report) Skipped() int { return r.count(StatusSkipped) }

// Failed counts the input that aborted the run, if any.
func (r Report) Failed() int { return r.count(StatusFailed) }

func (r Report) count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
