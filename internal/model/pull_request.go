package model

import (
	"fmt"
	"time"
)

// PullRequest is one normalized review unit. Values are immutable after
// conversion; a later fetch supersedes the entity rather than mutating it.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int

	Title      string
	Author     string
	URL        string
	HeadSHA    string // 7-char prefix
	HeadBranch string

	State         PRState
	InMergeQueue  bool
	QueuePosition int // 0 when not queued

	ReviewDecision    ReviewDecision
	ApprovalCount     int
	ViewerHasApproved bool // viewer's latest review is approved

	Mergeable Mergeable

	CIStatus     CIStatus
	ChecksTotal  int
	ChecksPassed int
	ChecksFailed int
	FailedChecks []CheckResult // failed subset of CheckResults
	CheckResults []CheckResult

	PublishedAt *time.Time // nil for unpublished drafts; SLA never applies
	LastFetched time.Time
}

// ID is the map/set key used throughout the system.
func (pr PullRequest) ID() string {
	return fmt.Sprintf("%s/%s#%d", pr.Owner, pr.Repo, pr.Number)
}

// RepoFullName returns "owner/repo".
func (pr PullRequest) RepoFullName() string {
	return pr.Owner + "/" + pr.Repo
}

// EffectiveCheckResults returns the raw check list minus ignored names. An
// empty ignore list returns the raw slice unchanged.
func (pr PullRequest) EffectiveCheckResults(ignored []string) []CheckResult {
	if len(ignored) == 0 {
		return pr.CheckResults
	}
	skip := nameSet(ignored)
	out := make([]CheckResult, 0, len(pr.CheckResults))
	for _, c := range pr.CheckResults {
		if skip[c.Name] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// EffectiveCIStatus recomputes the rollup over the ignored-filtered checks.
// If every check was ignored there is nothing left to judge: unknown, not
// failure.
func (pr PullRequest) EffectiveCIStatus(ignored []string) CIStatus {
	if len(ignored) == 0 {
		return pr.CIStatus
	}
	checks := pr.EffectiveCheckResults(ignored)
	counts, pending := tally(checks)
	return RollupStatus(counts.Total, counts.Passed, counts.Failed, pending, "")
}

// EffectiveCheckCounts tallies the ignored-filtered checks.
func (pr PullRequest) EffectiveCheckCounts(ignored []string) CheckCounts {
	counts, _ := tally(pr.EffectiveCheckResults(ignored))
	return counts
}

// EffectiveFailedChecks returns the failed subset of the ignored-filtered
// checks.
func (pr PullRequest) EffectiveFailedChecks(ignored []string) []CheckResult {
	var out []CheckResult
	for _, c := range pr.EffectiveCheckResults(ignored) {
		if c.Status == CheckFailed {
			out = append(out, c)
		}
	}
	return out
}

// EffectiveStatusColor is the display color of the effective CI status.
func (pr PullRequest) EffectiveStatusColor(ignored []string) string {
	return pr.EffectiveCIStatus(ignored).Color()
}

// IsReady reports whether the PR is actionable for review. With no required
// checks configured, readiness means the effective CI status is neither
// failing nor pending. With required checks, only required names that exist
// on this PR's pipeline count; a required check absent from the repo is
// vacuously satisfied, since required lists are global across heterogeneous
// repos.
func (pr PullRequest) IsReady(required, ignored []string) bool {
	if pr.State == StateDraft {
		return false
	}
	if pr.Mergeable == MergeableConflicting {
		return false
	}
	if len(required) == 0 {
		s := pr.EffectiveCIStatus(ignored)
		return s != CIFailure && s != CIPending
	}
	skip := nameSet(ignored)
	byName := make(map[string]CheckState, len(pr.CheckResults))
	for _, c := range pr.CheckResults {
		byName[c.Name] = c.Status
	}
	for _, name := range required {
		if skip[name] {
			continue
		}
		state, ok := byName[name]
		if !ok {
			continue
		}
		if state != CheckPassed {
			return false
		}
	}
	return true
}

// IsSLAExceeded reports whether the review SLA has elapsed since publication.
// Exactly at the deadline is not yet exceeded.
func (pr PullRequest) IsSLAExceeded(minutes int, now time.Time) bool {
	if pr.PublishedAt == nil {
		return false
	}
	deadline := pr.PublishedAt.Add(time.Duration(minutes) * time.Minute)
	return now.After(deadline)
}

func tally(checks []CheckResult) (CheckCounts, int) {
	counts := CheckCounts{Total: len(checks)}
	pending := 0
	for _, c := range checks {
		switch c.Status {
		case CheckPassed:
			counts.Passed++
		case CheckFailed:
			counts.Failed++
		default:
			pending++
		}
	}
	return counts, pending
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
