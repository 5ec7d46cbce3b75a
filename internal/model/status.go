package model

// CIStatus is the aggregate state of all checks on a PR's head commit.
type CIStatus string

// CIStatus values.
const (
	CIUnknown CIStatus = "unknown"
	CISuccess CIStatus = "success"
	CIPending CIStatus = "pending"
	CIFailure CIStatus = "failure"
)

// Color maps a CI status to the color used when rendering it.
func (s CIStatus) Color() string {
	switch s {
	case CISuccess:
		return "green"
	case CIPending:
		return "yellow"
	case CIFailure:
		return "red"
	default:
		return "gray"
	}
}

// PRState is the lifecycle state of a pull request.
type PRState string

// PRState values.
const (
	StateOpen   PRState = "open"
	StateDraft  PRState = "draft"
	StateClosed PRState = "closed"
	StateMerged PRState = "merged"
)

// ReviewDecision is the repository's aggregate review verdict.
type ReviewDecision string

// ReviewDecision values.
const (
	DecisionNone             ReviewDecision = "none"
	DecisionReviewRequired   ReviewDecision = "review_required"
	DecisionChangesRequested ReviewDecision = "changes_requested"
	DecisionApproved         ReviewDecision = "approved"
)

// Mergeable is GitHub's view of whether the PR can merge cleanly.
type Mergeable string

// Mergeable values.
const (
	MergeableUnknown     Mergeable = "unknown"
	MergeableClean       Mergeable = "mergeable"
	MergeableConflicting Mergeable = "conflicting"
)

// CheckState is the normalized result of a single check.
type CheckState string

// CheckState values.
const (
	CheckPassed  CheckState = "passed"
	CheckPending CheckState = "pending"
	CheckFailed  CheckState = "failed"
)

// CheckResult is one normalized CI check on a head commit.
type CheckResult struct {
	Name       string
	Status     CheckState
	DetailsURL string
}

// CheckCounts tallies check results by outcome.
type CheckCounts struct {
	Total  int
	Passed int
	Failed int
}

// RollupStatus computes the aggregate CI status from per-check tallies, with
// fallbackState (the raw provider rollup, e.g. "SUCCESS") covering
// integrations that report an aggregate but expand zero check nodes.
func RollupStatus(total, passed, failed, pending int, fallbackState string) CIStatus {
	switch {
	case total == 0:
		return CIUnknown
	case failed > 0:
		return CIFailure
	case pending > 0:
		return CIPending
	case passed == 0:
		return rollupFromState(fallbackState)
	default:
		return CISuccess
	}
}

func rollupFromState(state string) CIStatus {
	switch state {
	case "SUCCESS", "success":
		return CISuccess
	case "FAILURE", "failure", "ERROR", "error":
		return CIFailure
	case "PENDING", "pending":
		return CIPending
	default:
		return CIUnknown
	}
}
