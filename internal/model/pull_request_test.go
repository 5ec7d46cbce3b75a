package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func checksPR(checks ...CheckResult) PullRequest {
	pr := PullRequest{
		Owner:        "acme",
		Repo:         "api",
		Number:       7,
		Title:        "Add endpoint",
		State:        StateOpen,
		Mergeable:    MergeableClean,
		CheckResults: checks,
	}
	passed, failed, pending := 0, 0, 0
	for _, c := range checks {
		switch c.Status {
		case CheckPassed:
			passed++
		case CheckFailed:
			failed++
			pr.FailedChecks = append(pr.FailedChecks, c)
		default:
			pending++
		}
	}
	pr.ChecksTotal = len(checks)
	pr.ChecksPassed = passed
	pr.ChecksFailed = failed
	pr.CIStatus = RollupStatus(len(checks), passed, failed, pending, "")
	return pr
}

func TestID(t *testing.T) {
	pr := PullRequest{Owner: "acme", Repo: "api", Number: 42}
	assert.Equal(t, "acme/api#42", pr.ID())
}

func TestEffectiveCIStatus_EmptyIgnoreListIsIdentity(t *testing.T) {
	prs := []PullRequest{
		checksPR(),
		checksPR(CheckResult{Name: "build", Status: CheckPassed}),
		checksPR(CheckResult{Name: "build", Status: CheckFailed}),
		checksPR(CheckResult{Name: "build", Status: CheckPending}),
	}
	for _, pr := range prs {
		assert.Equal(t, pr.CIStatus, pr.EffectiveCIStatus(nil))
		assert.Equal(t, pr.CIStatus, pr.EffectiveCIStatus([]string{}))
	}
}

func TestEffectiveValues_IgnoredFailingCheck(t *testing.T) {
	pr := checksPR(
		CheckResult{Name: "build", Status: CheckPassed},
		CheckResult{Name: "flaky", Status: CheckFailed},
	)
	ignored := []string{"flaky"}

	assert.Equal(t, CISuccess, pr.EffectiveCIStatus(ignored))
	assert.Equal(t, CheckCounts{Total: 1, Passed: 1, Failed: 0}, pr.EffectiveCheckCounts(ignored))
	assert.Empty(t, pr.EffectiveFailedChecks(ignored))
	assert.Equal(t, "green", pr.EffectiveStatusColor(ignored))

	// The raw facts stay untouched.
	assert.Equal(t, CIFailure, pr.CIStatus)
	assert.Len(t, pr.FailedChecks, 1)
}

func TestEffectiveCIStatus_AllChecksIgnored(t *testing.T) {
	pr := checksPR(CheckResult{Name: "flaky", Status: CheckFailed})
	// Everything ignored means nothing left to judge, not everything failed.
	assert.Equal(t, CIUnknown, pr.EffectiveCIStatus([]string{"flaky"}))
}

func TestIsReady(t *testing.T) {
	tests := []struct {
		name     string
		pr       PullRequest
		required []string
		ignored  []string
		want     bool
	}{
		{
			name: "draft is never ready",
			pr: func() PullRequest {
				pr := checksPR(CheckResult{Name: "build", Status: CheckPassed})
				pr.State = StateDraft
				return pr
			}(),
			want: false,
		},
		{
			name: "conflicting is never ready",
			pr: func() PullRequest {
				pr := checksPR(CheckResult{Name: "build", Status: CheckPassed})
				pr.Mergeable = MergeableConflicting
				return pr
			}(),
			want: false,
		},
		{
			name: "no required, passing checks",
			pr:   checksPR(CheckResult{Name: "build", Status: CheckPassed}),
			want: true,
		},
		{
			name: "no required, failing checks",
			pr:   checksPR(CheckResult{Name: "build", Status: CheckFailed}),
			want: false,
		},
		{
			name: "no required, pending checks",
			pr:   checksPR(CheckResult{Name: "build", Status: CheckPending}),
			want: false,
		},
		{
			name: "no required, no checks at all",
			pr:   checksPR(),
			want: true,
		},
		{
			name:     "required check absent from repo pipeline is vacuous",
			pr:       checksPR(CheckResult{Name: "unit", Status: CheckPassed}),
			required: []string{"Bazel-Pipeline-PR"},
			want:     true,
		},
		{
			name: "required check present and failing",
			pr: checksPR(
				CheckResult{Name: "unit", Status: CheckPassed},
				CheckResult{Name: "lint", Status: CheckFailed},
			),
			required: []string{"lint"},
			want:     false,
		},
		{
			name: "required check present and pending",
			pr: checksPR(
				CheckResult{Name: "lint", Status: CheckPending},
			),
			required: []string{"lint"},
			want:     false,
		},
		{
			name: "required but ignored failing check is skipped",
			pr: checksPR(
				CheckResult{Name: "lint", Status: CheckFailed},
			),
			required: []string{"lint"},
			ignored:  []string{"lint"},
			want:     true,
		},
		{
			name: "required list ignores unrelated failures",
			pr: checksPR(
				CheckResult{Name: "lint", Status: CheckPassed},
				CheckResult{Name: "e2e", Status: CheckFailed},
			),
			required: []string{"lint"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pr.IsReady(tt.required, tt.ignored))
		})
	}
}

func TestIsReady_IgnoringFailingCheckNeverUnreadies(t *testing.T) {
	pr := checksPR(
		CheckResult{Name: "build", Status: CheckPassed},
		CheckResult{Name: "flaky", Status: CheckFailed},
	)

	assert.False(t, pr.IsReady(nil, nil))
	assert.True(t, pr.IsReady(nil, []string{"flaky"}))
}

func TestIsSLAExceeded(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("no publication time means no SLA", func(t *testing.T) {
		pr := PullRequest{}
		assert.False(t, pr.IsSLAExceeded(480, now))
	})

	t.Run("exactly at the deadline is not exceeded", func(t *testing.T) {
		published := now.Add(-480 * time.Minute)
		pr := PullRequest{PublishedAt: &published}
		assert.False(t, pr.IsSLAExceeded(480, now))
		assert.True(t, pr.IsSLAExceeded(480, now.Add(time.Second)))
	})
}

func TestCIStatusColor(t *testing.T) {
	assert.Equal(t, "green", CISuccess.Color())
	assert.Equal(t, "yellow", CIPending.Color())
	assert.Equal(t, "red", CIFailure.Color())
	assert.Equal(t, "gray", CIUnknown.Color())
}

func TestRollupStatus_Fallback(t *testing.T) {
	// Aggregate-only integrations: a declared total but zero expanded nodes.
	assert.Equal(t, CISuccess, RollupStatus(3, 0, 0, 0, "SUCCESS"))
	assert.Equal(t, CIFailure, RollupStatus(3, 0, 0, 0, "ERROR"))
	assert.Equal(t, CIPending, RollupStatus(3, 0, 0, 0, "PENDING"))
	assert.Equal(t, CIUnknown, RollupStatus(3, 0, 0, 0, "EXPECTED"))
	assert.Equal(t, CIUnknown, RollupStatus(0, 0, 0, 0, "SUCCESS"))
}
