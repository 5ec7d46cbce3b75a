package github

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pr-radar/internal/model"
)

func baseNode(t *testing.T) prNode {
	t.Helper()
	var n prNode
	raw := `{
		"number": 42,
		"title": "Add feature",
		"url": "https://github.com/acme/api/pull/42",
		"author": {"login": "dev1"},
		"isDraft": false,
		"state": "OPEN",
		"headRefOid": "0123456789abcdef",
		"headRefName": "feature",
		"repository": {"nameWithOwner": "acme/api"},
		"reviewDecision": "REVIEW_REQUIRED",
		"mergeable": "MERGEABLE",
		"approvals": {"totalCount": 1}
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &n))
	return n
}

func TestConvertNode_Basics(t *testing.T) {
	now := time.Now()
	pr, err := convertNode(baseNode(t), "me", now)
	require.NoError(t, err)

	assert.Equal(t, "acme", pr.Owner)
	assert.Equal(t, "api", pr.Repo)
	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "acme/api#42", pr.ID())
	assert.Equal(t, "dev1", pr.Author)
	assert.Equal(t, "0123456", pr.HeadSHA)
	assert.Equal(t, model.StateOpen, pr.State)
	assert.Equal(t, model.DecisionReviewRequired, pr.ReviewDecision)
	assert.Equal(t, model.MergeableClean, pr.Mergeable)
	assert.Equal(t, 1, pr.ApprovalCount)
	assert.Equal(t, now, pr.LastFetched)
	// No check data at all: counts zeroed, status unknown.
	assert.Equal(t, model.CIUnknown, pr.CIStatus)
	assert.Zero(t, pr.ChecksTotal)
}

func TestConvertNode_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*prNode)
	}{
		{"missing number", func(n *prNode) { n.Number = 0 }},
		{"missing title", func(n *prNode) { n.Title = "" }},
		{"unparseable url", func(n *prNode) { n.URL = "::" }},
		{"relative url", func(n *prNode) { n.URL = "/acme/api/pull/42" }},
		{"bad repo name", func(n *prNode) { n.Repository.NameWithOwner = "acme" }},
		{"empty repo segment", func(n *prNode) { n.Repository.NameWithOwner = "acme/" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := baseNode(t)
			tt.mutate(&n)
			_, err := convertNode(n, "me", time.Now())
			assert.Error(t, err)
		})
	}
}

func TestConvertNode_OptionalDefaults(t *testing.T) {
	n := baseNode(t)
	n.Author = nil
	n.State = ""
	n.HeadRefOid = ""
	n.ReviewDecision = ""
	n.Mergeable = ""

	pr, err := convertNode(n, "me", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "unknown", pr.Author)
	assert.Equal(t, model.StateOpen, pr.State)
	assert.Empty(t, pr.HeadSHA)
	assert.Equal(t, model.DecisionNone, pr.ReviewDecision)
	assert.Equal(t, model.MergeableUnknown, pr.Mergeable)
	assert.Nil(t, pr.PublishedAt)
}

func TestConvertNode_DraftAndStates(t *testing.T) {
	n := baseNode(t)
	n.IsDraft = true
	pr, err := convertNode(n, "me", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, pr.State)

	n = baseNode(t)
	n.State = "MERGED"
	pr, err = convertNode(n, "me", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StateMerged, pr.State)
}

func TestConvertNode_MergeQueue(t *testing.T) {
	n := baseNode(t)
	n.MergeQueueEntry = &struct {
		Position int `json:"position"`
	}{Position: 3}

	pr, err := convertNode(n, "me", time.Now())
	require.NoError(t, err)
	assert.True(t, pr.InMergeQueue)
	assert.Equal(t, 3, pr.QueuePosition)
}

func TestClassifyCheck(t *testing.T) {
	tests := []struct {
		name string
		node checkNode
		want model.CheckState
	}{
		{"run in progress", checkNode{Typename: "CheckRun", Name: "build", Status: "IN_PROGRESS"}, model.CheckPending},
		{"run queued", checkNode{Typename: "CheckRun", Name: "build", Status: "QUEUED"}, model.CheckPending},
		{"run success", checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "SUCCESS"}, model.CheckPassed},
		{"run skipped", checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "SKIPPED"}, model.CheckPassed},
		{"run neutral", checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "NEUTRAL"}, model.CheckPassed},
		{"run failure", checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "FAILURE"}, model.CheckFailed},
		{"run cancelled", checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "CANCELLED"}, model.CheckFailed},
		{"run timed out", checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "TIMED_OUT"}, model.CheckFailed},
		{"context success", checkNode{Typename: "StatusContext", Context: "ci/lint", State: "SUCCESS"}, model.CheckPassed},
		{"context failure", checkNode{Typename: "StatusContext", Context: "ci/lint", State: "FAILURE"}, model.CheckFailed},
		{"context error", checkNode{Typename: "StatusContext", Context: "ci/lint", State: "ERROR"}, model.CheckFailed},
		{"context pending", checkNode{Typename: "StatusContext", Context: "ci/lint", State: "PENDING"}, model.CheckPending},
		{"context expected", checkNode{Typename: "StatusContext", Context: "ci/lint", State: "EXPECTED"}, model.CheckPending},
		{"context unrecognized", checkNode{Typename: "StatusContext", Context: "ci/lint", State: "WAT"}, model.CheckPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCheck(tt.node)
			assert.Equal(t, tt.want, got.Status)
			assert.NotEmpty(t, got.Name)
		})
	}
}

func withChecks(t *testing.T, n prNode, rollupState string, totalCount int, checks ...checkNode) prNode {
	t.Helper()
	ru := &rollupNode{State: rollupState}
	ru.Contexts.TotalCount = totalCount
	ru.Contexts.Nodes = checks
	var commit struct {
		Commit struct {
			StatusCheckRollup *rollupNode `json:"statusCheckRollup"`
		} `json:"commit"`
	}
	commit.Commit.StatusCheckRollup = ru
	n.Commits.Nodes = append(n.Commits.Nodes, commit)
	return n
}

func TestConvertNode_CheckAggregation(t *testing.T) {
	n := withChecks(t, baseNode(t), "FAILURE", 3,
		checkNode{Typename: "CheckRun", Name: "build", Status: "COMPLETED", Conclusion: "SUCCESS"},
		checkNode{Typename: "CheckRun", Name: "flaky", Status: "COMPLETED", Conclusion: "FAILURE", DetailsURL: "https://ci/flaky"},
		checkNode{Typename: "StatusContext", Context: "ci/lint", State: "PENDING"},
	)

	pr, err := convertNode(n, "me", time.Now())
	require.NoError(t, err)

	assert.Equal(t, model.CIFailure, pr.CIStatus)
	assert.Equal(t, 3, pr.ChecksTotal)
	assert.Equal(t, 1, pr.ChecksPassed)
	assert.Equal(t, 1, pr.ChecksFailed)
	require.Len(t, pr.FailedChecks, 1)
	assert.Equal(t, "flaky", pr.FailedChecks[0].Name)
	assert.Equal(t, "https://ci/flaky", pr.FailedChecks[0].DetailsURL)
	assert.Len(t, pr.CheckResults, 3)
}

func TestConvertNode_RollupFallback(t *testing.T) {
	// Aggregate-only integration: rollup declares contexts but expands none.
	n := withChecks(t, baseNode(t), "SUCCESS", 2)

	pr, err := convertNode(n, "me", time.Now())
	require.NoError(t, err)

	assert.Equal(t, model.CISuccess, pr.CIStatus)
	assert.Zero(t, pr.ChecksTotal)
	assert.Empty(t, pr.CheckResults)
}

func TestConvertNode_ViewerApproval(t *testing.T) {
	tests := []struct {
		name    string
		reviews []reviewNode
		want    bool
	}{
		{
			name:    "viewer's latest review approved",
			reviews: []reviewNode{{Author: &actor{Login: "Me"}, State: "APPROVED"}},
			want:    true,
		},
		{
			name:    "viewer approved then requested changes",
			reviews: []reviewNode{{Author: &actor{Login: "me"}, State: "CHANGES_REQUESTED"}},
			want:    false,
		},
		{
			name:    "someone else approved",
			reviews: []reviewNode{{Author: &actor{Login: "other"}, State: "APPROVED"}},
			want:    false,
		},
		{
			name: "case-insensitive login match",
			reviews: []reviewNode{
				{Author: &actor{Login: "other"}, State: "CHANGES_REQUESTED"},
				{Author: &actor{Login: "ME"}, State: "APPROVED"},
			},
			want: true,
		},
		{
			name:    "nil author entry skipped",
			reviews: []reviewNode{{Author: nil, State: "APPROVED"}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := baseNode(t)
			n.LatestReviews.Nodes = tt.reviews
			pr, err := convertNode(n, "me", time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, pr.ViewerHasApproved)
		})
	}
}
