package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"pr-radar/internal/model"
)

// convertNode maps a decoded search node into the entity model. A missing or
// unparseable required field fails the whole node; the caller logs and skips.
func convertNode(n prNode, viewer string, now time.Time) (model.PullRequest, error) {
	if n.Number <= 0 {
		return model.PullRequest{}, fmt.Errorf("missing pull request number")
	}
	if n.Title == "" {
		return model.PullRequest{}, fmt.Errorf("missing title")
	}
	if u, err := url.Parse(n.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return model.PullRequest{}, fmt.Errorf("unparseable url %q", n.URL)
	}
	owner, repo, ok := splitRepoFullName(n.Repository.NameWithOwner)
	if !ok {
		return model.PullRequest{}, fmt.Errorf("bad repository name %q", n.Repository.NameWithOwner)
	}

	author := "unknown"
	if n.Author != nil && n.Author.Login != "" {
		author = n.Author.Login
	}

	pr := model.PullRequest{
		Owner:          owner,
		Repo:           repo,
		Number:         n.Number,
		Title:          n.Title,
		Author:         author,
		URL:            n.URL,
		HeadSHA:        shortSHA(n.HeadRefOid),
		HeadBranch:     n.HeadRefName,
		State:          convertState(n),
		ReviewDecision: convertDecision(n.ReviewDecision),
		ApprovalCount:  n.Approvals.TotalCount,
		Mergeable:      convertMergeable(n.Mergeable),
		PublishedAt:    n.PublishedAt,
		LastFetched:    now,
	}

	if n.MergeQueueEntry != nil {
		pr.InMergeQueue = true
		pr.QueuePosition = n.MergeQueueEntry.Position
	}

	pr.ViewerHasApproved = viewerApproved(n.LatestReviews.Nodes, viewer)

	assembleChecks(&pr, n)
	return pr, nil
}

// viewerApproved scans the latest-review-per-reviewer list for the viewer's
// entry. Only the latest review counts: approve-then-request-changes means
// not approved.
func viewerApproved(reviews []reviewNode, viewer string) bool {
	for _, r := range reviews {
		if r.Author != nil && strings.EqualFold(r.Author.Login, viewer) {
			return strings.EqualFold(r.State, "APPROVED")
		}
	}
	return false
}

func assembleChecks(pr *model.PullRequest, n prNode) {
	var rollupState string
	declaredTotal := 0

	if len(n.Commits.Nodes) > 0 {
		if ru := n.Commits.Nodes[0].Commit.StatusCheckRollup; ru != nil {
			rollupState = ru.State
			declaredTotal = ru.Contexts.TotalCount
			for _, cn := range ru.Contexts.Nodes {
				pr.CheckResults = append(pr.CheckResults, classifyCheck(cn))
			}
		}
	}

	passed, failed, pending := 0, 0, 0
	for _, c := range pr.CheckResults {
		switch c.Status {
		case model.CheckPassed:
			passed++
		case model.CheckFailed:
			failed++
			pr.FailedChecks = append(pr.FailedChecks, c)
		default:
			pending++
		}
	}

	pr.ChecksTotal = len(pr.CheckResults)
	pr.ChecksPassed = passed
	pr.ChecksFailed = failed

	// Some integrations report only an aggregate rollup with zero expanded
	// check nodes; the declared total lets the rollup fallback kick in.
	total := len(pr.CheckResults)
	if total == 0 {
		total = declaredTotal
	}
	pr.CIStatus = model.RollupStatus(total, passed, failed, pending, rollupState)
}

func classifyCheck(n checkNode) model.CheckResult {
	if n.Typename == "StatusContext" || (n.Name == "" && n.Context != "") {
		status := model.CheckPending
		switch strings.ToUpper(n.State) {
		case "SUCCESS":
			status = model.CheckPassed
		case "FAILURE", "ERROR":
			status = model.CheckFailed
		}
		return model.CheckResult{Name: n.Context, Status: status, DetailsURL: n.TargetURL}
	}

	status := model.CheckPending
	if strings.EqualFold(n.Status, "COMPLETED") {
		switch strings.ToUpper(n.Conclusion) {
		case "SUCCESS", "SKIPPED", "NEUTRAL":
			status = model.CheckPassed
		default:
			status = model.CheckFailed
		}
	}
	return model.CheckResult{Name: n.Name, Status: status, DetailsURL: n.DetailsURL}
}

func convertState(n prNode) model.PRState {
	if n.IsDraft {
		return model.StateDraft
	}
	switch strings.ToUpper(n.State) {
	case "CLOSED":
		return model.StateClosed
	case "MERGED":
		return model.StateMerged
	default:
		return model.StateOpen
	}
}

func convertDecision(s string) model.ReviewDecision {
	switch strings.ToUpper(s) {
	case "REVIEW_REQUIRED":
		return model.DecisionReviewRequired
	case "CHANGES_REQUESTED":
		return model.DecisionChangesRequested
	case "APPROVED":
		return model.DecisionApproved
	default:
		return model.DecisionNone
	}
}

func convertMergeable(s string) model.Mergeable {
	switch strings.ToUpper(s) {
	case "MERGEABLE":
		return model.MergeableClean
	case "CONFLICTING":
		return model.MergeableConflicting
	default:
		return model.MergeableUnknown
	}
}

func splitRepoFullName(full string) (owner, repo string, ok bool) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
