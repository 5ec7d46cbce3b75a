package model

// FilterOptions are the user-configured view rules, passed explicitly so the
// functions here stay pure.
type FilterOptions struct {
	HideDrafts       bool
	HideApprovedByMe bool
	HideNotReady     bool
	RequiredChecks   []string
	IgnoredChecks    []string
	IgnoredRepos     []string
}

// ApplyFilters drops entities per the configured rules. HideNotReady runs
// last so "not ready" is judged on the already-filtered set.
func ApplyFilters(prs []PullRequest, opts FilterOptions) []PullRequest {
	ignoredRepos := nameSet(opts.IgnoredRepos)

	keep := func(pr PullRequest) bool {
		if ignoredRepos[pr.RepoFullName()] {
			return false
		}
		if opts.HideDrafts && pr.State == StateDraft {
			return false
		}
		if opts.HideApprovedByMe && pr.ViewerHasApproved {
			return false
		}
		return true
	}

	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if keep(pr) {
			out = append(out, pr)
		}
	}

	if !opts.HideNotReady {
		return out
	}
	ready := make([]PullRequest, 0, len(out))
	for _, pr := range out {
		if pr.IsReady(opts.RequiredChecks, opts.IgnoredChecks) {
			ready = append(ready, pr)
		}
	}
	return ready
}
