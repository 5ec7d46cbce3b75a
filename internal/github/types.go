package github

import "time"

// envelope is the top-level GraphQL response shape. A populated Errors list
// takes precedence over Data.
type envelope struct {
	Data struct {
		Search searchPage `json:"search"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type searchPage struct {
	PageInfo pageInfo `json:"pageInfo"`
	Nodes    []prNode `json:"nodes"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type actor struct {
	Login string `json:"login"`
}

type prNode struct {
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Author      *actor     `json:"author"`
	IsDraft     bool       `json:"isDraft"`
	State       string     `json:"state"`
	HeadRefOid  string     `json:"headRefOid"`
	HeadRefName string     `json:"headRefName"`
	PublishedAt *time.Time `json:"publishedAt"`

	Repository struct {
		NameWithOwner string `json:"nameWithOwner"`
	} `json:"repository"`

	ReviewDecision  string `json:"reviewDecision"`
	Mergeable       string `json:"mergeable"`
	MergeQueueEntry *struct {
		Position int `json:"position"`
	} `json:"mergeQueueEntry"`

	Approvals struct {
		TotalCount int `json:"totalCount"`
	} `json:"approvals"`

	LatestReviews struct {
		Nodes []reviewNode `json:"nodes"`
	} `json:"latestReviews"`

	Commits struct {
		Nodes []struct {
			Commit struct {
				StatusCheckRollup *rollupNode `json:"statusCheckRollup"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"commits"`
}

type reviewNode struct {
	Author *actor `json:"author"`
	State  string `json:"state"`
}

type rollupNode struct {
	State    string `json:"state"`
	Contexts struct {
		TotalCount int         `json:"totalCount"`
		Nodes      []checkNode `json:"nodes"`
	} `json:"contexts"`
}

// checkNode is either a CheckRun (status/conclusion) or a StatusContext
// (bare state). Typename discriminates.
type checkNode struct {
	Typename string `json:"__typename"`

	// CheckRun fields.
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	DetailsURL string `json:"detailsUrl"`

	// StatusContext fields.
	Context   string `json:"context"`
	State     string `json:"state"`
	TargetURL string `json:"targetUrl"`
}
