package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"pr-radar/internal/model"
)

const (
	callTimeout = 30 * time.Second
	pageSize    = 100
	maxPages    = 10
	maxEntities = 1000
)

// Executor runs an external command. Tests substitute a fake.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type RealExecutor struct{}

func (e *RealExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Client fetches pull requests through the gh CLI's GraphQL endpoint.
type Client struct {
	executor Executor
	host     string
	log      *zap.Logger
}

func NewClient(executor Executor, host string, log *zap.Logger) *Client {
	return &Client{
		executor: executor,
		host:     host,
		log:      log,
	}
}

var searchQuery = fmt.Sprintf(`query($searchQuery: String!, $cursor: String) {
  search(query: $searchQuery, type: ISSUE, first: %d, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    nodes {
      ... on PullRequest {
        number title url isDraft state headRefOid headRefName publishedAt
        author { login }
        repository { nameWithOwner }
        reviewDecision mergeable
        mergeQueueEntry { position }
        approvals: reviews(states: APPROVED) { totalCount }
        latestReviews(first: 50) { nodes { author { login } state } }
        commits(last: 1) { nodes { commit { statusCheckRollup {
          state
          contexts(first: 100) {
            totalCount
            nodes {
              __typename
              ... on CheckRun { name status conclusion detailsUrl }
              ... on StatusContext { context state targetUrl }
            }
          }
        } } } }
      }
    }
  }
}`, pageSize)

// FetchAuthored returns the viewer's open authored pull requests.
func (c *Client) FetchAuthored(ctx context.Context, identity string) ([]model.PullRequest, error) {
	return c.search(ctx, fmt.Sprintf("author:%s type:pr state:open", identity), identity)
}

// FetchReviewRequested returns open pull requests awaiting the viewer's review.
func (c *Client) FetchReviewRequested(ctx context.Context, identity string) ([]model.PullRequest, error) {
	return c.search(ctx, fmt.Sprintf("review-requested:%s type:pr state:open", identity), identity)
}

// ResolveIdentity returns the authenticated gh login.
func (c *Client) ResolveIdentity(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "api", "user", "--jq", ".login")
	if err != nil {
		return "", err
	}
	login := strings.TrimSpace(string(out))
	if login == "" {
		return "", &InvalidResponseError{Err: errors.New("empty login in gh api user output")}
	}
	return login, nil
}

func (c *Client) search(ctx context.Context, expr, viewer string) ([]model.PullRequest, error) {
	var prs []model.PullRequest
	cursor := ""
	for page := 1; ; page++ {
		pg, err := c.fetchPage(ctx, expr, cursor)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		for _, node := range pg.Nodes {
			pr, err := convertNode(node, viewer, now)
			if err != nil {
				c.log.Warn("dropping malformed pull request node",
					zap.String("url", node.URL), zap.Error(err))
				continue
			}
			prs = append(prs, pr)
		}
		if !pg.PageInfo.HasNextPage {
			break
		}
		// The search API has no hard upper bound; a misbehaving account
		// must not produce unbounded requests.
		if page >= maxPages || len(prs) >= maxEntities {
			c.log.Warn("search pagination cap reached, truncating results",
				zap.String("query", expr), zap.Int("pages", page), zap.Int("entities", len(prs)))
			break
		}
		cursor = pg.PageInfo.EndCursor
	}
	return prs, nil
}

func (c *Client) fetchPage(ctx context.Context, expr, cursor string) (searchPage, error) {
	args := []string{"api", "graphql",
		"-f", "query=" + searchQuery,
		"-f", "searchQuery=" + expr}
	if cursor != "" {
		args = append(args, "-f", "cursor="+cursor)
	}

	out, err := c.run(ctx, args...)
	if err != nil {
		return searchPage{}, err
	}

	var env envelope
	if err := json.Unmarshal(out, &env); err != nil {
		return searchPage{}, &InvalidResponseError{Err: err}
	}
	if len(env.Errors) > 0 {
		return searchPage{}, &APIError{Message: env.Errors[0].Message}
	}
	return env.Data.Search, nil
}

// run executes gh with a per-call deadline and classifies failures into the
// error taxonomy.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var out []byte
	var err error
	if c.host != "" {
		// Use env to set GH_HOST for the command
		out, err = c.executor.Run(cctx, "env", append([]string{"GH_HOST=" + c.host, "gh"}, args...)...)
	} else {
		out, err = c.executor.Run(cctx, "gh", args...)
	}
	if err == nil {
		return out, nil
	}
	if cctx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{Err: err}
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, &TransportError{Err: err}
	}
	if len(out) > 0 {
		// gh exits non-zero on GraphQL errors but still prints the
		// envelope; let the caller surface the protocol error from it.
		return out, nil
	}
	if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
		return nil, &APIError{Message: msg}
	}
	return nil, &TransportError{Err: err}
}
