package model

import "time"

// Buckets is a display partition of a filtered collection. The buckets are
// mutually exclusive: an overdue entity never also appears in Ready or
// NotReady.
type Buckets struct {
	Overdue  []PullRequest
	Ready    []PullRequest
	NotReady []PullRequest
}

// Partition splits prs into Overdue (only when the SLA is enabled), Ready and
// NotReady, in that priority order.
func Partition(prs []PullRequest, opts FilterOptions, slaEnabled bool, slaMinutes int, now time.Time) Buckets {
	var b Buckets
	for _, pr := range prs {
		switch {
		case slaEnabled && pr.IsSLAExceeded(slaMinutes, now):
			b.Overdue = append(b.Overdue, pr)
		case pr.IsReady(opts.RequiredChecks, opts.IgnoredChecks):
			b.Ready = append(b.Ready, pr)
		default:
			b.NotReady = append(b.NotReady, pr)
		}
	}
	return b
}
