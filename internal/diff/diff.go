// Package diff compares successive fetch snapshots and decides what is worth
// notifying about.
package diff

import (
	"fmt"
	"sort"

	"pr-radar/internal/model"
)

// Event is one notification-worthy change. URL is empty when the entity is no
// longer available to recover a live link from.
type Event struct {
	Title string
	Body  string
	URL   string
}

// Detect compares the previous snapshot against the freshly fetched entities.
// Only pending-origin CI transitions notify; settled or flapping PRs stay
// quiet, and entities without a previous record are new arrivals, never
// notified. Every id that disappeared from the set emits its own event.
func Detect(prevStates map[string]model.CIStatus, prevIDs map[string]struct{}, current []model.PullRequest) []Event {
	var events []Event

	seen := make(map[string]struct{}, len(current))
	for _, pr := range current {
		id := pr.ID()
		seen[id] = struct{}{}

		before, ok := prevStates[id]
		if !ok || before != model.CIPending {
			continue
		}
		switch pr.CIStatus {
		case model.CIFailure:
			events = append(events, Event{
				Title: "CI Failed",
				Body:  fmt.Sprintf("%s: %s", id, pr.Title),
				URL:   pr.URL,
			})
		case model.CISuccess:
			events = append(events, Event{
				Title: "All Checks Passed",
				Body:  fmt.Sprintf("%s: %s", id, pr.Title),
				URL:   pr.URL,
			})
		}
	}

	var gone []string
	for id := range prevIDs {
		if _, ok := seen[id]; !ok {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	for _, id := range gone {
		events = append(events, Event{
			Title: "PR No Longer Open",
			Body:  id,
		})
	}

	return events
}
