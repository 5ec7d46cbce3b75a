// Package poller coordinates fetch cycles: it owns the snapshots, drives the
// two per-cycle fetches, runs change detection and dispatches notifications.
package poller

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pr-radar/internal/config"
	"pr-radar/internal/diff"
	"pr-radar/internal/history"
	"pr-radar/internal/model"
	"pr-radar/internal/schedule"
)

// Fetcher is the transport used to reach the review platform.
type Fetcher interface {
	FetchAuthored(ctx context.Context, identity string) ([]model.PullRequest, error)
	FetchReviewRequested(ctx context.Context, identity string) ([]model.PullRequest, error)
	ResolveIdentity(ctx context.Context) (string, error)
}

// Notifier is the OS notification channel.
type Notifier interface {
	Available() bool
	RequestPermission()
	Send(title, body, url string)
}

// Store is the persisted user settings.
type Store interface {
	LoadFilters() config.Filters
	LoadPollInterval() time.Duration
}

// History records completed cycles and the durable snapshot. Optional;
// failures are logged, never fatal.
type History interface {
	RecordCycle(history.Cycle) error
	SaveSnapshot(map[string]model.CIStatus) error
	LoadSnapshot() (map[string]model.CIStatus, error)
}

// Orchestrator holds current fetch state and drives recurring refresh
// cycles. All collaborators are injected; state is mutated only under the
// mutex, never from within the fetch goroutines.
type Orchestrator struct {
	fetcher  Fetcher
	store    Store
	notifier Notifier
	history  History // may be nil
	log      *zap.Logger
	loop     *schedule.Loop

	mu             sync.Mutex
	inFlight       bool
	identity       string
	authored       []model.PullRequest
	review         []model.PullRequest
	lastErr        string
	completedCycle bool

	prevStates  map[string]model.CIStatus
	prevIDs     map[string]struct{}
	hasSnapshot bool
}

func New(fetcher Fetcher, store Store, notifier Notifier, hist History, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		history:  hist,
		log:      log,
		loop:     &schedule.Loop{},
	}
}

// ResolveIdentity asks the transport for the authenticated login and records
// it for subsequent refreshes.
func (o *Orchestrator) ResolveIdentity(ctx context.Context) error {
	id, err := o.fetcher.ResolveIdentity(ctx)
	if err != nil {
		o.log.Warn("identity resolution failed", zap.Error(err))
		return err
	}
	o.mu.Lock()
	o.identity = id
	o.mu.Unlock()
	return nil
}

// SeedSnapshot installs a previous-cycle snapshot, letting a one-shot
// invocation detect transitions against state persisted by an earlier
// process.
func (o *Orchestrator) SeedSnapshot(states map[string]model.CIStatus) {
	if len(states) == 0 {
		return
	}
	ids := make(map[string]struct{}, len(states))
	for id := range states {
		ids[id] = struct{}{}
	}
	o.mu.Lock()
	o.prevStates = states
	o.prevIDs = ids
	o.hasSnapshot = true
	o.mu.Unlock()
}

// Start resolves the identity off the calling goroutine, runs one refresh,
// then begins polling at the configured interval.
func (o *Orchestrator) Start(ctx context.Context) {
	go func() {
		if err := o.ResolveIdentity(ctx); err == nil && o.notifier.Available() {
			o.notifier.RequestPermission()
		}
		o.RefreshAll(ctx)
		o.loop.Start(o.store.LoadPollInterval(), func(c context.Context) {
			if o.Identity() == "" {
				_ = o.ResolveIdentity(c)
			}
			o.RefreshAll(c)
		})
	}()
}

// Close stops the polling loop. An in-flight fetch completes on its own and
// its results are discarded.
func (o *Orchestrator) Close() {
	o.loop.Stop()
}

// RefreshAll runs one fetch cycle. At most one refresh executes at a time; a
// call that finds one in flight returns immediately.
func (o *Orchestrator) RefreshAll(ctx context.Context) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return
	}
	o.inFlight = true
	identity := o.identity
	o.mu.Unlock()

	start := time.Now()
	defer func() {
		o.mu.Lock()
		o.inFlight = false
		// Flips on the very first cycle regardless of outcome so consumers
		// can tell "still loading" from "genuinely empty".
		o.completedCycle = true
		o.mu.Unlock()
	}()

	if identity == "" {
		o.mu.Lock()
		o.lastErr = "authentication missing: no GitHub identity resolved"
		o.mu.Unlock()
		return
	}

	var (
		authored, review       []model.PullRequest
		authoredErr, reviewErr error
	)
	// The two queries have independent failure domains; each holds its own
	// error so one failing must not taint the other.
	var g errgroup.Group
	g.Go(func() error {
		authored, authoredErr = o.fetcher.FetchAuthored(ctx, identity)
		return nil
	})
	g.Go(func() error {
		review, reviewErr = o.fetcher.FetchReviewRequested(ctx, identity)
		return nil
	})
	_ = g.Wait()

	var events []diff.Event
	o.mu.Lock()
	if authoredErr == nil {
		if o.hasSnapshot {
			events = diff.Detect(o.prevStates, o.prevIDs, authored)
		}
		states := make(map[string]model.CIStatus, len(authored))
		ids := make(map[string]struct{}, len(authored))
		for _, pr := range authored {
			states[pr.ID()] = pr.CIStatus
			ids[pr.ID()] = struct{}{}
		}
		o.prevStates = states
		o.prevIDs = ids
		o.hasSnapshot = true
		o.authored = authored
		o.lastErr = ""
	} else {
		// Keep the previous authored list visible through a transient
		// failure.
		o.lastErr = authoredErr.Error()
	}
	if reviewErr == nil {
		o.review = review
	} else {
		msg := "review-requested: " + reviewErr.Error()
		if o.lastErr != "" {
			o.lastErr += "; " + msg
		} else {
			o.lastErr = msg
		}
	}
	lastErr := o.lastErr
	authoredCount := len(o.authored)
	reviewCount := len(o.review)
	var snapshot map[string]model.CIStatus
	if authoredErr == nil {
		snapshot = o.prevStates
	}
	o.mu.Unlock()

	for _, ev := range events {
		o.notifier.Send(ev.Title, ev.Body, ev.URL)
	}

	o.recordCycle(start, authoredCount, reviewCount, len(events), lastErr, snapshot)
}

func (o *Orchestrator) recordCycle(start time.Time, authored, review, sent int, errMsg string, snapshot map[string]model.CIStatus) {
	if o.history == nil {
		return
	}
	c := history.Cycle{
		RanAt:             start,
		AuthoredCount:     authored,
		ReviewCount:       review,
		NotificationsSent: sent,
		DurationMs:        sql.NullInt64{Int64: time.Since(start).Milliseconds(), Valid: true},
	}
	if errMsg != "" {
		c.ErrorMessage = sql.NullString{String: errMsg, Valid: true}
	}
	if err := o.history.RecordCycle(c); err != nil {
		o.log.Warn("recording cycle failed", zap.Error(err))
	}
	if snapshot != nil {
		if err := o.history.SaveSnapshot(snapshot); err != nil {
			o.log.Warn("saving snapshot failed", zap.Error(err))
		}
	}
}

// Authored returns the last successfully fetched authored entities.
func (o *Orchestrator) Authored() []model.PullRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]model.PullRequest(nil), o.authored...)
}

// ReviewRequested returns the last successfully fetched review-requested
// entities.
func (o *Orchestrator) ReviewRequested() []model.PullRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]model.PullRequest(nil), o.review...)
}

// LastError returns the last cycle's error string, empty after a fully
// successful authored fetch with no review failure.
func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// HasCompletedCycle reports whether at least one refresh has finished,
// successfully or not.
func (o *Orchestrator) HasCompletedCycle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completedCycle
}

// Identity returns the resolved login, empty when resolution has not
// succeeded.
func (o *Orchestrator) Identity() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.identity
}
