package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pr-radar/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one refresh cycle and print the readiness view",
	Long: `Fetch your authored and review-requested pull requests once, detect
transitions against the previous cycle's snapshot, send notifications, and
print the filtered, partitioned readiness view.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if err := a.orch.ResolveIdentity(ctx); err != nil {
		return fmt.Errorf("resolving identity (is gh authenticated?): %w", err)
	}

	if a.hist != nil {
		if snap, err := a.hist.LoadSnapshot(); err == nil {
			a.orch.SeedSnapshot(snap)
		}
	}

	a.orch.RefreshAll(ctx)

	if msg := a.orch.LastError(); msg != "" {
		fmt.Fprintf(os.Stderr, "refresh error: %s\n", msg)
	}
	if quiet {
		return nil
	}

	opts := a.cfg.Filters.Options()
	now := time.Now()

	authored := model.ApplyFilters(a.orch.Authored(), opts)
	fmt.Println("=== Your PRs ===")
	printPRTable(authored, opts.IgnoredChecks)

	review := model.ApplyFilters(a.orch.ReviewRequested(), opts)
	buckets := model.Partition(review, opts, a.cfg.Filters.ReviewSLAEnabled, a.cfg.Filters.ReviewSLAMinutes, now)

	fmt.Println()
	fmt.Println("=== Needs Your Review ===")
	if a.cfg.Filters.ReviewSLAEnabled && len(buckets.Overdue) > 0 {
		fmt.Println("-- overdue --")
		printPRTable(buckets.Overdue, opts.IgnoredChecks)
	}
	if len(buckets.Ready) > 0 {
		fmt.Println("-- ready --")
		printPRTable(buckets.Ready, opts.IgnoredChecks)
	}
	if len(buckets.NotReady) > 0 {
		fmt.Println("-- not ready --")
		printPRTable(buckets.NotReady, opts.IgnoredChecks)
	}
	if len(buckets.Overdue)+len(buckets.Ready)+len(buckets.NotReady) == 0 {
		fmt.Println("Nothing waiting on you.")
	}

	return nil
}

func printPRTable(prs []model.PullRequest, ignored []string) {
	if len(prs) == 0 {
		fmt.Println("(none)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPO\t#\tTITLE\tCI\tCHECKS\tREVIEW")

	for _, pr := range prs {
		counts := pr.EffectiveCheckCounts(ignored)
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d/%d\t%s\n",
			pr.RepoFullName(), pr.Number, truncate(pr.Title, 40),
			pr.EffectiveCIStatus(ignored), counts.Passed, counts.Total,
			pr.ReviewDecision)
	}

	w.Flush()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
