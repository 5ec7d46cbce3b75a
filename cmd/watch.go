package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll continuously and notify on changes",
	Long: `Resolve the gh identity, refresh immediately, then keep polling at
the configured interval until interrupted. Notifications fire when a PR's
pending checks settle or a PR drops out of your authored set.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.hist != nil {
		if snap, err := a.hist.LoadSnapshot(); err == nil {
			a.orch.SeedSnapshot(snap)
		}
	}

	a.orch.Start(ctx)

	if !quiet {
		fmt.Printf("Polling every %s. Ctrl-C to stop.\n", a.cfg.LoadPollInterval())
	}

	<-ctx.Done()
	a.orch.Close()

	if !quiet {
		fmt.Println("Stopped.")
	}
	return nil
}
