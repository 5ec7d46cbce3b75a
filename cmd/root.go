package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pr-radar/internal/config"
	"pr-radar/internal/github"
	"pr-radar/internal/history"
	"pr-radar/internal/notify"
	"pr-radar/internal/poller"
	"pr-radar/pkg/logger"
)

var (
	configPath string
	quiet      bool
	ghHost     string
)

var rootCmd = &cobra.Command{
	Use:   "pr-radar",
	Short: "Monitor review and CI readiness of your pull requests",
	Long: `pr-radar polls GitHub for your authored and review-requested pull
requests, reconstructs their review/CI readiness, and sends desktop
notifications when a PR's checks settle or a PR disappears.

Filtering rules (required checks, ignored checks, ignored repositories,
draft/approval hiding, review SLA) live in the config file and shape the
rendered views.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.config/pr-radar/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&ghHost, "host", "", "GitHub host override")
}

type app struct {
	cfg  *config.Config
	log  *zap.Logger
	hist *history.Store
	orch *poller.Orchestrator
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if ghHost != "" {
		cfg.GHHost = ghHost
	}

	log, err := logger.New(quiet || getQuietEnv())
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	client := github.NewClient(&github.RealExecutor{}, cfg.GHHost, log)
	notifier := notify.NewDesktop(cfg.SoundEnabled, log)

	var hist *history.Store
	var histStore poller.History
	hist, err = history.Open(cfg.HistoryPath)
	if err != nil {
		log.Warn("cycle history unavailable", zap.Error(err))
		hist = nil
	} else {
		histStore = hist
	}

	orch := poller.New(client, cfg, notifier, histStore, log)

	return &app{
		cfg:  cfg,
		log:  log,
		hist: hist,
		orch: orch,
	}, nil
}

func (a *app) close() {
	if a.hist != nil {
		a.hist.Close()
	}
	_ = a.log.Sync()
}

func getQuietEnv() bool {
	return os.Getenv("PR_RADAR_QUIET") == "1"
}
