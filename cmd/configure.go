package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pr-radar/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change filter settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("Poll interval:     %ds\n", cfg.PollIntervalSeconds)
		fmt.Printf("Hide drafts:       %v\n", cfg.Filters.HideDrafts)
		fmt.Printf("Hide approved:     %v\n", cfg.Filters.HideApprovedByMe)
		fmt.Printf("Hide not ready:    %v\n", cfg.Filters.HideNotReady)
		fmt.Printf("Required checks:   %s\n", orNone(cfg.Filters.RequiredChecks))
		fmt.Printf("Ignored checks:    %s\n", orNone(cfg.Filters.IgnoredChecks))
		fmt.Printf("Ignored repos:     %s\n", orNone(cfg.Filters.IgnoredRepos))
		fmt.Printf("Review SLA:        enabled=%v, %d minutes\n",
			cfg.Filters.ReviewSLAEnabled, cfg.Filters.ReviewSLAMinutes)
		return nil
	},
}

var configSetIntervalCmd = &cobra.Command{
	Use:   "set-interval <seconds>",
	Short: "Set the poll interval",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid interval %q", args[0])
		}
		return mutateConfig(func(cfg *config.Config) error {
			return cfg.SetPollInterval(seconds)
		})
	},
}

var configRequireCheckCmd = &cobra.Command{
	Use:   "require-check <name>",
	Short: "Add a required check name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(func(cfg *config.Config) error {
			return cfg.AddRequiredCheck(args[0])
		})
	},
}

var configIgnoreCheckCmd = &cobra.Command{
	Use:   "ignore-check <name>",
	Short: "Add an ignored check name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateConfig(func(cfg *config.Config) error {
			return cfg.AddIgnoredCheck(args[0])
		})
	},
}

var configIgnoreRepoCmd = &cobra.Command{
	Use:   "ignore-repo <owner/repo>",
	Short: "Add an ignored repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if parts := strings.Split(args[0], "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("repository must be owner/repo, got %q", args[0])
		}
		return mutateConfig(func(cfg *config.Config) error {
			cfg.AddIgnoredRepo(args[0])
			return nil
		})
	},
}

var configHideCmd = &cobra.Command{
	Use:   "hide <drafts|approved|not-ready> <on|off>",
	Short: "Toggle a hiding rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		on := args[1] == "on"
		if !on && args[1] != "off" {
			return fmt.Errorf("expected on or off, got %q", args[1])
		}
		return mutateConfig(func(cfg *config.Config) error {
			switch args[0] {
			case "drafts":
				cfg.Filters.HideDrafts = on
			case "approved":
				cfg.Filters.HideApprovedByMe = on
			case "not-ready":
				cfg.Filters.HideNotReady = on
			default:
				return fmt.Errorf("unknown rule %q", args[0])
			}
			return nil
		})
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetIntervalCmd,
		configRequireCheckCmd, configIgnoreCheckCmd, configIgnoreRepoCmd,
		configHideCmd)
	rootCmd.AddCommand(configCmd)
}

func mutateConfig(mutate func(*config.Config) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := mutate(cfg); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if !quiet {
		fmt.Printf("Saved: %s\n", cfg.ConfigPath)
	}
	return nil
}

func orNone(list []string) string {
	if len(list) == 0 {
		return "(none)"
	}
	return strings.Join(list, ", ")
}
