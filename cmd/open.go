package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pr-radar/internal/config"
)

var openCmd = &cobra.Command{
	Use:   "open <pr-reference>",
	Short: "Print the canonical URL for a PR reference",
	Long: `Resolve a PR reference into its canonical URL.

PR reference can be:
  - Full URL: https://github.com/org/repo/pull/123
  - Short form: org/repo#123`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ghHost != "" {
		cfg.GHHost = ghHost
	}

	repo, number, err := parseRef(args[0])
	if err != nil {
		return err
	}

	host := cfg.GHHost
	if host == "" {
		host = "github.com"
	}
	fmt.Printf("https://%s/%s/pull/%d\n", host, repo, number)
	return nil
}

func parseRef(ref string) (repo string, number int, err error) {
	// URL format: https://github.com/org/repo/pull/123
	if strings.Contains(ref, "/pull/") {
		parts := strings.Split(ref, "/")
		for i, part := range parts {
			if part == "pull" && i+1 < len(parts) && i >= 2 {
				repo = parts[i-2] + "/" + parts[i-1]
				fmt.Sscanf(parts[i+1], "%d", &number)
				if number > 0 {
					return repo, number, nil
				}
			}
		}
		return "", 0, fmt.Errorf("invalid URL format: %s", ref)
	}

	// org/repo#N format
	if strings.Contains(ref, "#") {
		parts := strings.SplitN(ref, "#", 2)
		fmt.Sscanf(parts[1], "%d", &number)
		if !strings.Contains(parts[0], "/") || number <= 0 {
			return "", 0, fmt.Errorf("invalid reference: %s", ref)
		}
		return parts[0], number, nil
	}

	return "", 0, fmt.Errorf("unrecognized reference: %s", ref)
}
