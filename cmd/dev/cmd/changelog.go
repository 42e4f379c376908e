package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

const defaultChangelog = "CHANGELOG.md"

func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate CHANGELOG.md from conventional commits",
		Long: `Generate the changelog with git-chglog (must be in PATH).

Examples:
  dev changelog
  dev changelog --next v0.2.0
  dev changelog --tag v0.1.0 --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			next, _ := cmd.Flags().GetString("next")
			output, _ := cmd.Flags().GetString("output")
			tag, _ := cmd.Flags().GetString("tag")

			if _, err := exec.LookPath("git-chglog"); err != nil {
				slog.Error("git-chglog not found, install with: go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest")
				return fmt.Errorf("git-chglog not installed: %w", err)
			}
			chglogArgs := changelogArgs(next, output, tag)
			slog.Info("running git-chglog", "args", chglogArgs)
			gitChglog := exec.CommandContext(cmd.Context(), "git-chglog", chglogArgs...)
			gitChglog.Stdout = os.Stdout
			gitChglog.Stderr = os.Stderr
			if err := gitChglog.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			slog.Info("changelog generated", "output", chglogArgs[len(chglogArgs)-1])
			return nil
		},
	}

	cmd.Flags().String("next", "", "next version tag (e.g. v0.2.0)")
	cmd.Flags().String("output", defaultChangelog, "output file path")
	cmd.Flags().String("tag", "", "generate changelog for a specific tag")

	return cmd
}

func changelogArgs(next, output, tag string) []string {
	var args []string
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	if tag != "" {
		args = append(args, tag)
	}
	if output == "" {
		output = defaultChangelog
	}
	return append(args, "--output", output)
}
