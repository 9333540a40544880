package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

var updateRepository string

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:               "update",
	Short:             "Update supadata to the latest release",
	Long:              `Check GitHub for a newer release and replace the running binary with it.`,
	PersistentPreRunE: initializeLogging,
	RunE:              runUpdate,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: initializeLogging,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("supadata %s\n", version)
		fmt.Printf("Built: %s\n", buildTime)
		fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		if _, err := semver.ParseTolerant(version); err != nil {
			fmt.Println("Development build")
		}
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateRepository, "repository", "s0up4200/supadata-go", "GitHub repository to fetch releases from")

	rootCmd.AddCommand(updateCmd, versionCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update development build %q", version)
	}

	logger.Info().Str("repository", updateRepository).Str("current", current.String()).Msg("Checking for updates...")

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Printf("Already up to date (%s)\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Str("asset", latest.AssetName).Msg("Downloading release")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}
