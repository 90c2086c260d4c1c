package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-cfg-structure/internal/config"
	"github.com/l3aro/go-cfg-structure/internal/healthcheck"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on configuration and the result cache",
	Long: `Checks the effective configuration and verifies that the result cache
directory is writable and the persisted cache can be read.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = effectiveConfigPath()
		}

		result, err := healthcheck.Check(conf, "", path)
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		displayDoctorResult(result)

		if result.Failed() {
			return fmt.Errorf("health check failed: see errors above")
		}
		return nil
	},
}

// effectiveConfigPath returns the highest priority config file that exists,
// or "" when only defaults apply.
func effectiveConfigPath() string {
	for _, path := range []string{config.ProjectConfigFilePath(), config.GlobalConfigFilePath()} {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func displayDoctorResult(result *healthcheck.HealthCheckResult) {
	if result.EffectivePath != "" {
		fmt.Printf("Using config: %s (%s)\n\n", result.EffectivePath, result.EffectiveScope)
	} else {
		fmt.Print("Using config: defaults (run 'gcs init' to create a config file)\n\n")
	}

	fmt.Println("Config:")
	fmt.Printf("  Settings: %s\n", result.Config.Detail)
	printStatus(result.Config)

	fmt.Println("\nCache:")
	fmt.Printf("  Path: %s\n", result.Cache.Path)
	if result.Cache.Detail != "" {
		fmt.Printf("  Contents: %s\n", result.Cache.Detail)
	}
	printStatus(result.Cache)
}

func printStatus(s healthcheck.ComponentStatus) {
	fmt.Printf("  Status: %s %s\n", formatStatusIcon(s.Status), s.Status)
	if s.Error != "" && s.Status == "error" {
		fmt.Printf("  Error: %s\n", s.Error)
	}
}

func formatStatusIcon(status string) string {
	switch status {
	case "ready", "empty":
		return "✓"
	case "disabled":
		return "○"
	case "error":
		return "✗"
	default:
		return "?"
	}
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
