package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-cfg-structure/internal/config"
	"github.com/l3aro/go-cfg-structure/internal/healthcheck"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gcs configuration interactively",
	Long: `Guides you through setting up gcs configuration step by step.
Creates a config file with structuring, rendering and cache settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func positiveInt(least int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if n < least {
			return fmt.Errorf("must be at least %d", least)
		}
		return nil
	}
}

func runInit() error {
	cfg := config.DefaultConfig()

	// === SECTION 1: Structuring ===
	indent := strconv.Itoa(cfg.Indent)
	workers := strconv.Itoa(cfg.Workers)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Collapse empty blocks").
				Description("Remove blocks that only jump elsewhere before structuring?").
				Affirmative("Yes").
				Negative("No").
				Value(&cfg.EliminateEmpty),
			huh.NewInput().
				Title("Indentation").
				Description("Spaces per nesting level in rendered code (0 for tabs)").
				Placeholder("4").
				Validate(positiveInt(0)).
				Value(&indent),
			huh.NewInput().
				Title("Workers").
				Description("Functions structured concurrently").
				Placeholder("4").
				Validate(positiveInt(1)).
				Value(&workers),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	cfg.Indent, _ = strconv.Atoi(indent)
	cfg.Workers, _ = strconv.Atoi(workers)

	// === SECTION 2: Cache and logging ===
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Result cache").
				Description("Reuse results for functions that did not change between runs?").
				Affirmative("Enable").
				Negative("Disable").
				Value(&cfg.CacheEnabled),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&cfg.LogLevel),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.gcs/config.yaml)", "project"),
					huh.NewOption("Global (~/.gcs/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := config.ProjectConfigFilePath()
	if saveLocationChoice == "global" {
		configPath = config.GlobalConfigFilePath()
	}

	if fileExists(configPath) {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	fmt.Printf("Collapse empty blocks: %t\n", cfg.EliminateEmpty)
	fmt.Printf("Indent: %d\n", cfg.Indent)
	fmt.Printf("Workers: %d\n", cfg.Workers)
	fmt.Printf("Cache: %t (%s)\n", cfg.CacheEnabled, cfg.CacheDir)
	fmt.Printf("Log level: %s\n", cfg.LogLevel)
	fmt.Println("================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)

	// === SECTION 4: Health Check ===
	fmt.Println("\n=== Running Health Check ===")

	loadedCfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading saved config: %w", err)
	}

	result, err := healthcheck.Check(loadedCfg, configPath, configPath)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Printf("\nConfig Scope: %s\n", result.SavedScope)
	if result.SavedScope == "global" {
		fmt.Printf("Config Path: %s\n", configPath)
	} else {
		absPath, _ := filepath.Abs(configPath)
		fmt.Printf("Config Path: %s\n", absPath)
	}

	fmt.Println("\nCache:")
	printStatus(result.Cache)

	if _, err := os.Stat(config.ProjectConfigFilePath()); err == nil && result.SavedScope == "global" {
		fmt.Printf("\nNote: %s exists and takes priority over the global config.\n", config.ProjectConfigFilePath())
	}

	return nil
}
