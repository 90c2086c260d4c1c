// Package commands provides the CLI commands for the go-cfg-structure tool.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-cfg-structure/internal/config"
	"github.com/l3aro/go-cfg-structure/internal/log"
)

var (
	conf   *config.Config
	logger log.Logger = log.Default()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gcs",
	Short: "go-cfg-structure - Turn goto-style control flow into structured code",
	Long: `go-cfg-structure converts control flow graphs made of basic blocks and
goto/if-goto jumps into nested loops, conditionals, breaks and continues.

Graphs are read from YAML or JSON graph files.

Commands:
  structure   Render structured code for every function in the given files
  cfg         Show the control flow graph of a function
  loops       Show dominators, natural loops and loop exits
  init        Create a configuration file interactively

Use "gcs [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			conf = config.DefaultConfig()
			return nil
		}
		return setup(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().String("config", "", "Config file path (default: global then project config)")
	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "Verbose logging")

	RootCmd.AddCommand(structureCmd)
	RootCmd.AddCommand(cfgCmd)
	RootCmd.AddCommand(loopsCmd)
	RootCmd.AddCommand(initCmd)
}

// setup loads the configuration and applies its logging settings.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	var err error
	if path != "" {
		conf, err = config.LoadFromFile(path)
	} else {
		conf, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		conf.Verbose = true
	}

	logger.SetLevel(conf.Level())
	logger.SetJSONOutput(conf.JSONOutput)
	logger.Debug("config loaded", "workers", conf.Workers, "cache", conf.CacheEnabled)
	return nil
}
