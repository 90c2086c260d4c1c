package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-cfg-structure/internal/runner"
	"github.com/l3aro/go-cfg-structure/internal/scanner"
	"github.com/l3aro/go-cfg-structure/pkg/cache"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
)

// structureCmd represents the structure command
var structureCmd = &cobra.Command{
	Use:   "structure [paths...]",
	Short: "Render structured code for every function in the given files",
	Long: `Reads every graph file in the given paths (directories are scanned for
.yaml, .yml and .json files, honouring .gcsignore) and prints the structured
code of each function.

Functions that cannot be structured are reported and do not stop the run;
the command exits non-zero when any function failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		if cmd.Flags().Changed("workers") {
			conf.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("indent") {
			conf.Indent, _ = cmd.Flags().GetInt("indent")
		}
		if cmd.Flags().Changed("keep-empty") {
			keep, _ := cmd.Flags().GetBool("keep-empty")
			conf.EliminateEmpty = !keep
		}
		if noCache {
			conf.CacheEnabled = false
		}
		if err := conf.Validate(); err != nil {
			return err
		}

		return runStructure(cmd, paths, jsonOutput)
	},
}

func init() {
	structureCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	structureCmd.Flags().Bool("no-cache", false, "Ignore and do not update the result cache")
	structureCmd.Flags().IntP("workers", "w", 0, "Functions structured concurrently (default from config)")
	structureCmd.Flags().Int("indent", 0, "Spaces per nesting level, 0 for tabs (default from config)")
	structureCmd.Flags().Bool("keep-empty", false, "Do not collapse empty redirect blocks")
}

func runStructure(cmd *cobra.Command, paths []string, jsonOutput bool) error {
	files, err := scanner.ScanAll(paths, scanner.DefaultOptions())
	if err != nil {
		return fmt.Errorf("scanning paths: %w", err)
	}

	jobs, err := runner.LoadJobs(files)
	if err != nil {
		return fmt.Errorf("loading graph files: %w", err)
	}

	if len(jobs) == 0 {
		if jsonOutput {
			fmt.Println("[]")
		} else {
			fmt.Println("No graph files found")
		}
		return nil
	}

	var c *cache.LRUCache
	if conf.CacheEnabled {
		c = cache.New(cache.Options{MaxSize: conf.CacheSize})
		if err := cache.LoadFromFile(c, conf.CacheFile()); err != nil {
			logger.Warn("ignoring unreadable cache", "path", conf.CacheFile(), "error", err)
			c = cache.New(cache.Options{MaxSize: conf.CacheSize})
		}
	}

	results, err := runner.Run(cmd.Context(), jobs, runner.Options{
		Workers:        conf.Workers,
		EliminateEmpty: conf.EliminateEmpty,
		Render:         stmt.Options{Indent: conf.Indent},
		Cache:          c,
		Progress:       !jsonOutput,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if c != nil {
		if err := cache.PersistToFile(c, conf.CacheFile()); err != nil {
			logger.Warn("failed to save cache", "path", conf.CacheFile(), "error", err)
		}
	}

	if jsonOutput {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printResults(results)
	}

	summary := runner.Summarize(results)
	logger.Info("structuring finished",
		"functions", summary.Total,
		"failed", summary.Failed,
		"cached", summary.Cached,
	)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d functions could not be structured", summary.Failed, summary.Total)
	}
	return nil
}

func printResults(results []runner.Result) {
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", r.File, r.Function, r.Error)
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("// %s: %s\n", r.File, r.Function)
		fmt.Print(r.Output)
	}
}
