package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg <file> [function]",
	Short: "Show the control flow graph of a function",
	Long: `Prints the goto-style listing of every function in a graph file, or of the
named function. With --json it outputs a description with typed blocks and
edges, loops and cyclomatic complexity instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		name := ""
		if len(args) > 1 {
			name = args[1]
		}

		info, err := os.Stat(filePath)
		if err != nil {
			return fmt.Errorf("stat file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("path is a directory, expected a file: %s", filePath)
		}

		fns, err := loadFunctions(filePath, name)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		eliminate, _ := cmd.Flags().GetBool("eliminate-empty")

		var infos []*cfg.Info
		for i, fn := range fns {
			g := fn.Graph
			if eliminate {
				g = cfg.RemoveEmptyBlocks(g)
			}

			if jsonOutput {
				infos = append(infos, cfg.Describe(fn.Name, g, stmt.Block.Texts, condText))
				continue
			}

			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("// %s\n", fn.Name)
			if err := cfg.Dump(os.Stdout, g, blockText, condText); err != nil {
				return err
			}
		}

		if jsonOutput {
			data, err := json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
		}
		return nil
	},
}

func init() {
	cfgCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	cfgCmd.Flags().BoolP("eliminate-empty", "e", false, "Collapse empty redirect blocks first")
}
