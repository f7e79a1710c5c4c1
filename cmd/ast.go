package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cygnusbill/treepath"
	"github.com/cygnusbill/treepath/formatter"
	"github.com/cygnusbill/treepath/tree"
)

var astMaxDepth int

var astCmd = &cobra.Command{
	Use:   "ast [files...]",
	Short: "Print the adapter's view of a file's tree",
	Long: `Dumps the node kinds, names and positions the query engine sees,
one line per node. Useful for working out what a query should match.
Example) treepath ast main.go`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths")
			os.Exit(1)
		}

		engine := treepath.NewEngine()
		for _, path := range args {
			if err := dumpTree(engine, path); err != nil {
				logger.Error("Failed to dump tree", zap.String("file", path), zap.Error(err))
				os.Exit(1)
			}
		}
	},
}

func init() {
	astCmd.Flags().IntVar(&astMaxDepth, "depth", 0, "Maximum depth to print (0 = unbounded)")
}

func dumpTree(engine *treepath.Engine, path string) error {
	adapter, source, err := engine.Load(path, nil)
	if err != nil {
		return err
	}

	var lines []formatter.TreeLine
	var walk func(n tree.Node, depth int)
	walk = func(n tree.Node, depth int) {
		if astMaxDepth > 0 && depth >= astMaxDepth {
			return
		}
		r := adapter.Range(n)
		line := formatter.TreeLine{
			Depth:  depth,
			Kind:   adapter.Kind(n),
			Line:   r.Start.Line,
			Column: r.Start.Column,
		}
		if name, ok := adapter.Name(n); ok {
			line.Name = name
		}
		lines = append(lines, line)
		for _, c := range adapter.Children(n) {
			walk(c, depth+1)
		}
	}
	walk(source.Root(), 0)

	fmt.Print(formatter.FormatTree(lines))
	return nil
}
