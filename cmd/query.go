package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cygnusbill/treepath"
	"github.com/cygnusbill/treepath/formatter"
)

var (
	queryJsonOutput bool
	outPath         string
	countOnly       bool
	contextPos      string
	maxNodes        int
	ignorePaths     string
	langOverride    string
)

var queryCmd = &cobra.Command{
	Use:   "query '<expression>' [paths...]",
	Short: "Evaluate a path expression against source files",
	Long: `Evaluates a path expression and prints the matching nodes.
Example) treepath query '//func[@public]' ./...
The expression may name an alias from the configuration file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 2 {
			fmt.Println("error: Please provide a query and file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cfg, err := loadConfiguration()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}

		q := cfg.ResolveQuery(args[0])
		if _, err := treepath.Compile(q); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}

		engine := treepath.NewEngine()
		limits := cfg.Limits()
		if maxNodes > 0 {
			limits.MaxVisited = maxNodes
		}
		engine.SetLimits(limits)
		if langOverride != "" {
			engine.ForceLanguage(langOverride)
		}

		ignore := cfg.IgnorePaths
		if ignorePaths != "" {
			for _, p := range strings.Split(ignorePaths, ",") {
				ignore = append(ignore, strings.TrimSpace(p))
			}
		}

		runQueryProcess(ctx, logger, engine, q, args[1:], ignore)
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryJsonOutput, "json", false, "Output matches in JSON format")
	queryCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	queryCmd.Flags().BoolVar(&countOnly, "count", false, "Print only the number of matches")
	queryCmd.Flags().StringVar(&contextPos, "context", "", "Evaluate relative to the node at line:column (single file only)")
	queryCmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "Maximum nodes visited per query (0 = unbounded)")
	queryCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	queryCmd.Flags().StringVar(&langOverride, "lang", "", "Force a language adapter regardless of file extension")
}

func loadConfiguration() (*treepath.Config, error) {
	if cfgFile != "" {
		return treepath.LoadConfig(cfgFile)
	}
	return treepath.LoadDefaultConfig()
}

func runQueryProcess(ctx context.Context, logger *zap.Logger, engine *treepath.Engine, q string, paths, ignore []string) {
	var matches []treepath.Match
	var err error

	if contextPos != "" {
		matches, err = runContextQuery(engine, q, paths)
	} else {
		matches, err = treepath.ProcessPaths(ctx, logger, engine, q, paths, ignore)
	}
	if err != nil {
		logger.Error("Error processing query", zap.Error(err))
		os.Exit(1)
	}

	printMatches(logger, q, matches)
}

// runContextQuery anchors the query at a cursor position instead of
// the tree root. Only meaningful for a single file.
func runContextQuery(engine *treepath.Engine, q string, paths []string) ([]treepath.Match, error) {
	if len(paths) != 1 {
		return nil, fmt.Errorf("--context requires exactly one file path")
	}
	line, column, err := parsePosition(contextPos)
	if err != nil {
		return nil, err
	}
	return engine.QueryAt(paths[0], nil, q, line, column)
}

func parsePosition(s string) (line, column int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid position %q, expected line:column", s)
	}
	line, err = strconv.Atoi(parts[0])
	if err == nil {
		column, err = strconv.Atoi(parts[1])
	}
	if err != nil || line < 1 || column < 1 {
		return 0, 0, fmt.Errorf("invalid position %q, expected line:column", s)
	}
	return line, column, nil
}

func printMatches(logger *zap.Logger, q string, matches []treepath.Match) {
	if countOnly {
		fmt.Println(formatter.Summary(q, len(matches)))
		return
	}

	if !queryJsonOutput {
		fmt.Print(formatter.FormatMatches(matches))
		return
	}

	d, err := json.Marshal(matches)
	if err != nil {
		logger.Error("Error marshalling matches to JSON", zap.Error(err))
		return
	}
	if outPath == "" {
		fmt.Println(string(d))
		return
	}
	f, err := os.Create(outPath)
	if err != nil {
		logger.Error("Error creating JSON output file", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.Write(d); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
	}
}
