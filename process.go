package treepath

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/cygnusbill/treepath/scanner"
)

// ProcessPaths runs one compiled query over every supported file under
// the given paths and merges the results. Directories are walked
// recursively; files the registry does not claim are skipped.
func ProcessPaths(ctx context.Context, logger *zap.Logger, engine *Engine, q string, paths, ignorePaths []string) ([]Match, error) {
	var all []Match
	for _, path := range paths {
		matches, err := ProcessPath(ctx, logger, engine, q, path, ignorePaths)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, matches...)
	}
	return all, nil
}

// ProcessPath queries a single file, or every supported file under a
// directory using a bounded worker pool with a progress bar.
func ProcessPath(ctx context.Context, logger *zap.Logger, engine *Engine, q, path string, ignorePaths []string) ([]Match, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !engine.Supported(path) {
			return nil, nil
		}
		return engine.QueryFile(path, q)
	}

	files, err := scanner.New(path, engine.Extensions()...).Ignore(ignorePaths...).Scan()
	if err != nil {
		return nil, err
	}

	type fileResult struct {
		matches []Match
		err     error
	}
	results := make(chan fileResult, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for _, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			sem <- struct{}{}
			go func(fp string) {
				defer func() { <-sem }()

				matches, err := engine.QueryFile(fp, q)
				if err != nil && logger != nil {
					logger.Error("Error querying file", zap.String("file", fp), zap.Error(err))
				}
				results <- fileResult{matches: matches, err: err}
				bar.Add(1)
			}(filePath)
		}
	}

	var matches []Match
	for range files {
		res := <-results
		if res.err != nil {
			continue
		}
		matches = append(matches, res.matches...)
	}

	fmt.Println()
	return matches, nil
}
