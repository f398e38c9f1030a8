package lint

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/dlint/internal"
	"github.com/gnolang/dlint/internal/syntax"
	tt "github.com/gnolang/dlint/internal/types"
	"github.com/gnolang/dlint/scanner"
)

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunUnit(unit *syntax.Unit) []tt.Issue
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// New creates an engine configured from the file at configurationPath.
// An empty path selects the default configuration.
func New(rootDir string, configurationPath string) (*internal.Engine, error) {
	config, err := parseConfigurationFile(configurationPath)
	if err != nil {
		return nil, err
	}

	return internal.NewEngine(rootDir, config.Rules)
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints a unit document, or every unit document under a
// directory. Directories are processed by a bounded pool of workers; a file
// that fails is logged and skipped. Issues are returned sorted by file and
// position.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := collectUnits(path)
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	bar := newProgressBar(len(files), path)

	var mu sync.Mutex
	issues := make([]tt.Issue, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, filePath := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fileIssues, err := processor(engine, filePath)
			_ = bar.Add(1)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", filePath), zap.Error(err))
				}
				return nil
			}

			mu.Lock()
			issues = append(issues, fileIssues...)
			mu.Unlock()
			return nil
		})
	}

	err = g.Wait()
	_ = bar.Finish()
	if err == nil {
		err = ctx.Err()
	}

	sortIssues(issues)
	// partial results are returned alongside a cancellation error
	return issues, err
}

func collectUnits(root string) ([]string, error) {
	found, err := scanner.New(root, syntax.UnitExt).Scan()
	if err != nil {
		return nil, err
	}
	files := make([]string, len(found))
	for i, f := range found {
		files[i] = f.Path
	}
	return files, nil
}

// newProgressBar draws on stderr when it is a terminal and discards
// otherwise.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	var out io.Writer = io.Discard
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		out = os.Stderr
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
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
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Filename != issues[j].Filename {
			return issues[i].Filename < issues[j].Filename
		}
		return issues[i].Start.Offset < issues[j].Start.Offset
	})
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func hasDesiredExtension(path string) bool {
	return strings.HasSuffix(path, syntax.UnitExt)
}
