package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/dlint/formatter"
	"github.com/gnolang/dlint/internal"
	tt "github.com/gnolang/dlint/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-lint units whenever they or their sources change",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		engine, err := newEngine()
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}
		engine.SetWatchDirs(root)

		if err := engine.StartWatching(logger, func(filename string, issues []tt.Issue, err error) {
			if err != nil {
				logger.Error("Error linting unit", zap.String("unit", filename), zap.Error(err))
				return
			}
			printWatchResult(filename, issues)
		}); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}
		logger.Info("watching for changes", zap.String("dir", root))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		if err := engine.StopWatching(); err != nil {
			logger.Error("Error stopping watcher", zap.Error(err))
		}
	},
}

func printWatchResult(unit string, issues []tt.Issue) {
	if len(issues) == 0 {
		fmt.Printf("%s: no issues\n", unit)
		return
	}
	issuesByFile, sortedFiles := groupByFile(issues)
	for _, filename := range sortedFiles {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Println(formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
	}
}
