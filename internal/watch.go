package internal

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/dlint/internal/syntax"
	tt "github.com/gnolang/dlint/internal/types"
	"github.com/gnolang/dlint/scanner"
)

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

// settleDelay groups the burst of events an editor emits on save.
const settleDelay = 100 * time.Millisecond

// StartWatching re-lints units under the engine's root whenever a unit
// document or a source next to one changes. onIssues receives the result of
// every run.
func (e *Engine) StartWatching(logger *zap.Logger, onIssues func(filename string, issues []tt.Issue, err error)) error {
	if e.isWatching {
		return ErrAlreadyWatching
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	e.watcher = watcher
	e.onIssues = onIssues

	for _, root := range e.watchDirs {
		dirs, err := scanner.New(root).Dirs()
		if err == nil {
			for _, dir := range dirs {
				if err = watcher.Add(dir); err != nil {
					break
				}
			}
		}
		if err != nil {
			_ = watcher.Close()
			return err
		}
	}

	e.isWatching = true
	go e.watchLoop(logger)
	return nil
}

// SetWatchDirs replaces the directories StartWatching subscribes to.
func (e *Engine) SetWatchDirs(dirs ...string) {
	e.watchDirs = dirs
}

func (e *Engine) StopWatching() error {
	if !e.isWatching {
		return ErrNotWatching
	}

	e.isWatching = false
	return e.watcher.Close()
}

func (e *Engine) watchLoop(logger *zap.Logger) {
	for {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(logger, event)
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(logger *zap.Logger, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	unitPath := unitFor(event.Name)
	if unitPath == "" {
		return
	}

	time.Sleep(settleDelay)
	logger.Debug("re-linting", zap.String("unit", unitPath), zap.String("trigger", event.Name))

	issues, err := e.Run(unitPath)
	if e.onIssues != nil {
		e.onIssues(unitPath, issues, err)
	}
}

// unitFor maps a changed file to the unit document to re-lint: the file
// itself for a unit document, `<source>.unit.yaml` for a source file that
// has one, and "" otherwise.
func unitFor(name string) string {
	if strings.HasSuffix(name, syntax.UnitExt) {
		return name
	}
	candidate := name + syntax.UnitExt
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
