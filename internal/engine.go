package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gnolang/dlint/internal/lints"
	"github.com/gnolang/dlint/internal/nolint"
	"github.com/gnolang/dlint/internal/syntax"
	tt "github.com/gnolang/dlint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule
	notes        map[string]string
	cache        *Cache

	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
	onIssues   func(filename string, issues []tt.Issue, err error)
}

// NewEngine creates a new lint engine. rootDir is watched in watch mode.
func NewEngine(rootDir string, rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{
		watchDirs: []string{rootDir},
	}
	engine.applyRules(rules)

	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	lints.UnnecessaryTypeAssertionsRule: NewUnnecessaryTypeAssertionsRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.notes = make(map[string]string)
	e.registerDefaultRules()

	// Iterate over the rules and apply severity
	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			r = newRuleCstr()
			e.rules[key] = r
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
		if rule.Note != "" {
			e.notes[key] = rule.Note
		}
	}
}

func (e *Engine) registerDefaultRules() {
	// iterate over allRuleConstructors and add them to the rules map if severity is not off
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// SetCache makes Run reuse the issues of unchanged units.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// Run loads the unit document at filename and lints it.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	var deps []string
	if e.cache != nil {
		source, err := syntax.SourcePath(filename)
		if err != nil {
			return nil, fmt.Errorf("error reading unit: %w", err)
		}
		deps = []string{filename, source}
		if issues, ok := e.cache.Get(filename, deps); ok {
			return issues, nil
		}
	}

	unit, err := syntax.LoadUnit(filename)
	if err != nil {
		return nil, fmt.Errorf("error loading unit: %w", err)
	}

	issues := e.RunUnit(unit)

	if e.cache != nil {
		if err := e.cache.Set(filename, deps, issues); err != nil {
			return nil, fmt.Errorf("error caching issues: %w", err)
		}
	}
	return issues, nil
}

// RunUnit applies all enabled rules to unit in a single traversal.
func (e *Engine) RunUnit(unit *syntax.Unit) []tt.Issue {
	nolintMgr := nolint.ParseComments(unit.Path, unit.Lines())

	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []tt.Issue
	report := tt.ReporterFunc(func(d tt.Diagnostic) {
		issues = append(issues, e.newIssue(unit, d))
	})

	reg := syntax.NewRegistry()
	for _, name := range names {
		if e.ignoredRules[name] {
			continue
		}
		e.rules[name].Register(reg, unit, report)
	}
	reg.Walk(unit)

	return filterNolintIssues(nolintMgr, issues)
}

func (e *Engine) newIssue(unit *syntax.Unit, d tt.Diagnostic) tt.Issue {
	issue := tt.Issue{
		Rule:       d.Rule,
		Category:   d.Category,
		Filename:   unit.Path,
		Message:    d.Message,
		Note:       e.notes[d.Rule],
		Start:      unit.Position(d.Offset),
		End:        unit.Position(d.Offset + d.Length),
		Confidence: d.Confidence,
	}
	if rule := e.findRule(d.Rule); rule != nil {
		issue.Severity = rule.Severity()
	}
	if d.HasFix {
		issue.Suggestion = d.Replacement
		issue.Fixable = true
	}
	return issue
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips units whose path matches the glob pattern or lies under
// the given directory.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isIgnoredPath(filename string) bool {
	clean := filepath.Clean(filename)
	for _, ignored := range e.ignoredPaths {
		if clean == ignored || strings.HasPrefix(clean, ignored+string(filepath.Separator)) {
			return true
		}
		if ok, err := filepath.Match(ignored, clean); err == nil && ok {
			return true
		}
	}
	return false
}

// filterNolintIssues drops issues suppressed by ignore comments.
func filterNolintIssues(nolintMgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if nolintMgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !nolintMgr.IsNolint(issue.Start, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
