package fixer

import (
	"fmt"
	"io"
	"os"
	"sort"

	tt "github.com/gnolang/dlint/internal/types"
)

type Fixer struct {
	DryRun        bool
	MinConfidence float64 // threshold for fixing issues
	Out           io.Writer
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
		Out:           os.Stdout,
	}
}

// Fix rewrites filename, replacing the range of every fixable issue with
// its suggestion. It returns the number of issues fixed, or that would be
// fixed in dry-run mode.
func (f *Fixer) Fix(filename string, issues []tt.Issue) (int, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	fixed, applied, err := f.Apply(content, issues)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filename, err)
	}

	if f.DryRun {
		for _, issue := range applied {
			fmt.Fprintf(f.Out, "Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			fmt.Fprintf(f.Out, "Suggestion:\n%s\n", issue.Suggestion)
		}
		return len(applied), nil
	}

	if len(applied) == 0 {
		return 0, nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	if err := os.WriteFile(filename, fixed, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintf(f.Out, "Fixed %d issue(s) in %s\n", len(applied), filename)
	return len(applied), nil
}

// Apply returns content with the suggestions of issues applied and the
// issues that were applied. Issues below the confidence threshold, without
// a fix, or overlapping an already applied fix are skipped.
func (f *Fixer) Apply(content []byte, issues []tt.Issue) ([]byte, []tt.Issue, error) {
	candidates := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !issue.Fixable || issue.Confidence < f.MinConfidence {
			continue
		}
		if issue.Start.Offset < 0 || issue.End.Offset > len(content) || issue.Start.Offset > issue.End.Offset {
			return nil, nil, fmt.Errorf("issue range [%d, %d) outside of content", issue.Start.Offset, issue.End.Offset)
		}
		candidates = append(candidates, issue)
	}

	// apply from the end so earlier offsets stay valid
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].End.Offset > candidates[j].End.Offset
	})

	out := append([]byte(nil), content...)
	applied := make([]tt.Issue, 0, len(candidates))
	lowest := len(content) + 1
	for _, issue := range candidates {
		if issue.End.Offset > lowest {
			// nested in or overlapping a larger fix that was already applied
			continue
		}
		out = append(out[:issue.Start.Offset:issue.Start.Offset],
			append([]byte(issue.Suggestion), out[issue.End.Offset:]...)...)
		lowest = issue.Start.Offset
		applied = append(applied, issue)
	}

	// report in source order
	for i, j := 0, len(applied)-1; i < j; i, j = i+1, j-1 {
		applied[i], applied[j] = applied[j], applied[i]
	}
	return out, applied, nil
}
