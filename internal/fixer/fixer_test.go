package fixer

import (
	"bytes"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/dlint/internal/types"
)

const confidenceThreshold = 0.75

func issueAt(start, end int, suggestion string, confidence float64) tt.Issue {
	return tt.Issue{
		Rule:       "avoid-unnecessary-type-assertions",
		Message:    `Avoid unnecessary "is" assertion.`,
		Start:      token.Position{Offset: start, Line: 1, Column: start + 1},
		End:        token.Position{Offset: end, Line: 1, Column: end + 1},
		Suggestion: suggestion,
		Confidence: confidence,
		Fixable:    true,
	}
}

func TestAutoFixer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		issues   []tt.Issue
		expected string
		applied  int
	}{
		{
			name:     "Fix - is expression",
			input:    "final ok = s is Object;",
			issues:   []tt.Issue{issueAt(11, 22, "true", 0.9)},
			expected: "final ok = true;",
			applied:  1,
		},
		{
			name:  "Fix - multiple issues",
			input: "print(a is num); print(b.whereType<int>());",
			issues: []tt.Issue{
				issueAt(6, 14, "true", 0.9),
				issueAt(23, 41, "b", 0.8),
			},
			expected: "print(true); print(b);",
			applied:  2,
		},
		{
			name:     "Skip - low confidence",
			input:    "print(a is num);",
			issues:   []tt.Issue{issueAt(6, 14, "true", 0.5)},
			expected: "print(a is num);",
			applied:  0,
		},
		{
			name:  "Skip - overlapping fix",
			input: "a.whereType<int>().whereType<num>()",
			issues: []tt.Issue{
				issueAt(0, 18, "a", 0.8),
				issueAt(0, 35, "a.whereType<int>()", 0.8),
			},
			expected: "a.whereType<int>()",
			applied:  1,
		},
		{
			name:  "Skip - not fixable",
			input: "list..whereType<int>();",
			issues: []tt.Issue{
				{Start: token.Position{Offset: 4}, End: token.Position{Offset: 22}, Confidence: 1},
			},
			expected: "list..whereType<int>();",
			applied:  0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "test.dart")
			require.NoError(t, os.WriteFile(path, []byte(tc.input), 0o644))

			fixer := New(false, confidenceThreshold)
			fixer.Out = &bytes.Buffer{}

			applied, err := fixer.Fix(path, tc.issues)
			require.NoError(t, err)
			assert.Equal(t, tc.applied, applied)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(content))
		})
	}
}

func TestAutoFixerDryRun(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.dart")
	input := "final ok = s is Object;"
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	var out bytes.Buffer
	fixer := New(true, confidenceThreshold)
	fixer.Out = &out

	applied, err := fixer.Fix(path, []tt.Issue{issueAt(11, 22, "true", 0.9)})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Contains(t, out.String(), "Would fix issue in")
	assert.Contains(t, out.String(), "true")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, input, string(content), "dry run must not modify the file")
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	fixer := New(false, 0)
	_, _, err := fixer.Apply([]byte("abc"), []tt.Issue{issueAt(1, 10, "x", 1)})
	assert.Error(t, err)
}
