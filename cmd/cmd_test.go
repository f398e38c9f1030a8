package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	tt "github.com/gnolang/dlint/internal/types"
	"github.com/gnolang/dlint/lint"
)

const (
	fixSource = "void f(String s) => print(s is Object);\n"
	fixUnit   = `file: a.dart
nodes:
  - kind: is
    offset: 26
    length: 11
    expression: {offset: 26, length: 1, type: String}
    typeName: {offset: 31, length: 6, type: Object}
`
)

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}

func TestHasBlockingIssues(t *testing.T) {
	t.Parallel()
	assert.False(t, hasBlockingIssues(nil))
	assert.False(t, hasBlockingIssues([]tt.Issue{{Severity: tt.SeverityInfo}}))
	assert.True(t, hasBlockingIssues([]tt.Issue{{Severity: tt.SeverityInfo}, {Severity: tt.SeverityWarning}}))
	assert.True(t, hasBlockingIssues([]tt.Issue{{Severity: tt.SeverityError}}))
}

func TestPrintIssuesJSON(t *testing.T) {
	t.Parallel()
	issues := []tt.Issue{
		{Rule: "r", Filename: "b.dart", Message: "m2"},
		{Rule: "r", Filename: "a.dart", Message: "m1"},
	}

	var out bytes.Buffer
	require.NoError(t, printIssues(zap.NewNop(), &out, issues, true, ""))

	var decoded map[string][]tt.Issue
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "m1", decoded["a.dart"][0].Message)

	path := filepath.Join(t.TempDir(), "issues.json")
	require.NoError(t, printIssues(zap.NewNop(), &out, issues, true, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Filename":"a.dart"`)
}

func TestRunAutoFix(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	source := filepath.Join(dir, "a.dart")
	require.NoError(t, os.WriteFile(source, []byte(fixSource), 0o644))
	require.NoError(t, os.WriteFile(source+".unit.yaml", []byte(fixUnit), 0o644))

	engine, err := lint.New(dir, "")
	require.NoError(t, err)

	runAutoFix(context.Background(), zap.NewNop(), engine, []string{dir}, false, 0.75)

	content, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, "void f(String s) => print(true);\n", string(content))
}
