package nolint

import (
	"go/token"
	"strings"
	"testing"
)

func TestParseIgnoreRules(t *testing.T) {
	t.Parallel()
	input := "rule1, rule2,rule3"
	expected := []string{"rule1", "rule2", "rule3"}
	result := parseIgnoreRuleNames(input)
	if len(result) != len(expected) {
		t.Errorf("Expected %d rules, got %d", len(expected), len(result))
	}
	for _, rule := range expected {
		if _, exists := result[rule]; !exists {
			t.Errorf("Expected rule %s not found", rule)
		}
	}
}

func TestParseCommentRejectsEmptyRuleList(t *testing.T) {
	t.Parallel()
	if _, err := parseComment("// ignore:", 1, 1); err == nil {
		t.Errorf("Expected error for ignore comment without rules")
	}
	if _, err := parseComment("final a = 1;", 1, 1); err == nil {
		t.Errorf("Expected error for line without ignore comment")
	}
}

func TestParseCommentSkipsStringLiterals(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line  string
		found bool
		start int
		end   int
	}{
		{`final u = 'http://x // ignore: rule1';`, false, 0, 0},
		{`final u = "a // ignore_for_file: rule1";`, false, 0, 0},
		{`final u = 'it\'s // ignore: rule1';`, false, 0, 0},
		{`final u = 'a'; // ignore: rule1`, true, 3, 3},
		{`final u = "http://x"; // ignore: rule1`, true, 3, 3},
		{`final u = r'\'; // ignore: rule1`, true, 3, 3},
		{`  // ignore: rule1`, true, 3, 4},
		{`final a = 1; // see http://x // ignore: rule1`, false, 0, 0},
	}

	for _, test := range tests {
		ns, err := parseComment(test.line, 3, 10)
		if !test.found {
			if err == nil {
				t.Errorf("%q: expected no ignore comment, got scope %d-%d", test.line, ns.start, ns.end)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.line, err)
			continue
		}
		if ns.start != test.start || ns.end != test.end {
			t.Errorf("%q: expected scope %d-%d, got %d-%d", test.line, test.start, test.end, ns.start, ns.end)
		}
		if _, ok := ns.rules["rule1"]; !ok {
			t.Errorf("%q: expected rule1 in scope", test.line)
		}
	}
}

func TestIsNolint(t *testing.T) {
	t.Parallel()
	source := `void main() {
  final Object a = 1;
  // ignore: rule1
  print(a is Object);
  print(a is Object);
  print(a is Object); // ignore: rule2, rule3
  // ignore: type=lint
  print(a is Object);
}
`

	manager := ParseComments("test.dart", strings.Split(source, "\n"))

	tests := []struct {
		rule     string
		line     int
		expected bool
	}{
		{"rule1", 4, true},    // next line after a standalone comment
		{"rule1", 5, false},   // two lines below is not covered
		{"rule2", 6, true},    // trailing comment covers its own line
		{"rule3", 6, true},    // every listed rule is covered
		{"rule1", 6, false},   // unlisted rule is not covered
		{"rule2", 5, false},   // trailing comment does not reach back
		{"anyrule", 8, true},  // type=lint covers every rule
		{"anyrule", 9, false}, // scope ends after one line
	}

	for _, test := range tests {
		pos := positionAtLine(test.line)
		result := manager.IsNolint(pos, test.rule)
		if result != test.expected {
			t.Errorf("IsNolint at line %d for rule '%s': expected %v, got %v", test.line, test.rule, test.expected, result)
		}
	}
}

func TestIgnoreForFile(t *testing.T) {
	t.Parallel()
	source := `// ignore_for_file: rule1
void main() {
  print(1 is int);
}
`
	manager := ParseComments("test.dart", strings.Split(source, "\n"))

	for line := 1; line <= 4; line++ {
		if !manager.IsNolint(positionAtLine(line), "rule1") {
			t.Errorf("Expected line %d to be ignored for rule1", line)
		}
	}
	if manager.IsNolint(positionAtLine(3), "rule2") {
		t.Errorf("Expected rule2 not to be ignored")
	}
	if manager.IsNolint(token.Position{Filename: "other.dart", Line: 3}, "rule1") {
		t.Errorf("Expected other files not to be affected")
	}
}

func positionAtLine(line int) token.Position {
	return token.Position{
		Filename: "test.dart",
		Line:     line,
		Column:   1,
	}
}
