package nolint

import (
	"fmt"
	"go/token"
	"regexp"
	"strings"
)

// allLints is the rule list that suppresses every lint rule.
const allLints = "type=lint"

// ignoreComment matches a comment `// ignore: a, b` or
// `// ignore_for_file: a, b` starting at the beginning of its input.
var ignoreComment = regexp.MustCompile(`^//\s*(ignore|ignore_for_file)\s*:(.*)$`)

// Manager manages ignore scopes and checks if a position is suppressed.
type Manager struct {
	// scopes maps filename to a slice of ignore scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a line range in the code where ignore applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments scans the lines of filename for ignore comments.
func ParseComments(filename string, lines []string) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope),
	}

	for i, line := range lines {
		ns, err := parseComment(line, i+1, len(lines))
		if err != nil {
			// ignore invalid comments
			continue
		}
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return &manager
}

// parseComment parses the ignore comment of a single line, if any, and
// determines its scope.
func parseComment(line string, lineNo, lineCount int) (nolintScope, error) {
	var ns nolintScope

	start := commentStart(line)
	if start < 0 {
		return ns, fmt.Errorf("no ignore comment")
	}
	comment := line[start:]
	m := ignoreComment.FindStringSubmatchIndex(comment)
	if m == nil {
		return ns, fmt.Errorf("no ignore comment")
	}
	kind := comment[m[2]:m[3]]
	rest := strings.TrimSpace(comment[m[4]:m[5]])
	if rest == "" {
		return ns, fmt.Errorf("invalid ignore comment: no rules specified after colon")
	}
	ns.rules = parseIgnoreRuleNames(rest)

	if kind == "ignore_for_file" {
		ns.start = 1
		ns.end = lineCount
		return ns, nil
	}

	// a trailing comment applies to its own line
	if strings.TrimSpace(line[:start]) != "" {
		ns.start = lineNo
		ns.end = lineNo
		return ns, nil
	}

	// a standalone comment applies to the line that follows it
	ns.start = lineNo
	ns.end = lineNo + 1
	return ns, nil
}

// commentStart returns the index of the `//` opening the line comment of
// line, or -1. Single line string literals are skipped, so a `//` inside
// 'http://host' does not start a comment. Lines inside a multi-line
// (''' or """) string are not tracked and are scanned as code.
func commentStart(line string) int {
	var quote byte
	raw := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch {
			case c == '\\' && !raw:
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			raw = i > 0 && line[i-1] == 'r'
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return i
			}
		}
	}
	return -1
}

// parseIgnoreRuleNames parses the comma separated rule list of a comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// IsNolint checks if a given position and rule are suppressed.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start || pos.Line > ns.end {
			continue
		}
		if _, exists := ns.rules[allLints]; exists {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
