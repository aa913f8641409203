package gateway

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/taskly/model/task"
)

// Token codes
const (
	drivePathCode = iota
	unixPathCode
)

var (
	drivePathToken = parsly.NewToken(drivePathCode, "DrivePath", &drivePathMatcher{})
	unixPathToken  = parsly.NewToken(unixPathCode, "UnixPath", &unixPathMatcher{})
)

// drivePathMatcher matches Windows style paths: D:\data\x, C:/tmp/y.
type drivePathMatcher struct{}

func (m *drivePathMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos+2 >= size {
		return 0
	}
	if !isASCIILetter(input[pos]) || input[pos+1] != ':' {
		return 0
	}
	if input[pos+2] != '/' && input[pos+2] != '\\' {
		return 0
	}
	matched := 3
	for pos+matched < size && !isPathTerminator(input[pos+matched]) {
		matched++
	}
	return matched
}

// unixPathMatcher matches Unix absolute paths: /etc/passwd, /usr/bin.
// Protocol-relative tokens (//host) are not paths.
type unixPathMatcher struct{}

func (m *unixPathMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if input[pos] != '/' {
		return 0
	}
	if pos+1 >= size || input[pos+1] == '/' || !isPathChar(input[pos+1]) {
		return 0
	}
	matched := 1
	for pos+matched < size && isPathChar(input[pos+matched]) {
		matched++
	}
	return matched
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isPathChar(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9') ||
		b == '_' || b == '.' || b == '-' || b == '/'
}

func isPathTerminator(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '"' || b == '\''
}

// scanPathTokens extracts path-like tokens from free text.
func scanPathTokens(text string) []string {
	cursor := parsly.NewCursor("", []byte(text), 0)
	var paths []string
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAny(drivePathToken, unixPathToken)
		switch matched.Code {
		case drivePathCode, unixPathCode:
			paths = append(paths, matched.Text(cursor))
		default:
			cursor.Pos++
		}
	}
	return paths
}

// parameter keys that conventionally carry a path
var pathParameterKeys = []string{"path", "file_path", "file", "target"}

// extractPaths collects path candidates from a step's parameters, description
// and tool name.
func extractPaths(step *task.Step) []string {
	var paths []string
	for _, key := range pathParameterKeys {
		if v, ok := step.Parameters[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				paths = append(paths, strings.TrimSpace(s))
			}
		}
	}
	paths = append(paths, scanPathTokens(step.Description+" "+step.Tool)...)
	return paths
}

// isRelative reports whether a path candidate is a plain relative filename;
// relative names are always treated as in-workspace.
func isRelative(candidate string) bool {
	if strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "\\") {
		return false
	}
	if len(candidate) >= 2 && candidate[1] == ':' && isASCIILetter(candidate[0]) {
		return false
	}
	return true
}

// normalizeWorkspace resolves the workspace root to an absolute path with
// forward slashes.
func normalizeWorkspace(workspace string) string {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		abs = workspace
	}
	return path.Clean(strings.ReplaceAll(abs, "\\", "/"))
}

// inWorkspace reports whether an absolute candidate resolves inside the
// workspace root.
func inWorkspace(workspace, candidate string) bool {
	candidate = path.Clean(strings.ReplaceAll(strings.TrimSpace(candidate), "\\", "/"))
	if candidate == "" {
		return false
	}
	return candidate == workspace || strings.HasPrefix(candidate, workspace+"/")
}

// hasPathOutsideWorkspace reports whether any extracted absolute path
// resolves outside the workspace root.
func hasPathOutsideWorkspace(workspace string, step *task.Step) bool {
	for _, candidate := range extractPaths(step) {
		if candidate == "" || isRelative(candidate) {
			continue
		}
		if !inWorkspace(workspace, candidate) {
			return true
		}
	}
	return false
}
