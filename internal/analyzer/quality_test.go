package analyzer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"code-review-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePylintOutput(t *testing.T) {
	workspace := "/tmp/review-2"
	output := `[
  {"type": "error", "path": "/tmp/review-2/app/auth.py", "line": 3, "symbol": "undefined-variable",
   "message": "Undefined variable 'user'", "message-id": "E0602"},
  {"type": "warning", "path": "/tmp/review-2/app/auth.py", "line": 5, "symbol": "unused-variable",
   "message": "Unused variable 'x'", "message-id": "W0612"},
  {"type": "refactor", "path": "/tmp/review-2/app/auth.py", "line": 7, "symbol": "no-else-return",
   "message": "Unnecessary else after return", "message-id": "R1705"}
]`

	drafts, err := parsePylintOutput([]byte(output), workspace)

	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, domain.SeverityCritical, drafts[0].Severity)
	assert.Equal(t, "Define the variable before using it", *drafts[0].Suggestion)
	assert.Equal(t, domain.SeverityWarning, drafts[1].Severity)
	assert.Equal(t, domain.SeverityInfo, drafts[2].Severity)
	assert.Equal(t, "Review and fix: Unnecessary else after return", *drafts[2].Suggestion)
	for _, d := range drafts {
		assert.Equal(t, domain.CategoryQuality, d.Category)
		assert.Equal(t, "pylint", d.ToolSource)
		assert.Equal(t, "app/auth.py", *d.FilePath)
	}
}

func TestParseRadonCC_Thresholds(t *testing.T) {
	workspace := "/tmp/review-3"
	output := `{
  "/tmp/review-3/a.py": [
    {"type": "function", "name": "simple", "lineno": 1, "complexity": 5, "rank": "A"},
    {"type": "function", "name": "branchy", "lineno": 10, "complexity": 11, "rank": "C"},
    {"type": "method", "name": "monster", "lineno": 40, "complexity": 21, "rank": "D"}
  ],
  "/tmp/review-3/broken.py": {"error": "invalid syntax"}
}`

	drafts, err := parseRadonCC([]byte(output), workspace)

	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, domain.SeverityWarning, drafts[0].Severity)
	assert.Equal(t, "High cyclomatic complexity in branchy", drafts[0].Title)
	assert.Equal(t, 10, *drafts[0].LineNumber)
	assert.Equal(t, domain.SeverityCritical, drafts[1].Severity)
	assert.Equal(t, domain.CategoryQuality, drafts[1].Category)
	assert.Equal(t, "radon", drafts[1].ToolSource)
}

func TestParseRadonMI_Thresholds(t *testing.T) {
	workspace := "/tmp/review-4"
	output := `{
  "/tmp/review-4/a.py": {"mi": 24.9, "rank": "C"},
  "/tmp/review-4/b.py": {"mi": 49.0, "rank": "B"},
  "/tmp/review-4/c.py": {"mi": 64.5, "rank": "B"},
  "/tmp/review-4/d.py": {"mi": 65.0, "rank": "A"},
  "/tmp/review-4/e.py": {"error": "invalid syntax"}
}`

	drafts, err := parseRadonMI([]byte(output), workspace)

	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, domain.SeverityCritical, drafts[0].Severity)
	assert.Equal(t, "Low maintainability index in a.py", drafts[0].Title)
	assert.Equal(t, domain.SeverityWarning, drafts[1].Severity)
	assert.Equal(t, domain.SeverityInfo, drafts[2].Severity)
	assert.Equal(t, "c.py", *drafts[2].FilePath)
}

func qualityRunner(pylintFails, radonFails bool) *fakeRunner {
	return &fakeRunner{fn: func(name string, args []string) (CommandResult, error) {
		switch name {
		case "pylint":
			if pylintFails {
				return CommandResult{}, errors.New("exec: \"pylint\": executable file not found in $PATH")
			}
			file := filepath.Join(args[0], "app", "auth.py")
			return CommandResult{
				Stdout:   []byte(fmt.Sprintf(`[{"type":"warning","path":%q,"line":1,"symbol":"unused-import","message":"Unused import os"}]`, file)),
				ExitCode: 4,
			}, nil
		case "radon":
			if radonFails {
				return CommandResult{}, errors.New("exec: \"radon\": executable file not found in $PATH")
			}
			file := filepath.Join(args[1], "app", "auth.py")
			if args[0] == "cc" {
				return CommandResult{Stdout: []byte(fmt.Sprintf(`{%q: [{"type":"function","name":"login","lineno":2,"complexity":14,"rank":"C"}]}`, file))}, nil
			}
			return CommandResult{Stdout: []byte(fmt.Sprintf(`{%q: {"mi": 80.0, "rank": "A"}}`, file))}, nil
		}
		return CommandResult{}, fmt.Errorf("unexpected command %s", name)
	}}
}

func TestQualityAnalyzer_Analyze(t *testing.T) {
	runner := qualityRunner(false, false)
	a := NewQualityAnalyzer(runner, "pylint", "radon", time.Minute, testLogger())

	drafts, err := a.Analyze(context.Background(), pythonDiff())

	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "pylint", drafts[0].ToolSource)
	assert.Equal(t, "radon", drafts[1].ToolSource)
	assert.Equal(t, 3, runner.callCount())
}

func TestQualityAnalyzer_OneToolFails(t *testing.T) {
	a := NewQualityAnalyzer(qualityRunner(true, false), "pylint", "radon", time.Minute, testLogger())

	drafts, err := a.Analyze(context.Background(), pythonDiff())

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "radon", drafts[0].ToolSource)
}

func TestQualityAnalyzer_AllToolsFail(t *testing.T) {
	a := NewQualityAnalyzer(qualityRunner(true, true), "pylint", "radon", time.Minute, testLogger())

	drafts, err := a.Analyze(context.Background(), pythonDiff())

	assert.Error(t, err)
	assert.Nil(t, drafts)
}
