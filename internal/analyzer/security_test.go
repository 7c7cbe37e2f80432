package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"code-review-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func banditOutput(workspace string) string {
	file := filepath.Join(workspace, "app", "auth.py")
	return fmt.Sprintf(`{
  "errors": [],
  "results": [
    {"filename": %q, "line_number": 1, "code": "1 PASSWORD = 'hunter2'\n",
     "issue_text": "Possible hardcoded password: 'hunter2'", "issue_severity": "LOW",
     "issue_confidence": "MEDIUM", "test_id": "B105", "test_name": "hardcoded_password_string"},
    {"filename": %q, "line_number": 9, "code": "subprocess.call(cmd, shell=True)",
     "issue_text": "subprocess call with shell=True identified", "issue_severity": "HIGH",
     "issue_confidence": "HIGH", "test_id": "B602", "test_name": "subprocess_popen_with_shell_equals_true"},
    {"filename": %q, "line_number": 0, "code": "",
     "issue_text": "Something new", "issue_severity": "MEDIUM",
     "issue_confidence": "LOW", "test_id": "B999", "test_name": "future_check"}
  ]
}`, file, file, file)
}

func TestParseBanditReport(t *testing.T) {
	workspace := "/tmp/review-1"

	drafts, err := parseBanditReport([]byte(banditOutput(workspace)), workspace)

	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, domain.SeverityInfo, drafts[0].Severity)
	assert.Equal(t, domain.CategorySecurity, drafts[0].Category)
	assert.Equal(t, "app/auth.py", *drafts[0].FilePath)
	assert.Equal(t, 1, *drafts[0].LineNumber)
	assert.Equal(t, adviceHardcodedSecret, *drafts[0].Suggestion)
	assert.Equal(t, "bandit", drafts[0].ToolSource)

	assert.Equal(t, domain.SeverityCritical, drafts[1].Severity)
	assert.Contains(t, drafts[1].Description, "B602")

	assert.Equal(t, domain.SeverityWarning, drafts[2].Severity)
	assert.Nil(t, drafts[2].LineNumber)
	assert.Nil(t, drafts[2].CodeSnippet)
	assert.Equal(t, defaultBanditAdvice, *drafts[2].Suggestion)
}

func TestParseBanditReport_InvalidJSON(t *testing.T) {
	_, err := parseBanditReport([]byte("Traceback (most recent call last)"), "/tmp")
	assert.Error(t, err)
}

func TestSecurityAnalyzer_Analyze(t *testing.T) {
	runner := &fakeRunner{fn: func(name string, args []string) (CommandResult, error) {
		require.Equal(t, "bandit", name)
		require.Len(t, args, 5)
		assert.Equal(t, []string{"-r", "-f", "json", "-ll"}, []string{args[0], args[2], args[3], args[4]})
		return CommandResult{Stdout: []byte(banditOutput(args[1])), ExitCode: 1}, nil
	}}
	a := NewSecurityAnalyzer(runner, "bandit", time.Minute, testLogger())

	drafts, err := a.Analyze(context.Background(), pythonDiff())

	require.NoError(t, err)
	assert.Len(t, drafts, 3)
	assert.Equal(t, "app/auth.py", *drafts[1].FilePath)
	assert.Equal(t, SecurityAnalyzerName, a.Name())
}

func TestSecurityAnalyzer_SkipsWithoutPython(t *testing.T) {
	runner := &fakeRunner{fn: func(string, []string) (CommandResult, error) {
		t.Fatal("bandit must not run")
		return CommandResult{}, nil
	}}
	a := NewSecurityAnalyzer(runner, "bandit", time.Minute, testLogger())

	drafts, err := a.Analyze(context.Background(), &domain.Diff{Files: []domain.FileDiff{
		{Path: "main.go", Language: "Go", Content: "package main\n"},
	}})

	assert.NoError(t, err)
	assert.Empty(t, drafts)
	assert.Zero(t, runner.callCount())
}

func TestSecurityAnalyzer_ToolFailure(t *testing.T) {
	runner := &fakeRunner{fn: func(string, []string) (CommandResult, error) {
		return CommandResult{Stderr: []byte("usage: bandit"), ExitCode: 2}, nil
	}}
	a := NewSecurityAnalyzer(runner, "bandit", time.Minute, testLogger())

	_, err := a.Analyze(context.Background(), pythonDiff())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 2")
}
