package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"code-review-service/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	SecurityAnalyzerName = "security"
	banditToolSource     = "bandit"
	defaultBanditAdvice  = "Review and fix this security issue"
)

var banditSeverity = map[string]domain.Severity{
	"HIGH":   domain.SeverityCritical,
	"MEDIUM": domain.SeverityWarning,
	"LOW":    domain.SeverityInfo,
}

const (
	adviceHardcodedSecret = "Use environment variables or secure configuration management instead of hardcoded passwords"
	adviceXML             = "Validate and sanitize XML input to prevent XXE attacks"
	adviceSQL             = "Use parameterized queries to prevent SQL injection"
	adviceTLS             = "Enable SSL/TLS certificate verification for secure connections"
	adviceRandom          = "Use cryptographically secure random functions from secrets module"
	adviceCipher          = "Avoid using insecure ciphers, use AES with secure key management"
)

var banditAdvice = map[string]string{
	"B105": adviceHardcodedSecret,
	"B106": adviceHardcodedSecret,
	"B107": adviceHardcodedSecret,
	"B201": "Never run a Flask application with debug enabled in production",
	"B301": "Use pickle alternatives like json or safer serialization methods",
	"B302": "Use safe YAML loading methods like yaml.safe_load()",
	"B303": "Avoid using MD5 or SHA1 for security purposes, use SHA256 or better",
	"B304": adviceCipher,
	"B305": adviceCipher,
	"B306": "Use tempfile.mkstemp() or tempfile.TemporaryFile() for secure temporary files",
	"B307": "Use eval() alternatives like ast.literal_eval() for safer evaluation",
	"B308": "Validate and sanitize user input before using mark_safe()",
	"B310": "Validate and sanitize URLs before using them",
	"B311": "Use secrets module instead of random for cryptographic purposes",
	"B312": adviceRandom,
	"B313": adviceXML,
	"B314": adviceXML,
	"B315": adviceXML,
	"B316": adviceXML,
	"B317": adviceXML,
	"B318": adviceXML,
	"B319": adviceXML,
	"B320": adviceXML,
	"B321": "Use SFTP or FTPS instead of plain FTP",
	"B323": "Avoid unverified HTTPS connections, enable certificate verification",
	"B324": "Use secure hash algorithms like SHA256 or SHA3",
	"B501": adviceTLS,
	"B502": adviceTLS,
	"B503": adviceTLS,
	"B504": adviceTLS,
	"B506": "Use yaml.safe_load() instead of yaml.load()",
	"B507": "Verify SSH host keys instead of auto-accepting them",
	"B601": "Avoid shell=True in subprocess, use list arguments instead",
	"B602": "Validate and sanitize all inputs to shell commands",
	"B603": "Avoid shell=True in subprocess, validate all inputs",
	"B604": "Validate and sanitize function arguments",
	"B605": "Validate and escape all command arguments",
	"B606": "Avoid shell=True in subprocess calls",
	"B607": "Avoid shell=True, use absolute paths for executables",
	"B608": adviceSQL,
	"B609": "Avoid wildcard injection in shell commands",
	"B610": adviceSQL,
	"B611": adviceSQL,
	"B701": "Use jinja2 with autoescape enabled",
	"B702": "Use Mako with default_filters enabled",
	"B703": "Validate and sanitize user input in Django applications",
}

// banditReport соответствует JSON-отчету bandit (-f json).
type banditReport struct {
	Results []banditResult `json:"results"`
	Errors  []struct {
		Filename string `json:"filename"`
		Reason   string `json:"reason"`
	} `json:"errors"`
}

type banditResult struct {
	Filename        string `json:"filename"`
	LineNumber      int    `json:"line_number"`
	Code            string `json:"code"`
	IssueText       string `json:"issue_text"`
	IssueSeverity   string `json:"issue_severity"`
	IssueConfidence string `json:"issue_confidence"`
	TestID          string `json:"test_id"`
	TestName        string `json:"test_name"`
}

// SecurityAnalyzer ищет уязвимости в Python-коде с помощью bandit.
type SecurityAnalyzer struct {
	runner  CommandRunner
	binary  string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewSecurityAnalyzer создает анализатор на основе bandit.
func NewSecurityAnalyzer(runner CommandRunner, binary string, timeout time.Duration, logger *logrus.Logger) *SecurityAnalyzer {
	return &SecurityAnalyzer{
		runner:  runner,
		binary:  binary,
		timeout: timeout,
		logger:  logger,
	}
}

func (a *SecurityAnalyzer) Name() string {
	return SecurityAnalyzerName
}

// Analyze запускает bandit по Python-файлам диффа.
func (a *SecurityAnalyzer) Analyze(ctx context.Context, diff *domain.Diff) ([]domain.FindingDraft, error) {
	files := pythonFiles(diff)
	if len(files) == 0 {
		return nil, nil
	}

	workspace, cleanup, err := writeWorkspace(files)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	result, err := a.runner.Run(ctx, a.binary, "-r", workspace, "-f", "json", "-ll")
	if err != nil {
		return nil, err
	}
	// bandit: код 0 без находок, 1 при находках.
	if result.ExitCode > 1 || (result.ExitCode == 1 && len(result.Stdout) == 0) {
		return nil, fmt.Errorf("bandit exited with code %d: %s", result.ExitCode, tail(result.Stderr, 500))
	}

	drafts, err := parseBanditReport(result.Stdout, workspace)
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logrus.Fields{
		"tool":     banditToolSource,
		"files":    len(files),
		"findings": len(drafts),
	}).Debug("Security analysis finished")

	return drafts, nil
}

func parseBanditReport(output []byte, workspace string) ([]domain.FindingDraft, error) {
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, nil
	}

	var report banditReport
	if err := json.Unmarshal(output, &report); err != nil {
		return nil, fmt.Errorf("failed to parse bandit output: %w", err)
	}

	drafts := make([]domain.FindingDraft, 0, len(report.Results))
	for _, r := range report.Results {
		severity, ok := banditSeverity[strings.ToUpper(r.IssueSeverity)]
		if !ok {
			severity = domain.SeverityInfo
		}

		advice, ok := banditAdvice[r.TestID]
		if !ok {
			advice = defaultBanditAdvice
		}

		drafts = append(drafts, domain.FindingDraft{
			Category:    domain.CategorySecurity,
			Severity:    severity,
			Title:       r.IssueText,
			Description: fmt.Sprintf("%s (%s: %s)", r.IssueText, r.TestID, r.TestName),
			FilePath:    strPtr(relPath(workspace, r.Filename)),
			LineNumber:  intPtr(r.LineNumber),
			CodeSnippet: strPtr(r.Code),
			Suggestion:  strPtr(advice),
			ToolSource:  banditToolSource,
		})
	}
	return drafts, nil
}
