package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"code-review-service/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	QualityAnalyzerName = "quality"
	pylintToolSource    = "pylint"
	radonToolSource     = "radon"

	// pylint: бит 32 означает ошибку использования, бит 1 фатальную ошибку.
	pylintUsageError = 32
	pylintFatal      = 1
)

var pylintSeverity = map[string]domain.Severity{
	"fatal":      domain.SeverityCritical,
	"error":      domain.SeverityCritical,
	"warning":    domain.SeverityWarning,
	"refactor":   domain.SeverityInfo,
	"convention": domain.SeverityInfo,
}

var pylintAdvice = map[string]string{
	"unused-import":              "Remove unused imports to keep code clean",
	"unused-variable":            "Remove unused variables or use them in your code",
	"undefined-variable":         "Define the variable before using it",
	"import-error":               "Ensure the module is installed and importable",
	"no-member":                  "Check if the attribute/method exists on this object",
	"too-many-arguments":         "Refactor to use fewer arguments or a configuration object",
	"too-many-locals":            "Refactor into smaller functions",
	"too-many-branches":          "Refactor to reduce conditional complexity",
	"too-many-statements":        "Break down into smaller, focused functions",
	"line-too-long":              "Break long lines into multiple lines (max 120 chars)",
	"missing-docstring":          "Add docstring to explain function/class purpose",
	"invalid-name":               "Use descriptive, PEP 8 compliant names",
	"redefined-outer-name":       "Use different variable name to avoid shadowing",
	"broad-except":               "Catch specific exceptions instead of bare except",
	"bare-except":                "Never use bare except, catch specific exceptions",
	"consider-using-enumerate":   "Use enumerate() for cleaner iteration",
	"consider-using-dict-items":  "Use .items() instead of .keys()",
	"simplifiable-if-expression": "Simplify the conditional expression",
}

// pylintMessage соответствует элементу JSON-вывода pylint (--output-format=json).
type pylintMessage struct {
	Type      string `json:"type"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	MessageID string `json:"message-id"`
}

// radonBlock описывает функцию или класс из вывода radon cc -j.
type radonBlock struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	LineNo     int    `json:"lineno"`
	Complexity int    `json:"complexity"`
	Rank       string `json:"rank"`
}

// radonMaintainability соответствует записи radon mi -j для одного файла.
type radonMaintainability struct {
	MI    float64 `json:"mi"`
	Rank  string  `json:"rank"`
	Error string  `json:"error"`
}

// QualityAnalyzer оценивает качество и сложность Python-кода (pylint + radon).
type QualityAnalyzer struct {
	runner  CommandRunner
	pylint  string
	radon   string
	timeout time.Duration
	logger  *logrus.Logger
}

// NewQualityAnalyzer создает анализатор на основе pylint и radon.
func NewQualityAnalyzer(runner CommandRunner, pylint, radon string, timeout time.Duration, logger *logrus.Logger) *QualityAnalyzer {
	return &QualityAnalyzer{
		runner:  runner,
		pylint:  pylint,
		radon:   radon,
		timeout: timeout,
		logger:  logger,
	}
}

func (a *QualityAnalyzer) Name() string {
	return QualityAnalyzerName
}

// Analyze запускает pylint и radon. Ошибка возвращается, только если отказали обе утилиты.
func (a *QualityAnalyzer) Analyze(ctx context.Context, diff *domain.Diff) ([]domain.FindingDraft, error) {
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

	pylintDrafts, pylintErr := a.runPylint(ctx, workspace)
	radonDrafts, radonErr := a.runRadon(ctx, workspace)

	if pylintErr != nil && radonErr != nil {
		return nil, errors.Join(pylintErr, radonErr)
	}

	log := a.logger.WithField("analyzer", QualityAnalyzerName)
	if pylintErr != nil {
		log.WithError(pylintErr).Warn("pylint failed, continuing with radon")
	}
	if radonErr != nil {
		log.WithError(radonErr).Warn("radon failed, continuing with pylint")
	}

	return append(pylintDrafts, radonDrafts...), nil
}

func (a *QualityAnalyzer) runPylint(ctx context.Context, workspace string) ([]domain.FindingDraft, error) {
	result, err := a.runner.Run(ctx, a.pylint, workspace,
		"--output-format=json",
		"--disable=all",
		"--enable=E,W,R",
		"--max-line-length=120",
		"--good-names=i,j,k,v,f,fp,db",
	)
	if err != nil {
		return nil, err
	}
	if result.ExitCode&(pylintUsageError|pylintFatal) != 0 && len(result.Stdout) == 0 {
		return nil, fmt.Errorf("pylint exited with code %d: %s", result.ExitCode, tail(result.Stderr, 500))
	}
	return parsePylintOutput(result.Stdout, workspace)
}

func (a *QualityAnalyzer) runRadon(ctx context.Context, workspace string) ([]domain.FindingDraft, error) {
	ccResult, ccErr := a.runner.Run(ctx, a.radon, "cc", workspace, "-j", "-n", "C")
	if ccErr == nil && ccResult.ExitCode != 0 {
		ccErr = fmt.Errorf("radon cc exited with code %d: %s", ccResult.ExitCode, tail(ccResult.Stderr, 500))
	}

	miResult, miErr := a.runner.Run(ctx, a.radon, "mi", workspace, "-j", "-n", "B")
	if miErr == nil && miResult.ExitCode != 0 {
		miErr = fmt.Errorf("radon mi exited with code %d: %s", miResult.ExitCode, tail(miResult.Stderr, 500))
	}

	var drafts []domain.FindingDraft
	if ccErr == nil {
		var cc []domain.FindingDraft
		cc, ccErr = parseRadonCC(ccResult.Stdout, workspace)
		drafts = append(drafts, cc...)
	}
	if miErr == nil {
		var mi []domain.FindingDraft
		mi, miErr = parseRadonMI(miResult.Stdout, workspace)
		drafts = append(drafts, mi...)
	}

	if ccErr != nil && miErr != nil {
		return nil, errors.Join(ccErr, miErr)
	}
	return drafts, nil
}

func parsePylintOutput(output []byte, workspace string) ([]domain.FindingDraft, error) {
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, nil
	}

	var messages []pylintMessage
	if err := json.Unmarshal(output, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse pylint output: %w", err)
	}

	drafts := make([]domain.FindingDraft, 0, len(messages))
	for _, m := range messages {
		severity, ok := pylintSeverity[strings.ToLower(m.Type)]
		if !ok {
			severity = domain.SeverityInfo
		}

		advice, ok := pylintAdvice[m.Symbol]
		if !ok {
			advice = "Review and fix: " + m.Message
		}

		title := m.Message
		if title == "" {
			title = "Code quality issue"
		}

		drafts = append(drafts, domain.FindingDraft{
			Category:    domain.CategoryQuality,
			Severity:    severity,
			Title:       title,
			Description: fmt.Sprintf("%s (%s)", m.Message, m.Symbol),
			FilePath:    strPtr(relPath(workspace, m.Path)),
			LineNumber:  intPtr(m.Line),
			Suggestion:  strPtr(advice),
			ToolSource:  pylintToolSource,
		})
	}
	return drafts, nil
}

// parseRadonCC превращает функции со сложностью от 11 в находки.
func parseRadonCC(output []byte, workspace string) ([]domain.FindingDraft, error) {
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, nil
	}

	var report map[string]json.RawMessage
	if err := json.Unmarshal(output, &report); err != nil {
		return nil, fmt.Errorf("failed to parse radon cc output: %w", err)
	}

	var drafts []domain.FindingDraft
	for file, raw := range report {
		var blocks []radonBlock
		// Для файлов с синтаксической ошибкой radon отдает объект {"error": ...}.
		if err := json.Unmarshal(raw, &blocks); err != nil {
			continue
		}

		for _, b := range blocks {
			var severity domain.Severity
			var advice string
			switch {
			case b.Complexity >= 21:
				severity = domain.SeverityCritical
				advice = "This function is extremely complex. Consider breaking it into smaller, focused functions."
			case b.Complexity >= 11:
				severity = domain.SeverityWarning
				advice = "This function is moderately complex. Consider refactoring to improve readability."
			default:
				continue
			}

			drafts = append(drafts, domain.FindingDraft{
				Category:    domain.CategoryQuality,
				Severity:    severity,
				Title:       "High cyclomatic complexity in " + b.Name,
				Description: fmt.Sprintf("%s '%s' has cyclomatic complexity of %d (rank %s)", b.Type, b.Name, b.Complexity, b.Rank),
				FilePath:    strPtr(relPath(workspace, file)),
				LineNumber:  intPtr(b.LineNo),
				Suggestion:  strPtr(advice),
				ToolSource:  radonToolSource,
			})
		}
	}
	sortDrafts(drafts)
	return drafts, nil
}

// parseRadonMI превращает файлы с индексом сопровождаемости ниже 65 в находки.
func parseRadonMI(output []byte, workspace string) ([]domain.FindingDraft, error) {
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, nil
	}

	var report map[string]radonMaintainability
	if err := json.Unmarshal(output, &report); err != nil {
		return nil, fmt.Errorf("failed to parse radon mi output: %w", err)
	}

	var drafts []domain.FindingDraft
	for file, entry := range report {
		if entry.Error != "" {
			continue
		}

		var severity domain.Severity
		var advice string
		switch {
		case entry.MI < 25:
			severity = domain.SeverityCritical
			advice = "This file has very low maintainability. Major refactoring recommended."
		case entry.MI < 50:
			severity = domain.SeverityWarning
			advice = "This file has low maintainability. Consider refactoring to improve code quality."
		case entry.MI < 65:
			severity = domain.SeverityInfo
			advice = "This file has moderate maintainability. Minor improvements recommended."
		default:
			continue
		}

		rel := relPath(workspace, file)
		drafts = append(drafts, domain.FindingDraft{
			Category:    domain.CategoryQuality,
			Severity:    severity,
			Title:       "Low maintainability index in " + path.Base(rel),
			Description: fmt.Sprintf("File has maintainability index of %.2f (rank %s)", entry.MI, entry.Rank),
			FilePath:    strPtr(rel),
			LineNumber:  intPtr(1),
			Suggestion:  strPtr(advice),
			ToolSource:  radonToolSource,
		})
	}
	sortDrafts(drafts)
	return drafts, nil
}
