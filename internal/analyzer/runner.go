package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"code-review-service/internal/domain"
)

// LanguagePython задает имя языка Python в терминах go-enry.
const LanguagePython = "Python"

// CommandResult хранит вывод внешней утилиты.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner запускает внешние анализаторы. Ненулевой код выхода ошибкой не считается.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExecRunner запускает утилиты через os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return CommandResult{}, fmt.Errorf("%s: %w", name, ctxErr)
	}

	result := CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return CommandResult{}, fmt.Errorf("failed to run %s: %w", name, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}

// writeWorkspace раскладывает файлы диффа во временный каталог.
// Вызывающий обязан вызвать cleanup.
func writeWorkspace(files []domain.FileDiff) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "review-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	for _, f := range files {
		if !filepath.IsLocal(f.Path) {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("failed to create workspace dir: %w", err)
		}
		if err = os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return dir, cleanup, nil
}

// relPath переводит путь из вывода утилиты в путь внутри репозитория.
func relPath(workspace, path string) string {
	rel, err := filepath.Rel(workspace, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// pythonFiles возвращает непустые Python-файлы диффа.
func pythonFiles(diff *domain.Diff) []domain.FileDiff {
	var files []domain.FileDiff
	for _, f := range diff.FilesByLanguage(LanguagePython) {
		if strings.TrimSpace(f.Content) != "" {
			files = append(files, f)
		}
	}
	return files
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(i int) *int {
	if i <= 0 {
		return nil
	}
	return &i
}

// tail возвращает последние n байт вывода, не разрывая UTF-8 последовательности.
func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return strings.ToValidUTF8(s[len(s)-n:], "")
	}
	return s
}

// sortDrafts упорядочивает находки по файлу и строке.
func sortDrafts(drafts []domain.FindingDraft) {
	sort.SliceStable(drafts, func(i, j int) bool {
		pi, pj := deref(drafts[i].FilePath), deref(drafts[j].FilePath)
		if pi != pj {
			return pi < pj
		}
		li, lj := 0, 0
		if drafts[i].LineNumber != nil {
			li = *drafts[i].LineNumber
		}
		if drafts[j].LineNumber != nil {
			lj = *drafts[j].LineNumber
		}
		return li < lj
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// cut обрезает строку до n байт, не разрывая UTF-8 последовательности.
func cut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
