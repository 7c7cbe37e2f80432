package github

import (
	"bufio"
	"strings"

	"code-review-service/internal/domain"

	"github.com/go-enry/go-enry/v2"
)

const devNull = "/dev/null"

// ParseUnifiedDiff разбирает unified diff на файлы.
// В Content попадают только добавленные строки; удаленные, вендорные и бинарные файлы пропускаются.
func ParseUnifiedDiff(raw string) []domain.FileDiff {
	var (
		files   []domain.FileDiff
		current *domain.FileDiff
		content strings.Builder
		skip    bool
		inHunk  bool
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Content = content.String()
		if !skip && current.Path != "" && !enry.IsBinary([]byte(current.Content)) {
			current.Language = enry.GetLanguage(current.Path, []byte(current.Content))
			files = append(files, *current)
		}
		current = nil
		content.Reset()
		skip = false
		inHunk = false
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			current = &domain.FileDiff{Path: pathFromDiffHeader(line)}
		case current == nil:
			continue
		case !inHunk && strings.HasPrefix(line, "Binary files "):
			skip = true
		case !inHunk && strings.HasPrefix(line, "deleted file mode"):
			skip = true
		case !inHunk && strings.HasPrefix(line, "--- "):
		case !inHunk && strings.HasPrefix(line, "+++ "):
			target := strings.TrimPrefix(line, "+++ ")
			if target == devNull {
				skip = true
				continue
			}
			current.Path = strings.TrimPrefix(target, "b/")
			if enry.IsVendor(current.Path) {
				skip = true
			}
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case inHunk && strings.HasPrefix(line, "+"):
			current.Additions++
			content.WriteString(line[1:])
			content.WriteByte('\n')
		case inHunk && strings.HasPrefix(line, "-"):
			current.Deletions++
		}
	}
	flush()

	return files
}

// pathFromDiffHeader достает путь из строки "diff --git a/x b/x".
func pathFromDiffHeader(line string) string {
	rest := strings.TrimPrefix(line, "diff --git ")
	if idx := strings.Index(rest, " b/"); idx >= 0 {
		return rest[idx+3:]
	}
	return ""
}

// NewDiff собирает Diff пул-реквеста из разобранных файлов.
func NewDiff(pr *domain.PullRequest, files []domain.FileDiff) *domain.Diff {
	diff := &domain.Diff{
		Title: pr.Title,
		Files: files,
	}
	if pr.Description != nil {
		diff.Description = *pr.Description
	}
	for _, f := range files {
		diff.Additions += f.Additions
		diff.Deletions += f.Deletions
	}
	return diff
}
