package domain

import "context"

// FileDiff описывает один измененный файл пул-реквеста.
// Content содержит только добавленные строки.
type FileDiff struct {
	Path      string
	Language  string
	Content   string
	Additions int
	Deletions int
}

// Diff содержит набор изменений пул-реквеста, передаваемый анализаторам.
type Diff struct {
	Title       string
	Description string
	Files       []FileDiff
	Additions   int
	Deletions   int
}

// FilesByLanguage возвращает файлы указанного языка.
func (d *Diff) FilesByLanguage(language string) []FileDiff {
	var files []FileDiff
	for _, f := range d.Files {
		if f.Language == language {
			files = append(files, f)
		}
	}
	return files
}

// Analyzer производит находки по диффу пул-реквеста.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, diff *Diff) ([]FindingDraft, error)
}

// DiffProvider получает дифф пул-реквеста из внешнего источника.
type DiffProvider interface {
	GetDiff(ctx context.Context, pr *PullRequest) (*Diff, error)
}

// Summarizer генерирует текстовое резюме по списку находок.
type Summarizer interface {
	Summarize(ctx context.Context, findings []*Finding) (string, error)
}

// RemoteRepo содержит метаданные репозитория на стороне GitHub.
type RemoteRepo struct {
	GitHubID int64
	Name     string
	FullName string
	Owner    string
}

// GitHubGateway определяет операции GitHub API помимо получения диффа.
type GitHubGateway interface {
	GetRepository(ctx context.Context, fullName string) (*RemoteRepo, error)
	GetPullRequest(ctx context.Context, fullName string, number int) (*PullRequest, error)
	CreateWebhook(ctx context.Context, fullName, url, secret string) (int64, error)
	DeleteWebhook(ctx context.Context, fullName string, hookID int64) error
	// ListPullRequests возвращает PR репозитория в состоянии open, closed или all.
	ListPullRequests(ctx context.Context, fullName, state string) ([]*PullRequest, error)
}
