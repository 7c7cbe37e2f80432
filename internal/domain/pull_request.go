package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	PRStateOpen   = "open"
	PRStateClosed = "closed"
	PRStateMerged = "merged"
)

// PullRequest представляет сущность пул-реквеста GitHub в системе.
type PullRequest struct {
	ID           uuid.UUID
	RepositoryID uuid.UUID
	RepoFullName string
	Number       int
	Title        string
	Description  *string
	Author       *string
	State        string
	BaseBranch   *string
	HeadBranch   *string
	FilesChanged int
	Additions    int
	Deletions    int
	HTMLURL      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Состояния для массовой синхронизации PR с GitHub.
const (
	SyncStateOpen   = "open"
	SyncStateClosed = "closed"
	SyncStateAll    = "all"
)

// SyncResult итог массовой синхронизации PR репозитория.
type SyncResult struct {
	Total   int
	Created int
	Updated int
}

// PullRequestEvent представляет провалидированное событие pull_request из вебхука.
type PullRequestEvent struct {
	Action       string
	RepoGitHubID int64
	RepoFullName string
	PullRequest  PullRequest
	Merged       bool
}

// PRFilter задает фильтры и пагинацию списка пул-реквестов.
type PRFilter struct {
	RepositoryID *uuid.UUID
	State        *string
	Limit        int
	Offset       int
}

// PRRepository определяет контракт для работы с хранилищем пул-реквестов.
type PRRepository interface {
	Upsert(ctx context.Context, pr *PullRequest) (*PullRequest, error)
	GetByID(ctx context.Context, prID uuid.UUID) (*PullRequest, error)
	GetByNumber(ctx context.Context, repoID uuid.UUID, number int) (*PullRequest, error)
	UpdateState(ctx context.Context, prID uuid.UUID, state string) (*PullRequest, error)
	List(ctx context.Context, filter PRFilter) ([]*PullRequest, error)
}
