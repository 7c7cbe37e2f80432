package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	ID        uuid.UUID
	GithubID  int64
	Name      string
	FullName  string
	Owner     string
	IsActive  bool
	WebhookID sql.NullInt64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PullRequest struct {
	ID           uuid.UUID
	RepositoryID uuid.UUID
	PrNumber     int32
	Title        string
	Description  sql.NullString
	Author       sql.NullString
	State        string
	BaseBranch   sql.NullString
	HeadBranch   sql.NullString
	FilesChanged int32
	Additions    int32
	Deletions    int32
	HtmlUrl      sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Review struct {
	ID            uuid.UUID
	PullRequestID uuid.UUID
	Status        string
	OverallScore  sql.NullInt32
	Summary       sql.NullString
	CriticalCount int32
	WarningCount  int32
	InfoCount     int32
	ToolErrors    []byte
	StartedAt     sql.NullTime
	CompletedAt   sql.NullTime
	CreatedAt     time.Time
}

type Finding struct {
	ID          uuid.UUID
	ReviewID    uuid.UUID
	Category    string
	Severity    string
	Title       string
	Description string
	FilePath    sql.NullString
	LineNumber  sql.NullInt32
	CodeSnippet sql.NullString
	Suggestion  sql.NullString
	ToolSource  string
	CreatedAt   time.Time
}
