package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"code-review-service/internal/database"
	"code-review-service/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt32(i *int) sql.NullInt32 {
	if i == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*i), Valid: true}
}

func intPtr(ni sql.NullInt32) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int32)
	return &i
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func marshalToolErrors(toolErrors []domain.ToolError) ([]byte, error) {
	if toolErrors == nil {
		toolErrors = []domain.ToolError{}
	}
	return json.Marshal(toolErrors)
}

func toDomainRepo(r database.Repository) *domain.Repo {
	repo := &domain.Repo{
		ID:        r.ID,
		GitHubID:  r.GithubID,
		Name:      r.Name,
		FullName:  r.FullName,
		Owner:     r.Owner,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.WebhookID.Valid {
		id := r.WebhookID.Int64
		repo.WebhookID = &id
	}
	return repo
}

func toDomainPR(row database.PullRequestRow) *domain.PullRequest {
	return &domain.PullRequest{
		ID:           row.ID,
		RepositoryID: row.RepositoryID,
		RepoFullName: row.RepoFullName,
		Number:       int(row.PrNumber),
		Title:        row.Title,
		Description:  stringPtr(row.Description),
		Author:       stringPtr(row.Author),
		State:        row.State,
		BaseBranch:   stringPtr(row.BaseBranch),
		HeadBranch:   stringPtr(row.HeadBranch),
		FilesChanged: int(row.FilesChanged),
		Additions:    int(row.Additions),
		Deletions:    int(row.Deletions),
		HTMLURL:      stringPtr(row.HtmlUrl),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainReview(r database.Review) (*domain.Review, error) {
	review := &domain.Review{
		ID:            r.ID,
		PullRequestID: r.PullRequestID,
		Status:        domain.ReviewStatus(r.Status),
		OverallScore:  intPtr(r.OverallScore),
		Summary:       stringPtr(r.Summary),
		CriticalCount: int(r.CriticalCount),
		WarningCount:  int(r.WarningCount),
		InfoCount:     int(r.InfoCount),
		StartedAt:     timePtr(r.StartedAt),
		CompletedAt:   timePtr(r.CompletedAt),
		CreatedAt:     r.CreatedAt,
	}
	if len(r.ToolErrors) > 0 {
		if err := json.Unmarshal(r.ToolErrors, &review.ToolErrors); err != nil {
			return nil, err
		}
	}
	if len(review.ToolErrors) == 0 {
		review.ToolErrors = nil
	}
	return review, nil
}

func toDomainFinding(f database.Finding) *domain.Finding {
	return &domain.Finding{
		ID:          f.ID,
		ReviewID:    f.ReviewID,
		Category:    domain.Category(f.Category),
		Severity:    domain.Severity(f.Severity),
		Title:       f.Title,
		Description: f.Description,
		FilePath:    stringPtr(f.FilePath),
		LineNumber:  intPtr(f.LineNumber),
		CodeSnippet: stringPtr(f.CodeSnippet),
		Suggestion:  stringPtr(f.Suggestion),
		ToolSource:  f.ToolSource,
		CreatedAt:   f.CreatedAt,
	}
}
