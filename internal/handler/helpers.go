package handler

import (
	"errors"
	"net/http"

	"code-review-service/api"
	"code-review-service/internal/domain"

	"github.com/labstack/echo/v4"
)

// Вспомогательные функции преобразования доменных моделей в API модели

func toAPIRepository(repo *domain.Repo) api.Repository {
	return api.Repository{
		Id:        repo.ID,
		GithubId:  repo.GitHubID,
		Name:      repo.Name,
		FullName:  repo.FullName,
		Owner:     repo.Owner,
		IsActive:  repo.IsActive,
		WebhookId: repo.WebhookID,
		CreatedAt: repo.CreatedAt,
		UpdatedAt: repo.UpdatedAt,
	}
}

func toAPIPullRequest(pr *domain.PullRequest) api.PullRequest {
	return api.PullRequest{
		Id:           pr.ID,
		RepositoryId: pr.RepositoryID,
		Repository:   pr.RepoFullName,
		Number:       pr.Number,
		Title:        pr.Title,
		Description:  pr.Description,
		Author:       pr.Author,
		State:        api.PullRequestState(pr.State),
		BaseBranch:   pr.BaseBranch,
		HeadBranch:   pr.HeadBranch,
		FilesChanged: pr.FilesChanged,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
		HtmlUrl:      pr.HTMLURL,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
	}
}

func toAPIReview(review *domain.Review) api.Review {
	toolErrors := make([]api.ToolError, len(review.ToolErrors))
	for i, te := range review.ToolErrors {
		toolErrors[i] = api.ToolError{Tool: te.Tool, Error: te.Error}
	}

	return api.Review{
		Id:            review.ID,
		PullRequestId: review.PullRequestID,
		Status:        api.ReviewStatus(review.Status),
		OverallScore:  review.OverallScore,
		Summary:       review.Summary,
		CriticalCount: review.CriticalCount,
		WarningCount:  review.WarningCount,
		InfoCount:     review.InfoCount,
		ToolErrors:    toolErrors,
		StartedAt:     review.StartedAt,
		CompletedAt:   review.CompletedAt,
		CreatedAt:     review.CreatedAt,
	}
}

func toAPIFinding(f *domain.Finding) api.Finding {
	return api.Finding{
		Id:          f.ID,
		ReviewId:    f.ReviewID,
		Category:    api.FindingCategory(f.Category),
		Severity:    api.FindingSeverity(f.Severity),
		Title:       f.Title,
		Description: f.Description,
		FilePath:    f.FilePath,
		LineNumber:  f.LineNumber,
		CodeSnippet: f.CodeSnippet,
		Suggestion:  f.Suggestion,
		ToolSource:  f.ToolSource,
		CreatedAt:   f.CreatedAt,
	}
}

func toAPIStats(stats *domain.ReviewStats) api.Stats {
	return api.Stats{
		TotalReviews:          stats.TotalReviews,
		PendingReviews:        stats.PendingReviews,
		InProgressReviews:     stats.InProgressReviews,
		CompletedReviews:      stats.CompletedReviews,
		FailedReviews:         stats.FailedReviews,
		AvgScore:              stats.AvgScore,
		TotalCriticalFindings: stats.TotalCriticalFindings,
		TotalWarningFindings:  stats.TotalWarningFindings,
		TotalInfoFindings:     stats.TotalInfoFindings,
	}
}

func toErrorResponse(code, message string) api.ErrorResponse {
	var resp api.ErrorResponse
	resp.Error.Code = api.ErrorResponseErrorCode(code)
	resp.Error.Message = message
	return resp
}

func toAPIErrorResponse(httpErr domain.HTTPError) api.ErrorResponse {
	return toErrorResponse(httpErr.Code, httpErr.Message)
}

// respondError отвечает доменной ошибкой или INTERNAL_ERROR.
func respondError(c echo.Context, err error) error {
	if httpErr, exists := domain.ToHTTPError(err); exists {
		return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
	}
	return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
}

func getHTTPStatusCode(err error) int {
	switch {
	// Conflict errors (409)
	case errors.Is(err, domain.ErrReviewInProgress),
		errors.Is(err, domain.ErrRepoAlreadyExists),
		errors.Is(err, domain.ErrRepoInactive):
		return http.StatusConflict

	// Not Found errors (404)
	case errors.Is(err, domain.ErrRepoNotFound),
		errors.Is(err, domain.ErrPRNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound

	// Bad Request errors (400) - валидация
	case errors.Is(err, domain.ErrInvalidPRID),
		errors.Is(err, domain.ErrInvalidReviewID),
		errors.Is(err, domain.ErrInvalidRepoName),
		errors.Is(err, domain.ErrInvalidPRNumber),
		errors.Is(err, domain.ErrInvalidPRState),
		errors.Is(err, domain.ErrInvalidSeverity),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPagination),
		errors.Is(err, domain.ErrInvalidSyncState),
		errors.Is(err, domain.ErrInvalidRepoUpdate):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
