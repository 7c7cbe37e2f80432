// Package api описывает HTTP-контракт сервиса (см. openapi.yaml).
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for ErrorResponseErrorCode.
const (
	INTERNALERROR    ErrorResponseErrorCode = "INTERNAL_ERROR"
	INVALIDREQUEST   ErrorResponseErrorCode = "INVALID_REQUEST"
	INVALIDSIGNATURE ErrorResponseErrorCode = "INVALID_SIGNATURE"
	NOTFOUND         ErrorResponseErrorCode = "NOT_FOUND"
	REPOEXISTS       ErrorResponseErrorCode = "REPO_EXISTS"
	REPOINACTIVE     ErrorResponseErrorCode = "REPO_INACTIVE"
	REVIEWINPROGRESS ErrorResponseErrorCode = "REVIEW_IN_PROGRESS"
)

// Defines values for FindingCategory.
const (
	FindingCategoryAiSuggestion FindingCategory = "ai_suggestion"
	FindingCategoryPerformance  FindingCategory = "performance"
	FindingCategoryQuality      FindingCategory = "quality"
	FindingCategorySecurity     FindingCategory = "security"
	FindingCategoryStyle        FindingCategory = "style"
)

// Defines values for FindingSeverity.
const (
	FindingSeverityCritical FindingSeverity = "critical"
	FindingSeverityInfo     FindingSeverity = "info"
	FindingSeverityWarning  FindingSeverity = "warning"
)

// Defines values for PullRequestState.
const (
	PullRequestStateClosed PullRequestState = "closed"
	PullRequestStateMerged PullRequestState = "merged"
	PullRequestStateOpen   PullRequestState = "open"
)

// Defines values for ReviewStatus.
const (
	ReviewStatusCompleted  ReviewStatus = "completed"
	ReviewStatusFailed     ReviewStatus = "failed"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusPending    ReviewStatus = "pending"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// ErrorResponseErrorCode defines model for ErrorResponse.Error.Code.
type ErrorResponseErrorCode string

// Finding defines model for Finding.
type Finding struct {
	Category    FindingCategory    `json:"category"`
	CodeSnippet *string            `json:"code_snippet,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Description string             `json:"description"`
	FilePath    *string            `json:"file_path,omitempty"`
	Id          openapi_types.UUID `json:"id"`
	LineNumber  *int               `json:"line_number,omitempty"`
	ReviewId    openapi_types.UUID `json:"review_id"`
	Severity    FindingSeverity    `json:"severity"`
	Suggestion  *string            `json:"suggestion,omitempty"`
	Title       string             `json:"title"`
	ToolSource  string             `json:"tool_source"`
}

// FindingCategory defines model for Finding.Category.
type FindingCategory string

// FindingSeverity defines model for Finding.Severity.
type FindingSeverity string

// FindingList defines model for FindingList.
type FindingList struct {
	Counts   SeverityCounts `json:"counts"`
	Findings []Finding      `json:"findings"`
	Total    int64          `json:"total"`
}

// PullRequest defines model for PullRequest.
type PullRequest struct {
	Additions    int                `json:"additions"`
	Author       *string            `json:"author,omitempty"`
	BaseBranch   *string            `json:"base_branch,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	Deletions    int                `json:"deletions"`
	Description  *string            `json:"description,omitempty"`
	FilesChanged int                `json:"files_changed"`
	HeadBranch   *string            `json:"head_branch,omitempty"`
	HtmlUrl      *string            `json:"html_url,omitempty"`
	Id           openapi_types.UUID `json:"id"`
	Number       int                `json:"number"`
	RepositoryId openapi_types.UUID `json:"repository_id"`
	Repository   string             `json:"repository"`
	State        PullRequestState   `json:"state"`
	Title        string             `json:"title"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// PullRequestState defines model for PullRequest.State.
type PullRequestState string

// Repository defines model for Repository.
type Repository struct {
	CreatedAt time.Time          `json:"created_at"`
	FullName  string             `json:"full_name"`
	GithubId  int64              `json:"github_id"`
	Id        openapi_types.UUID `json:"id"`
	IsActive  bool               `json:"is_active"`
	Name      string             `json:"name"`
	Owner     string             `json:"owner"`
	UpdatedAt time.Time          `json:"updated_at"`
	WebhookId *int64             `json:"webhook_id,omitempty"`
}

// SyncResult defines model for SyncResult.
type SyncResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
	Updated int `json:"updated"`
}

// Review defines model for Review.
type Review struct {
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	CriticalCount int                `json:"critical_count"`
	Id            openapi_types.UUID `json:"id"`
	InfoCount     int                `json:"info_count"`
	OverallScore  *int               `json:"overall_score"`
	PullRequestId openapi_types.UUID `json:"pull_request_id"`
	StartedAt     *time.Time         `json:"started_at,omitempty"`
	Status        ReviewStatus       `json:"status"`
	Summary       *string            `json:"summary"`
	ToolErrors    []ToolError        `json:"tool_errors"`
	WarningCount  int                `json:"warning_count"`
}

// ReviewStatus defines model for Review.Status.
type ReviewStatus string

// ReviewList defines model for ReviewList.
type ReviewList struct {
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
	Reviews []Review `json:"reviews"`
	Total   int64    `json:"total"`
}

// SeverityCounts defines model for SeverityCounts.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Info     int `json:"info"`
	Warning  int `json:"warning"`
}

// Stats defines model for Stats.
type Stats struct {
	AvgScore              *float64 `json:"avg_score"`
	CompletedReviews      int64    `json:"completed_reviews"`
	FailedReviews         int64    `json:"failed_reviews"`
	InProgressReviews     int64    `json:"in_progress_reviews"`
	PendingReviews        int64    `json:"pending_reviews"`
	TotalCriticalFindings int64    `json:"total_critical_findings"`
	TotalInfoFindings     int64    `json:"total_info_findings"`
	TotalReviews          int64    `json:"total_reviews"`
	TotalWarningFindings  int64    `json:"total_warning_findings"`
}

// ToolError defines model for ToolError.
type ToolError struct {
	Error string `json:"error"`
	Tool  string `json:"tool"`
}

// WebhookResponse defines model for WebhookResponse.
type WebhookResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GetPullRequestsParams defines parameters for GetPullRequests.
type GetPullRequestsParams struct {
	RepositoryId *openapi_types.UUID `form:"repository_id,omitempty" json:"repository_id,omitempty"`
	State        *PullRequestState   `form:"state,omitempty" json:"state,omitempty"`
	Limit        *int                `form:"limit,omitempty" json:"limit,omitempty"`
	Offset       *int                `form:"offset,omitempty" json:"offset,omitempty"`
}

// PostPullRequestsSyncJSONBody defines parameters for PostPullRequestsSync.
type PostPullRequestsSyncJSONBody struct {
	Number       int                `json:"number"`
	RepositoryId openapi_types.UUID `json:"repository_id"`
}

// PostRepositoriesJSONBody defines parameters for PostRepositories.
type PostRepositoriesJSONBody struct {
	FullName       string `json:"full_name"`
	InstallWebhook *bool  `json:"install_webhook,omitempty"`
}

// PatchRepositoriesIdJSONBody defines parameters for PatchRepositoriesId.
type PatchRepositoriesIdJSONBody struct {
	IsActive *bool `json:"is_active,omitempty"`
}

// PostRepositoriesIdSyncPullsParamsState defines parameters for PostRepositoriesIdSyncPulls.
type PostRepositoriesIdSyncPullsParamsState string

// Defines values for PostRepositoriesIdSyncPullsParamsState.
const (
	PostRepositoriesIdSyncPullsParamsStateAll    PostRepositoriesIdSyncPullsParamsState = "all"
	PostRepositoriesIdSyncPullsParamsStateClosed PostRepositoriesIdSyncPullsParamsState = "closed"
	PostRepositoriesIdSyncPullsParamsStateOpen   PostRepositoriesIdSyncPullsParamsState = "open"
)

// PostRepositoriesIdSyncPullsParams defines parameters for PostRepositoriesIdSyncPulls.
type PostRepositoriesIdSyncPullsParams struct {
	State *PostRepositoriesIdSyncPullsParamsState `form:"state,omitempty" json:"state,omitempty"`
}

// GetReviewsParams defines parameters for GetReviews.
type GetReviewsParams struct {
	Status        *ReviewStatus       `form:"status,omitempty" json:"status,omitempty"`
	PullRequestId *openapi_types.UUID `form:"pull_request_id,omitempty" json:"pull_request_id,omitempty"`
	Limit         *int                `form:"limit,omitempty" json:"limit,omitempty"`
	Offset        *int                `form:"offset,omitempty" json:"offset,omitempty"`
}

// PostReviewsJSONBody defines parameters for PostReviews.
type PostReviewsJSONBody struct {
	PullRequestId openapi_types.UUID `json:"pull_request_id"`
}

// GetReviewsIdFindingsParams defines parameters for GetReviewsIdFindings.
type GetReviewsIdFindingsParams struct {
	Severity *FindingSeverity `form:"severity,omitempty" json:"severity,omitempty"`
	Category *FindingCategory `form:"category,omitempty" json:"category,omitempty"`
	Limit    *int             `form:"limit,omitempty" json:"limit,omitempty"`
	Offset   *int             `form:"offset,omitempty" json:"offset,omitempty"`
}
