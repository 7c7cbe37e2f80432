package domain

import "errors"

// Domain errors (для бизнес-логики)
var (
	// Validation errors
	ErrInvalidPRID       = errors.New("invalid pull request id")
	ErrInvalidReviewID   = errors.New("invalid review id")
	ErrInvalidRepoName   = errors.New("invalid repository full name")
	ErrInvalidPRNumber   = errors.New("invalid pull request number")
	ErrInvalidPRState    = errors.New("invalid pull request state")
	ErrInvalidSeverity   = errors.New("invalid severity")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidStatus     = errors.New("invalid review status")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrInvalidSyncState  = errors.New("invalid sync state")
	ErrInvalidRepoUpdate = errors.New("invalid repository update")

	// Repository errors
	ErrRepoNotFound      = errors.New("repository not found")
	ErrRepoAlreadyExists = errors.New("repository already exists")
	ErrRepoInactive      = errors.New("repository is not monitored")

	// PR errors
	ErrPRNotFound = errors.New("pull request not found")

	// Review errors
	ErrReviewNotFound   = errors.New("review not found")
	ErrReviewInProgress = errors.New("review already in progress for pull request")
	ErrReviewNotActive  = errors.New("review is no longer active")

	// Analysis errors
	ErrAllAnalyzersFailed = errors.New("all analyzers failed")
	ErrAnalyzerOpen       = errors.New("analyzer temporarily disabled after repeated failures")
	ErrDiffUnavailable    = errors.New("pull request diff unavailable")

	// Webhook errors
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// HTTPError для соответствия OpenAPI
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrInvalidPRID:       {Code: "INVALID_REQUEST", Message: "invalid pull request id"},
	ErrInvalidReviewID:   {Code: "INVALID_REQUEST", Message: "invalid review id"},
	ErrInvalidRepoName:   {Code: "INVALID_REQUEST", Message: "full_name must look like owner/name"},
	ErrInvalidPRNumber:   {Code: "INVALID_REQUEST", Message: "number must be positive"},
	ErrInvalidPRState:    {Code: "INVALID_REQUEST", Message: "state must be one of open, closed, merged"},
	ErrInvalidSeverity:   {Code: "INVALID_REQUEST", Message: "severity must be one of critical, warning, info"},
	ErrInvalidCategory:   {Code: "INVALID_REQUEST", Message: "unknown finding category"},
	ErrInvalidStatus:     {Code: "INVALID_REQUEST", Message: "unknown review status"},
	ErrInvalidPagination: {Code: "INVALID_REQUEST", Message: "limit or offset out of range"},
	ErrInvalidSyncState:  {Code: "INVALID_REQUEST", Message: "state must be one of open, closed, all"},
	ErrInvalidRepoUpdate: {Code: "INVALID_REQUEST", Message: "nothing to update"},
	ErrRepoNotFound:      {Code: "NOT_FOUND", Message: "repository not found"},
	ErrRepoAlreadyExists: {Code: "REPO_EXISTS", Message: "repository already registered"},
	ErrRepoInactive:      {Code: "REPO_INACTIVE", Message: "repository is not monitored"},
	ErrPRNotFound:        {Code: "NOT_FOUND", Message: "pull request not found"},
	ErrReviewNotFound:    {Code: "NOT_FOUND", Message: "review not found"},
	ErrReviewInProgress:  {Code: "REVIEW_IN_PROGRESS", Message: "a review is already running for this pull request"},
	ErrInvalidSignature:  {Code: "INVALID_SIGNATURE", Message: "invalid webhook signature"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку
func ToHTTPError(err error) (HTTPError, bool) {
	for target, httpErr := range ErrorMapping {
		if errors.Is(err, target) {
			return httpErr, true
		}
	}
	return HTTPError{}, false
}
