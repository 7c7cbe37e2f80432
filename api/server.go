package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Liveness check
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// List pull requests
	// (GET /pull-requests)
	GetPullRequests(ctx echo.Context, params GetPullRequestsParams) error
	// Import or refresh a pull request from GitHub
	// (POST /pull-requests/sync)
	PostPullRequestsSync(ctx echo.Context) error
	// Get pull request
	// (GET /pull-requests/{id})
	GetPullRequestsId(ctx echo.Context, id openapi_types.UUID) error
	// List monitored repositories
	// (GET /repositories)
	GetRepositories(ctx echo.Context) error
	// Register repository
	// (POST /repositories)
	PostRepositories(ctx echo.Context) error
	// Stop monitoring and delete repository
	// (DELETE /repositories/{id})
	DeleteRepositoriesId(ctx echo.Context, id openapi_types.UUID) error
	// Get repository
	// (GET /repositories/{id})
	GetRepositoriesId(ctx echo.Context, id openapi_types.UUID) error
	// Update repository
	// (PATCH /repositories/{id})
	PatchRepositoriesId(ctx echo.Context, id openapi_types.UUID) error
	// Import repository pull requests from GitHub
	// (POST /repositories/{id}/sync-pulls)
	PostRepositoriesIdSyncPulls(ctx echo.Context, id openapi_types.UUID, params PostRepositoriesIdSyncPullsParams) error
	// List reviews
	// (GET /reviews)
	GetReviews(ctx echo.Context, params GetReviewsParams) error
	// Run review synchronously
	// (POST /reviews)
	PostReviews(ctx echo.Context) error
	// Delete review with its findings
	// (DELETE /reviews/{id})
	DeleteReviewsId(ctx echo.Context, id openapi_types.UUID) error
	// Get review
	// (GET /reviews/{id})
	GetReviewsId(ctx echo.Context, id openapi_types.UUID) error
	// List review findings
	// (GET /reviews/{id}/findings)
	GetReviewsIdFindings(ctx echo.Context, id openapi_types.UUID, params GetReviewsIdFindingsParams) error
	// Review statistics
	// (GET /stats)
	GetStats(ctx echo.Context) error
	// GitHub webhook receiver
	// (POST /webhooks/github)
	PostWebhooksGithub(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetHealth converts echo context to params.
func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

// GetPullRequests converts echo context to params.
func (w *ServerInterfaceWrapper) GetPullRequests(ctx echo.Context) error {
	var params GetPullRequestsParams

	if err := runtime.BindQueryParameter("form", true, false, "repository_id", ctx.QueryParams(), &params.RepositoryId); err != nil {
		return invalidParam("repository_id", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "state", ctx.QueryParams(), &params.State); err != nil {
		return invalidParam("state", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return invalidParam("limit", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset); err != nil {
		return invalidParam("offset", err)
	}

	return w.Handler.GetPullRequests(ctx, params)
}

// PostPullRequestsSync converts echo context to params.
func (w *ServerInterfaceWrapper) PostPullRequestsSync(ctx echo.Context) error {
	return w.Handler.PostPullRequestsSync(ctx)
}

// GetPullRequestsId converts echo context to params.
func (w *ServerInterfaceWrapper) GetPullRequestsId(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetPullRequestsId(ctx, id)
}

// GetRepositories converts echo context to params.
func (w *ServerInterfaceWrapper) GetRepositories(ctx echo.Context) error {
	return w.Handler.GetRepositories(ctx)
}

// PostRepositories converts echo context to params.
func (w *ServerInterfaceWrapper) PostRepositories(ctx echo.Context) error {
	return w.Handler.PostRepositories(ctx)
}

// DeleteRepositoriesId converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteRepositoriesId(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeleteRepositoriesId(ctx, id)
}

// GetRepositoriesId converts echo context to params.
func (w *ServerInterfaceWrapper) GetRepositoriesId(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetRepositoriesId(ctx, id)
}

// PatchRepositoriesId converts echo context to params.
func (w *ServerInterfaceWrapper) PatchRepositoriesId(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.PatchRepositoriesId(ctx, id)
}

// PostRepositoriesIdSyncPulls converts echo context to params.
func (w *ServerInterfaceWrapper) PostRepositoriesIdSyncPulls(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}

	var params PostRepositoriesIdSyncPullsParams
	if err := runtime.BindQueryParameter("form", true, false, "state", ctx.QueryParams(), &params.State); err != nil {
		return invalidParam("state", err)
	}

	return w.Handler.PostRepositoriesIdSyncPulls(ctx, id, params)
}

// GetReviews converts echo context to params.
func (w *ServerInterfaceWrapper) GetReviews(ctx echo.Context) error {
	var params GetReviewsParams

	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return invalidParam("status", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "pull_request_id", ctx.QueryParams(), &params.PullRequestId); err != nil {
		return invalidParam("pull_request_id", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return invalidParam("limit", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset); err != nil {
		return invalidParam("offset", err)
	}

	return w.Handler.GetReviews(ctx, params)
}

// PostReviews converts echo context to params.
func (w *ServerInterfaceWrapper) PostReviews(ctx echo.Context) error {
	return w.Handler.PostReviews(ctx)
}

// DeleteReviewsId converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteReviewsId(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeleteReviewsId(ctx, id)
}

// GetReviewsId converts echo context to params.
func (w *ServerInterfaceWrapper) GetReviewsId(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetReviewsId(ctx, id)
}

// GetReviewsIdFindings converts echo context to params.
func (w *ServerInterfaceWrapper) GetReviewsIdFindings(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}

	var params GetReviewsIdFindingsParams
	if err := runtime.BindQueryParameter("form", true, false, "severity", ctx.QueryParams(), &params.Severity); err != nil {
		return invalidParam("severity", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", ctx.QueryParams(), &params.Category); err != nil {
		return invalidParam("category", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return invalidParam("limit", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset); err != nil {
		return invalidParam("offset", err)
	}

	return w.Handler.GetReviewsIdFindings(ctx, id, params)
}

// GetStats converts echo context to params.
func (w *ServerInterfaceWrapper) GetStats(ctx echo.Context) error {
	return w.Handler.GetStats(ctx)
}

// PostWebhooksGithub converts echo context to params.
func (w *ServerInterfaceWrapper) PostWebhooksGithub(ctx echo.Context) error {
	return w.Handler.PostWebhooksGithub(ctx)
}

func bindID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, invalidParam("id", err)
	}
	return id, nil
}

func invalidParam(name string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}

// EchoRouter is the subset of echo routing used by RegisterHandlers.
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/health", wrapper.GetHealth)
	router.GET(baseURL+"/pull-requests", wrapper.GetPullRequests)
	router.POST(baseURL+"/pull-requests/sync", wrapper.PostPullRequestsSync)
	router.GET(baseURL+"/pull-requests/:id", wrapper.GetPullRequestsId)
	router.GET(baseURL+"/repositories", wrapper.GetRepositories)
	router.POST(baseURL+"/repositories", wrapper.PostRepositories)
	router.DELETE(baseURL+"/repositories/:id", wrapper.DeleteRepositoriesId)
	router.GET(baseURL+"/repositories/:id", wrapper.GetRepositoriesId)
	router.PATCH(baseURL+"/repositories/:id", wrapper.PatchRepositoriesId)
	router.POST(baseURL+"/repositories/:id/sync-pulls", wrapper.PostRepositoriesIdSyncPulls)
	router.GET(baseURL+"/reviews", wrapper.GetReviews)
	router.POST(baseURL+"/reviews", wrapper.PostReviews)
	router.DELETE(baseURL+"/reviews/:id", wrapper.DeleteReviewsId)
	router.GET(baseURL+"/reviews/:id", wrapper.GetReviewsId)
	router.GET(baseURL+"/reviews/:id/findings", wrapper.GetReviewsIdFindings)
	router.GET(baseURL+"/stats", wrapper.GetStats)
	router.POST(baseURL+"/webhooks/github", wrapper.PostWebhooksGithub)
}
