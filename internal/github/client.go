package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"code-review-service/internal/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v59/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxRetries     = 3
	listPageSize          = 100
	maxListPages          = 10
)

// Client оборачивает GitHub API: дифф, метаданные PR и репозиториев, установку вебхука.
type Client struct {
	client     *github.Client
	logger     *logrus.Logger
	maxRetries uint64
}

// NewClient создает клиент GitHub. Пустой token дает анонимный доступ.
func NewClient(token, apiURL string, logger *logrus.Logger) (*Client, error) {
	httpClient := &http.Client{}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	httpClient.Timeout = defaultRequestTimeout

	client := github.NewClient(httpClient)
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = baseURL
	}

	return &Client{
		client:     client,
		logger:     logger,
		maxRetries: defaultMaxRetries,
	}, nil
}

// GetDiff загружает unified diff пул-реквеста и разбирает его на файлы.
func (c *Client) GetDiff(ctx context.Context, pr *domain.PullRequest) (*domain.Diff, error) {
	owner, repo, err := splitFullName(pr.RepoFullName)
	if err != nil {
		return nil, err
	}

	var raw string
	err = c.retry(ctx, func() error {
		var callErr error
		raw, _, callErr = c.client.PullRequests.GetRaw(ctx, owner, repo, pr.Number, github.RawOptions{Type: github.Diff})
		return classify(callErr)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s#%d", domain.ErrDiffUnavailable, pr.RepoFullName, pr.Number)
		}
		return nil, fmt.Errorf("failed to fetch diff for %s#%d: %w", pr.RepoFullName, pr.Number, err)
	}

	files := ParseUnifiedDiff(raw)
	c.logger.WithFields(logrus.Fields{
		"repo":   pr.RepoFullName,
		"number": pr.Number,
		"files":  len(files),
	}).Debug("Fetched pull request diff")

	return NewDiff(pr, files), nil
}

// GetRepository возвращает метаданные репозитория по full name.
func (c *Client) GetRepository(ctx context.Context, fullName string) (*domain.RemoteRepo, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	var repo *github.Repository
	err = c.retry(ctx, func() error {
		var callErr error
		repo, _, callErr = c.client.Repositories.Get(ctx, owner, name)
		return classify(callErr)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrRepoNotFound
		}
		return nil, fmt.Errorf("failed to get repository %s: %w", fullName, err)
	}

	return &domain.RemoteRepo{
		GitHubID: repo.GetID(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		Owner:    repo.GetOwner().GetLogin(),
	}, nil
}

// GetPullRequest возвращает актуальное состояние PR с GitHub.
func (c *Client) GetPullRequest(ctx context.Context, fullName string, number int) (*domain.PullRequest, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	var pr *github.PullRequest
	err = c.retry(ctx, func() error {
		var callErr error
		pr, _, callErr = c.client.PullRequests.Get(ctx, owner, name, number)
		return classify(callErr)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrPRNotFound
		}
		return nil, fmt.Errorf("failed to get pull request %s#%d: %w", fullName, number, err)
	}

	result := PullRequestFromGitHub(pr)
	result.RepoFullName = fullName
	return result, nil
}

type hookRequest struct {
	Name   string            `json:"name"`
	Active bool              `json:"active"`
	Events []string          `json:"events"`
	Config map[string]string `json:"config"`
}

// CreateWebhook устанавливает вебхук pull_request и возвращает его ID.
func (c *Client) CreateWebhook(ctx context.Context, fullName, hookURL, secret string) (int64, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return 0, err
	}

	body := hookRequest{
		Name:   "web",
		Active: true,
		Events: []string{"pull_request"},
		Config: map[string]string{
			"url":          hookURL,
			"content_type": "json",
			"secret":       secret,
		},
	}

	req, err := c.client.NewRequest(http.MethodPost, fmt.Sprintf("repos/%s/%s/hooks", owner, name), body)
	if err != nil {
		return 0, fmt.Errorf("failed to build create hook request: %w", err)
	}

	hook := new(github.Hook)
	if _, err := c.client.Do(ctx, req, hook); err != nil {
		if isNotFound(err) {
			return 0, domain.ErrRepoNotFound
		}
		return 0, fmt.Errorf("failed to create webhook for %s: %w", fullName, err)
	}

	return hook.GetID(), nil
}

// DeleteWebhook снимает вебхук. Уже удаленный вебхук не считается ошибкой.
func (c *Client) DeleteWebhook(ctx context.Context, fullName string, hookID int64) error {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return err
	}

	err = c.retry(ctx, func() error {
		_, callErr := c.client.Repositories.DeleteHook(ctx, owner, name, hookID)
		return classify(callErr)
	})
	if err != nil {
		if isNotFound(err) {
			c.logger.WithFields(logrus.Fields{
				"repo":       fullName,
				"webhook_id": hookID,
			}).Warn("Webhook already removed")
			return nil
		}
		return fmt.Errorf("failed to delete webhook %d for %s: %w", hookID, fullName, err)
	}
	return nil
}

// ListPullRequests постранично загружает PR репозитория, недавно обновленные первыми.
func (c *Client) ListPullRequests(ctx context.Context, fullName, state string) ([]*domain.PullRequest, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	opts := &github.PullRequestListOptions{
		State:       state,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var result []*domain.PullRequest
	for page := 0; page < maxListPages; page++ {
		var (
			prs  []*github.PullRequest
			resp *github.Response
		)
		err = c.retry(ctx, func() error {
			var callErr error
			prs, resp, callErr = c.client.PullRequests.List(ctx, owner, name, opts)
			return classify(callErr)
		})
		if err != nil {
			if isNotFound(err) {
				return nil, domain.ErrRepoNotFound
			}
			return nil, fmt.Errorf("failed to list pull requests for %s: %w", fullName, err)
		}

		for _, pr := range prs {
			converted := PullRequestFromGitHub(pr)
			converted.RepoFullName = fullName
			result = append(result, converted)
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.WithFields(logrus.Fields{
		"repo":  fullName,
		"state": state,
		"count": len(result),
	}).Debug("Listed pull requests")

	return result, nil
}

// PullRequestFromGitHub переводит PR из модели go-github в доменную.
func PullRequestFromGitHub(pr *github.PullRequest) *domain.PullRequest {
	state := pr.GetState()
	if pr.GetMerged() || pr.MergedAt != nil {
		state = domain.PRStateMerged
	}

	result := &domain.PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		State:        state,
		Description:  pr.Body,
		FilesChanged: pr.GetChangedFiles(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		HTMLURL:      pr.HTMLURL,
	}
	if login := pr.GetUser().GetLogin(); login != "" {
		result.Author = &login
	}
	if ref := pr.GetBase().GetRef(); ref != "" {
		result.BaseBranch = &ref
	}
	if ref := pr.GetHead().GetRef(); ref != "" {
		result.HeadBranch = &ref
	}
	return result
}

func (c *Client) retry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries),
		ctx,
	)
	return backoff.Retry(op, policy)
}

// classify делает ошибки клиента (4xx, кроме 429) неповторяемыми.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return backoff.Permanent(err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		code := respErr.Response.StatusCode
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
	}
	return err
}

func isNotFound(err error) bool {
	var respErr *github.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}

func splitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", domain.ErrInvalidRepoName
	}
	return owner, name, nil
}
