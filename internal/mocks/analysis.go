package mocks

import (
	"context"

	"code-review-service/internal/domain"
	"code-review-service/internal/worker"

	"github.com/stretchr/testify/mock"
)

type Analyzer struct {
	mock.Mock
}

func (m *Analyzer) Name() string {
	return m.Called().String(0)
}

func (m *Analyzer) Analyze(ctx context.Context, diff *domain.Diff) ([]domain.FindingDraft, error) {
	args := m.Called(ctx, diff)
	return value[[]domain.FindingDraft](args, 0), args.Error(1)
}

type DiffProvider struct {
	mock.Mock
}

func (m *DiffProvider) GetDiff(ctx context.Context, pr *domain.PullRequest) (*domain.Diff, error) {
	args := m.Called(ctx, pr)
	return value[*domain.Diff](args, 0), args.Error(1)
}

type Summarizer struct {
	mock.Mock
}

func (m *Summarizer) Summarize(ctx context.Context, findings []*domain.Finding) (string, error) {
	args := m.Called(ctx, findings)
	return args.String(0), args.Error(1)
}

type GitHubGateway struct {
	mock.Mock
}

func (m *GitHubGateway) GetRepository(ctx context.Context, fullName string) (*domain.RemoteRepo, error) {
	args := m.Called(ctx, fullName)
	return value[*domain.RemoteRepo](args, 0), args.Error(1)
}

func (m *GitHubGateway) GetPullRequest(ctx context.Context, fullName string, number int) (*domain.PullRequest, error) {
	args := m.Called(ctx, fullName, number)
	return value[*domain.PullRequest](args, 0), args.Error(1)
}

func (m *GitHubGateway) CreateWebhook(ctx context.Context, fullName, url, secret string) (int64, error) {
	args := m.Called(ctx, fullName, url, secret)
	return value[int64](args, 0), args.Error(1)
}

func (m *GitHubGateway) DeleteWebhook(ctx context.Context, fullName string, hookID int64) error {
	return m.Called(ctx, fullName, hookID).Error(0)
}

func (m *GitHubGateway) ListPullRequests(ctx context.Context, fullName, state string) ([]*domain.PullRequest, error) {
	args := m.Called(ctx, fullName, state)
	return value[[]*domain.PullRequest](args, 0), args.Error(1)
}

// Dispatcher записывает поставленные задачи; Run выполняет их синхронно.
type Dispatcher struct {
	mock.Mock
	Jobs []worker.Job
}

func (m *Dispatcher) Submit(name string, fn worker.Job) error {
	err := m.Called(name, fn).Error(0)
	if err == nil {
		m.Jobs = append(m.Jobs, fn)
	}
	return err
}

// Run выполняет накопленные задачи с переданным контекстом.
func (m *Dispatcher) Run(ctx context.Context) {
	jobs := m.Jobs
	m.Jobs = nil
	for _, job := range jobs {
		job(ctx)
	}
}
