package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relnote/pkg/domain/interfaces"
	"github.com/m-mizutani/relnote/pkg/domain/model"
	"github.com/m-mizutani/relnote/pkg/domain/types"
	"github.com/m-mizutani/relnote/pkg/infra/cache"
	"github.com/m-mizutani/relnote/pkg/usecase"
)

// MockReleaseClient is a mock implementation of ReleaseClient
type MockReleaseClient struct {
	getLatestFunc func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error)
	getByTagFunc  func(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error)
	latestCalls   int
	byTagCalls    int
}

func (m *MockReleaseClient) GetLatestRelease(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
	m.latestCalls++
	if m.getLatestFunc != nil {
		return m.getLatestFunc(ctx, org, repo)
	}
	return nil, goerr.New("mock not configured")
}

func (m *MockReleaseClient) GetReleaseByTag(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
	m.byTagCalls++
	if m.getByTagFunc != nil {
		return m.getByTagFunc(ctx, org, repo, tag)
	}
	return nil, goerr.New("mock not configured")
}

func testRelease(name, tag string) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		Name:    github.Ptr(name),
		TagName: github.Ptr(tag),
		Body:    github.Ptr("**Bold** and *italic* text.\n"),
		HTMLURL: github.Ptr("https://github.com/octo/app/releases/tag/" + tag),
		Author: &github.User{
			Login:     github.Ptr("octocat"),
			AvatarURL: github.Ptr("https://avatars.example.com/octocat"),
		},
	}
}

func newUseCase(t *testing.T, client *MockReleaseClient, capacity int) interfaces.ReleaseNotesUseCase {
	t.Helper()
	store := gt.R1(cache.New(capacity)).NoError(t)
	return usecase.NewReleaseNotes(client, store)
}

func TestGetReleaseNotes_MissThenHit(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getLatestFunc: func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
			return testRelease("Release 1.0", "v1.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	first, err := uc.GetReleaseNotes(ctx, "octo", "app", model.LatestSelector())
	gt.NoError(t, err)
	gt.Value(t, first.Latest).Equal(true)
	gt.Number(t, mock.latestCalls).Equal(1)

	second, err := uc.GetReleaseNotes(ctx, "octo", "app", model.LatestSelector())
	gt.NoError(t, err)
	gt.Value(t, second).Equal(first)
	gt.Number(t, mock.latestCalls).Equal(1) // served from cache
}

func TestGetReleaseNotes_AssemblesRecord(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getByTagFunc: func(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
			return testRelease("Big Release", "v2.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	notes, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v2.0"))
	gt.NoError(t, err)

	gt.Value(t, notes.Org).Equal("octo")
	gt.Value(t, notes.Repo).Equal("app")
	gt.Value(t, notes.Title).Equal("Big Release")
	gt.Value(t, notes.Tag).Equal("v2.0")
	gt.Value(t, notes.Latest).Equal(false)
	gt.Value(t, notes.URL).Equal("https://github.com/octo/app/releases/tag/v2.0")
	gt.Value(t, notes.Author.Name).Equal("octocat")

	gt.Number(t, len(notes.Items)).Equal(1)
	gt.Value(t, notes.Items[0]).Equal(model.Item{
		Category: model.CategoryText,
		Text:     "<b>Bold</b> and <i>italic</i> text.",
	})
}

func TestGetReleaseNotes_TitleFallsBackToTag(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getByTagFunc: func(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
			return &github.RepositoryRelease{
				TagName: github.Ptr("v3.0"),
				HTMLURL: github.Ptr("https://github.com/octo/app/releases/tag/v3.0"),
			}, nil
		},
	}
	uc := newUseCase(t, mock, 8)

	notes, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v3.0"))
	gt.NoError(t, err)

	gt.Value(t, notes.Title).Equal("v3.0")
	gt.Value(t, notes.Author).Nil()
	gt.Value(t, notes.Items).NotNil()
	gt.Number(t, len(notes.Items)).Equal(0)
}

func TestGetReleaseNotes_SpecificDoesNotServeLatest(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getLatestFunc: func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
			return testRelease("Release 1.0", "v1.0"), nil
		},
		getByTagFunc: func(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
			return testRelease("Release 1.0", "v1.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	// v1.0 is in fact the newest tag upstream, but a tag-selector record
	// must not satisfy a latest lookup
	_, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v1.0"))
	gt.NoError(t, err)
	gt.Number(t, mock.byTagCalls).Equal(1)

	notes, err := uc.GetReleaseNotes(ctx, "octo", "app", model.LatestSelector())
	gt.NoError(t, err)
	gt.Value(t, notes.Latest).Equal(true)
	gt.Number(t, mock.latestCalls).Equal(1)
}

func TestGetReleaseNotes_EvictionForcesRefetch(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getByTagFunc: func(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
			return testRelease("Release "+tag, tag), nil
		},
	}
	uc := newUseCase(t, mock, 2)

	for _, tag := range []string{"v1.0", "v2.0", "v3.0"} {
		_, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector(tag))
		gt.NoError(t, err)
	}
	gt.Number(t, mock.byTagCalls).Equal(3)

	// v1.0 was evicted as least recently used
	_, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v1.0"))
	gt.NoError(t, err)
	gt.Number(t, mock.byTagCalls).Equal(4)

	// v3.0 survived
	_, err = uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v3.0"))
	gt.NoError(t, err)
	gt.Number(t, mock.byTagCalls).Equal(4)
}

func TestGetReleaseNotes_ConcurrentMissesShareOneFetch(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})
	var startOnce sync.Once
	release := make(chan struct{})
	var appCalls int32

	mock := &MockReleaseClient{
		getLatestFunc: func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
			if repo == "app" {
				atomic.AddInt32(&appCalls, 1)
				startOnce.Do(func() { close(started) })
				<-release // block until the test lets the fetch finish
			}
			return testRelease("Release 1.0", "v1.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	const workers = 5
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.GetReleaseNotes(ctx, "octo", "app", model.LatestSelector())
			errCh <- err
		}()
	}

	// an unrelated repository is served while the app fetch is blocked
	<-started
	notes, err := uc.GetReleaseNotes(ctx, "octo", "other", model.LatestSelector())
	gt.NoError(t, err)
	gt.Value(t, notes.Tag).Equal("v1.0")

	close(release)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		gt.NoError(t, err)
	}

	// all concurrent misses for the same key shared one upstream call
	gt.Number(t, int(atomic.LoadInt32(&appCalls))).Equal(1)
}

func TestGetReleaseNotes_UpstreamErrorPropagates(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getLatestFunc: func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
			return nil, goerr.New("connection reset", goerr.T(types.TagUpstream))
		},
	}
	uc := newUseCase(t, mock, 8)

	_, err := uc.GetReleaseNotes(ctx, "octo", "app", model.LatestSelector())
	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.TagUpstream)).Equal(true)
}

func TestForceRefresh_InsertsRecord(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getLatestFunc: func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
			return testRelease("Release 1.0", "v1.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	gt.NoError(t, uc.ForceRefresh(ctx, "octo", "app", model.LatestSelector()))
	gt.Number(t, mock.latestCalls).Equal(1)

	// the refreshed record serves subsequent lookups without a new fetch
	notes, err := uc.GetReleaseNotes(ctx, "octo", "app", model.LatestSelector())
	gt.NoError(t, err)
	gt.Value(t, notes.Tag).Equal("v1.0")
	gt.Number(t, mock.latestCalls).Equal(1)
}

func TestForceRefresh_AlwaysFetches(t *testing.T) {
	ctx := context.Background()
	mock := &MockReleaseClient{
		getLatestFunc: func(ctx context.Context, org, repo string) (*github.RepositoryRelease, error) {
			return testRelease("Release 1.0", "v1.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	gt.NoError(t, uc.ForceRefresh(ctx, "octo", "app", model.LatestSelector()))
	gt.NoError(t, uc.ForceRefresh(ctx, "octo", "app", model.LatestSelector()))
	gt.Number(t, mock.latestCalls).Equal(2)
}

func TestForceRefresh_NotFoundLeavesCacheIntact(t *testing.T) {
	ctx := context.Background()
	available := true
	mock := &MockReleaseClient{
		getByTagFunc: func(ctx context.Context, org, repo, tag string) (*github.RepositoryRelease, error) {
			if !available {
				return nil, goerr.New("release not found", goerr.T(types.TagNotFound))
			}
			return testRelease("Release 1.0", "v1.0"), nil
		},
	}
	uc := newUseCase(t, mock, 8)

	first, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v1.0"))
	gt.NoError(t, err)

	available = false
	err = uc.ForceRefresh(ctx, "octo", "app", model.TagSelector("v1.0"))
	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.TagNotFound)).Equal(true)

	// the previously cached record is still served
	cached, err := uc.GetReleaseNotes(ctx, "octo", "app", model.TagSelector("v1.0"))
	gt.NoError(t, err)
	gt.Value(t, cached).Equal(first)
}
