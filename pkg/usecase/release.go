package usecase

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"

	"github.com/m-mizutani/relnote/pkg/domain/interfaces"
	"github.com/m-mizutani/relnote/pkg/domain/model"
	"github.com/m-mizutani/relnote/pkg/infra/cache"
)

type releaseNotesUseCase struct {
	client  interfaces.ReleaseClient
	store   *cache.Store
	flight  singleflight.Group
	metrics *Metrics
}

// Option configures the release notes use case
type Option func(*releaseNotesUseCase)

// WithMetrics attaches cache and upstream counters
func WithMetrics(m *Metrics) Option {
	return func(uc *releaseNotesUseCase) {
		uc.metrics = m
	}
}

// NewReleaseNotes creates the cache-backed release notes use case
func NewReleaseNotes(client interfaces.ReleaseClient, store *cache.Store, opts ...Option) interfaces.ReleaseNotesUseCase {
	uc := &releaseNotesUseCase{
		client: client,
		store:  store,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetReleaseNotes serves a cached record when one matches the selector.
// On a miss the upstream fetch runs outside the store lock, coalesced per
// (org, repo, selector) so a slow fetch for one repository cannot stall
// lookups for another.
func (uc *releaseNotesUseCase) GetReleaseNotes(ctx context.Context, org, repo string, sel model.Selector) (*model.ReleaseNotes, error) {
	logger := ctxlog.From(ctx)

	if record, ok := uc.store.Find(org, repo, sel); ok {
		uc.metrics.hit()
		logger.Debug("release notes cache hit",
			"org", org,
			"repo", repo,
			"selector", sel.String(),
		)
		return record, nil
	}

	uc.metrics.miss()
	logger.Info("release notes cache miss, fetching from GitHub",
		"org", org,
		"repo", repo,
		"selector", sel.String(),
	)

	v, err, _ := uc.flight.Do(flightKey(org, repo, sel), func() (any, error) {
		// A coalesced caller may have inserted while this one waited
		if record, ok := uc.store.Find(org, repo, sel); ok {
			return record, nil
		}

		record, err := uc.fetch(ctx, org, repo, sel)
		if err != nil {
			return nil, err
		}

		uc.store.Insert(record)
		return record, nil
	})
	if err != nil {
		uc.metrics.upstreamError()
		logger.Error("failed to fetch release",
			"error", err,
			"org", org,
			"repo", repo,
			"selector", sel.String(),
		)
		return nil, err
	}

	return v.(*model.ReleaseNotes), nil
}

// ForceRefresh always fetches the selected release and stores the fresh
// record. A pre-existing stale match stays in the cache untouched.
func (uc *releaseNotesUseCase) ForceRefresh(ctx context.Context, org, repo string, sel model.Selector) error {
	logger := ctxlog.From(ctx)

	record, err := uc.fetch(ctx, org, repo, sel)
	if err != nil {
		uc.metrics.upstreamError()
		logger.Error("failed to refresh release",
			"error", err,
			"org", org,
			"repo", repo,
			"selector", sel.String(),
		)
		return err
	}

	uc.store.Insert(record)
	logger.Info("refreshed release notes",
		"org", org,
		"repo", repo,
		"tag", record.Tag,
		"latest", record.Latest,
	)
	return nil
}

func (uc *releaseNotesUseCase) fetch(ctx context.Context, org, repo string, sel model.Selector) (*model.ReleaseNotes, error) {
	var release *github.RepositoryRelease
	var err error

	if sel.IsLatest() {
		release, err = uc.client.GetLatestRelease(ctx, org, repo)
	} else {
		release, err = uc.client.GetReleaseByTag(ctx, org, repo, sel.Tag())
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch release metadata",
			goerr.V("org", org),
			goerr.V("repo", repo),
			goerr.V("selector", sel.String()),
		)
	}

	return assemble(org, repo, sel, release), nil
}

func flightKey(org, repo string, sel model.Selector) string {
	return fmt.Sprintf("%s/%s@%s", org, repo, sel.String())
}
