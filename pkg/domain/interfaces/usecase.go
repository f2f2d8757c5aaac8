package interfaces

import (
	"context"

	"github.com/m-mizutani/relnote/pkg/domain/model"
)

// ReleaseNotesUseCase defines the cache-backed release notes operations
type ReleaseNotesUseCase interface {
	// GetReleaseNotes returns the record for the selected release, serving
	// a cached copy when one matches the selector
	GetReleaseNotes(ctx context.Context, org, repo string, sel model.Selector) (*model.ReleaseNotes, error)

	// ForceRefresh fetches the selected release regardless of cache state
	// and stores the fresh record
	ForceRefresh(ctx context.Context, org, repo string, sel model.Selector) error
}
