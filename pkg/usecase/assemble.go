package usecase

import (
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/relnote/pkg/domain/model"
	"github.com/m-mizutani/relnote/pkg/markdown"
)

// assemble maps raw fetch output into the canonical release notes record.
// The latest flag comes from the request selector, never from comparing the
// resolved tag against a separately fetched latest pointer.
func assemble(org, repo string, sel model.Selector, release *github.RepositoryRelease) *model.ReleaseNotes {
	title := release.GetName()
	if title == "" {
		title = release.GetTagName()
	}

	var author *model.AuthorInfo
	if a := release.GetAuthor(); a != nil {
		author = &model.AuthorInfo{
			Name:  a.GetLogin(),
			Image: a.GetAvatarURL(),
		}
	}

	return &model.ReleaseNotes{
		Repo:   repo,
		Org:    org,
		Title:  title,
		Latest: sel.IsLatest(),
		Author: author,
		Tag:    release.GetTagName(),
		Items:  markdown.Reduce(release.GetBody()),
		URL:    release.GetHTMLURL(),
	}
}
