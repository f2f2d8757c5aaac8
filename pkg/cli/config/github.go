package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/relnote/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/relnote/pkg/infra/github"
)

// GitHub holds GitHub API credential configuration. Either a personal
// access token or a GitHub App credential set must be provided.
type GitHub struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELNOTE_GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELNOTE_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("RELNOTE_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "Path to GitHub App private key file",
			Destination: &c.PrivateKeyPath,
			Sources:     cli.EnvVars("RELNOTE_GITHUB_PRIVATE_KEY"),
		},
	}
}

// Configure builds the release client from the configured credential
func (c *GitHub) Configure() (interfaces.ReleaseClient, error) {
	if c.AppID != 0 {
		if c.InstallationID == 0 || c.PrivateKeyPath == "" {
			return nil, goerr.New("GitHub App auth requires installation ID and private key")
		}

		privateKey, err := os.ReadFile(c.PrivateKeyPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyPath))
		}

		return githubinfra.NewAppClient(c.AppID, c.InstallationID, privateKey)
	}

	if c.Token == "" {
		return nil, goerr.New("GitHub credentials required: set a token or App credentials")
	}

	return githubinfra.NewClient(c.Token), nil
}
