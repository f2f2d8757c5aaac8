package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/relnote/pkg/infra/cache"
)

// Cache holds release notes cache configuration
type Cache struct {
	Capacity int64
}

// Flags returns CLI flags for cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "cache-capacity",
			Usage:       "Maximum number of cached release notes records",
			Value:       cache.DefaultCapacity,
			Destination: &c.Capacity,
			Sources:     cli.EnvVars("RELNOTE_CACHE_CAPACITY"),
		},
	}
}
