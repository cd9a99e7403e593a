package cmd

import (
	"fmt"
	"strings"

	"github.com/hyvern/overseer/pkg/persistence"
	"github.com/hyvern/overseer/pkg/persistence/file"
	"github.com/hyvern/overseer/pkg/persistence/redis"
)

// NewPersistence creates a persistence backend from a database URL. Redis
// URLs get the Redis store; anything else is treated as a file root.
func NewPersistence(databaseURL string) persistence.Persistence {
	if strings.HasPrefix(databaseURL, "redis://") || strings.HasPrefix(databaseURL, "rediss://") {
		p, err := redis.NewPersistence(databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to connect to redis: %w", err))
		}

		return p
	}

	return file.NewPersistence(databaseURL)
}
