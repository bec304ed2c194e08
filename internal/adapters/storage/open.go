// Package storage builds the durable KVStore selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/PabloGalante/weatherchat/internal/adapters/storage/file"
	firestorestore "github.com/PabloGalante/weatherchat/internal/adapters/storage/firestore"
	"github.com/PabloGalante/weatherchat/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/weatherchat/internal/adapters/storage/redis"
	"github.com/PabloGalante/weatherchat/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/weatherchat/internal/config"
	"github.com/PabloGalante/weatherchat/internal/domain"
	"github.com/PabloGalante/weatherchat/internal/observability"
)

func Open(ctx context.Context, cfg config.StorageConfig) (domain.KVStore, error) {
	log := observability.LoggerFromContext(ctx).With("backend", cfg.Backend)

	switch cfg.Backend {
	case "memory":
		log.Info("using in-memory storage")
		return memory.NewStore(), nil
	case "file":
		log.Info("using file storage", "path", cfg.Path)
		return file.NewStore(cfg.Path)
	case "sqlite":
		log.Info("using sqlite storage", "path", cfg.Path)
		return sqlite.NewStore(cfg.Path)
	case "redis":
		log.Info("using redis storage")
		return redisstore.NewStore(ctx, cfg.RedisURL, cfg.KeyPrefix)
	case "firestore":
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		return firestorestore.NewStore(ctx, cfg.GCPProjectID, cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
