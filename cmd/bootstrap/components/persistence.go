package components

import (
	"vehicle-rental/internal/infra"
	"vehicle-rental/internal/infra/cache"
	"vehicle-rental/internal/infra/repository"
	"vehicle-rental/internal/infra/uow"
	"vehicle-rental/internal/pkg/config"
	"vehicle-rental/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		func(u shared.UnitOfWork) shared.CommandReads {
			return u.Reads()
		},
		fx.Annotate(
			NewCachedCatalog,
			fx.As(new(shared.CatalogProvider)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) infra.DBTX {
	return pool
}

// NewCachedCatalog wraps the table-backed catalog in the Redis read-through
// layer; when Redis is unavailable the cache falls through to Postgres.
func NewCachedCatalog(db infra.DBTX, client *redis.Client, cfg config.Config) *cache.CatalogCache {
	source := repository.NewCatalogRepository(db)
	return cache.NewCatalogCache(source, client, cfg.Redis.CatalogTTL)
}
