package components

import (
	"errors"
	"log/slog"

	"booking-engine/internal/infra/cache"
	"booking-engine/internal/infra/memstore"
	"booking-engine/internal/infra/readstore"
	"booking-engine/internal/infra/uow"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var errNoPool = errors.New("postgres store selected but no database pool is available")

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
		func(s Stores) shared.UnitOfWork { return s.UnitOfWork },
		func(s Stores) shared.CalendarReads { return s.Calendar },
		func(s Stores) shared.ReferenceReads { return s.Reference },
	),
)

type Stores struct {
	UnitOfWork shared.UnitOfWork
	Calendar   shared.CalendarReads
	Reference  shared.ReferenceReads
}

type storesIn struct {
	fx.In

	Config config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool         `optional:"true"`
	Redis  redis.UniversalClient `optional:"true"`
}

func NewStores(in storesIn) (Stores, error) {
	var stores Stores

	switch in.Config.Store.Driver {
	case config.StoreDriverMemory:
		store := memstore.New()
		stores = Stores{UnitOfWork: store, Calendar: store, Reference: store}
		in.Logger.Info("using in-memory calendar store")
	default:
		if in.Pool == nil {
			return Stores{}, errNoPool
		}
		stores = Stores{
			UnitOfWork: uow.NewPostgresUoW(in.Pool, in.Config),
			Calendar:   readstore.NewCalendarReadStore(in.Pool),
			Reference:  readstore.NewReferenceReadStore(in.Pool),
		}
	}

	if in.Redis != nil {
		stores.Reference = cache.NewReferenceCache(stores.Reference, in.Redis, in.Config.Redis.CacheTTL, in.Logger)
	}

	return stores, nil
}
