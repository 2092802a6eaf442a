// Package app opens the backends chosen by configuration and assembles the
// services shared by the server and seed binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/storefront/internal/catalogfeed"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/repo/gormrepo"
	"github.com/Skotchmaster/storefront/internal/repo/mongorepo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

// Store is everything the services need from a storage backend.
type Store interface {
	service.UserRepo
	service.ProductRepo
	service.CartRepo
	Ping(ctx context.Context) error
}

type publisher interface {
	service.EventPublisher
	Close() error
}

type App struct {
	Store  Store
	Auth   *service.AuthService
	Cat    *service.CatalogService
	Cart   *service.CartService
	closer []func() error
}

// Open connects to the store, the event broker and the search cluster.
// Kafka and Elasticsearch are optional and fall back to no-ops when unset.
func Open(ctx context.Context, cfg config.Config, l *slog.Logger) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Store = store
	l.Info("store_connected", "driver", cfg.StoreDriver)

	var pub publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
		l.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}
	a.closer = append(a.closer, pub.Close)

	var index service.ProductIndex = search.Nop{}
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			// search is optional; the catalog keeps working without it
			l.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		} else {
			index = search.NewIndex(es, cfg.ESIndex)
		}
	}

	a.Auth = &service.AuthService{
		Users:  store,
		Tokens: tokens.NewService(cfg.JWTSecret, cfg.JWTTTL),
		Events: pub,
	}
	a.Cat = &service.CatalogService{
		Products: store,
		Feed:     catalogfeed.NewClient(cfg.CatalogFeedURL),
		Index:    index,
		Events:   pub,
	}
	a.Cart = &service.CartService{
		Carts:                store,
		Products:             store,
		Events:               pub,
		CheckCumulativeStock: cfg.CumulativeStockCheck,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		gdb, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closer = append(a.closer, func() error { return db.CloseGorm(gdb) })
		if err := db.Migrate(gdb); err != nil {
			return nil, errors.Join(fmt.Errorf("migrate: %w", err), a.Close())
		}
		return gormrepo.New(gdb), nil

	case config.StoreMongo:
		client, mdb, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.closer = append(a.closer, func() error { return client.Disconnect(context.Background()) })
		r := mongorepo.New(mdb)
		if err := r.EnsureIndexes(ctx); err != nil {
			return nil, errors.Join(fmt.Errorf("ensure indexes: %w", err), a.Close())
		}
		return r, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closer) - 1; i >= 0; i-- {
		if err := a.closer[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closer = nil
	return errors.Join(errs...)
}
