package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"solstice_leads/internal/adapter/http/handlers"
	"solstice_leads/internal/adapter/http/routes"
	"solstice_leads/internal/adapter/persistence/gormstore"
	"solstice_leads/internal/adapter/persistence/repository"
	"solstice_leads/internal/config"
	"solstice_leads/internal/infrastructure/cache"
	"solstice_leads/internal/infrastructure/database"
	"solstice_leads/internal/infrastructure/logger"
	"solstice_leads/internal/infrastructure/notification"
	"solstice_leads/internal/usecase"
	"solstice_leads/internal/usecase/interfaces"
)

// @title           SolsTice Leads API
// @version         1.0
// @description     Contact and bulk order inquiry intake with the lead admin API.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Service)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Fatal("Failed to startup the application", zap.Error(err))
	}
}

// stores is the persistence side selected by store.driver.
type stores struct {
	contacts  interfaces.IContactRepository
	inquiries interfaces.IInquiryRepository
	users     interfaces.IUserDirectory
	catalog   interfaces.ICatalogReader
	pinger    handlers.Pinger
	close     func() error
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	st, err := openStores(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			zlog.Warn("closing store", zap.Error(err))
		}
	}()

	pingers := map[string]handlers.Pinger{"store": st.pinger}
	opts := []usecase.Option{
		usecase.WithPaging(cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize),
	}

	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			// Stats are still served uncached.
			zlog.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close()
			opts = append(opts, usecase.WithCache(cache.NewRedisStore(client), cfg.Cache.TTL))
			pingers["cache"] = redisPinger{client}
		}
	}

	dispatcher := usecase.NewNotificationDispatcher(
		notification.New(cfg.Notify, zlog),
		cfg.Notify.Timeout,
		zlog.Named("notifications"),
	)

	// with copies opts so each usecase gets its own option list.
	with := func(extra ...usecase.Option) []usecase.Option {
		return append(append([]usecase.Option{}, opts...), extra...)
	}
	deps := routes.Dependencies{
		Config: cfg,
		Log:    zlog,
		Contacts: usecase.NewContactUseCase(st.contacts, with(
			usecase.WithUserDirectory(st.users),
			usecase.WithNotifications(dispatcher),
			usecase.WithLogger(zlog.Named("contacts")),
		)...),
		Inquiries: usecase.NewInquiryUseCase(st.inquiries, with(
			usecase.WithUserDirectory(st.users),
			usecase.WithNotifications(dispatcher),
			usecase.WithLogger(zlog.Named("inquiries")),
		)...),
		Dashboard:  usecase.NewDashboardUseCase(st.contacts, st.inquiries, st.catalog, with(usecase.WithLogger(zlog.Named("dashboard")))...),
		Pingers:    pingers,
		Dispatcher: dispatcher,
	}
	return routes.Run(ctx, deps)
}

func openStores(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.OpenSQL(cfg.Store.Driver, cfg.Database.DSN, cfg.Database.SQLitePath, zlog)
		if err != nil {
			return stores{}, err
		}
		if err := gormstore.Migrate(db); err != nil {
			_ = database.CloseSQL(db)
			return stores{}, fmt.Errorf("migrate: %w", err)
		}
		return stores{
			contacts:  gormstore.NewContactRepository(db),
			inquiries: gormstore.NewInquiryRepository(db),
			users:     gormstore.NewUserDirectory(db),
			catalog:   gormstore.NewCatalogReader(db),
			pinger:    database.NewSQLPinger(db),
			close:     func() error { return database.CloseSQL(db) },
		}, nil

	default:
		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return stores{}, err
		}
		t := cfg.DynamoDB.Tables
		if cfg.DynamoDB.Endpoint != "" {
			// Local DynamoDB starts empty.
			if err := database.EnsureLeadTables(ctx, ddb, t.Contacts, t.Inquiries); err != nil {
				return stores{}, err
			}
		}
		return stores{
			contacts:  repository.NewContactDynamoRepository(ddb, t.Contacts),
			inquiries: repository.NewInquiryDynamoRepository(ddb, t.Inquiries),
			users:     repository.NewUserDirectoryDynamo(ddb, t.Users),
			catalog:   repository.NewCatalogDynamoReader(ddb, t.Products, t.BlogPosts),
			pinger:    database.NewDynamoPinger(ddb, t.Contacts),
			close:     func() error { return nil },
		}, nil
	}
}

type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
