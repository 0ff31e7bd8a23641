package app

import (
	"context"
	"fmt"

	"booth-service/internal/audit"
	"booth-service/internal/auth"
	"booth-service/internal/capture"
	"booth-service/internal/checkin"
	"booth-service/internal/config"
	"booth-service/internal/delivery"
	bhttp "booth-service/internal/http"
	"booth-service/internal/infra/cache"
	"booth-service/internal/notify"
	"booth-service/internal/repository"
	"booth-service/internal/repository/memory"
	"booth-service/internal/repository/postgres"
	"booth-service/internal/selection"
	"booth-service/internal/storage"
	memstorage "booth-service/internal/storage/memory"
	"booth-service/internal/storage/s3"
	"booth-service/internal/tenant"
	"booth-service/internal/usage"
	"booth-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	errFailedConnectDatabaseFmt = "failed to connect to database: %w"
	errFailedEnsureSchemaFmt    = "failed to ensure schema: %w"
	errFailedConnectRedisFmt    = "failed to connect to redis: %w"
	errFailedCreateStorageFmt   = "failed to create object store: %w"
	errFailedCreateMailerFmt    = "failed to configure mail: %w"
)

// New wires every dependency named by cfg. Backends that hold connections
// are closed by Shutdown, or immediately if wiring fails part way.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	s := &Service{config: cfg, stopCleanup: make(chan struct{})}
	if err := s.wire(ctx); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *Service) wire(ctx context.Context) error {
	cfg := s.config
	log := logger.WithComponent("app")

	docs, err := s.documentStore(ctx)
	if err != nil {
		return err
	}
	urlCache, err := s.urlCache(ctx)
	if err != nil {
		return err
	}
	objects, err := s.objectStore(urlCache)
	if err != nil {
		return err
	}

	mail, err := notify.FromConfig(cfg.Mail)
	if err != nil {
		return fmt.Errorf(errFailedCreateMailerFmt, err)
	}
	var (
		deliveryNotifier  delivery.Notifier
		selectionNotifier selection.Notifier
	)
	if mail != nil {
		s.mail = mail
		deliveryNotifier = mail
		selectionNotifier = mail
	} else {
		log.Warn("no mail provider configured, links will not be emailed")
	}

	var processor capture.Processor
	if cfg.AI.Endpoint != "" {
		processor = capture.NewHTTPProcessor(cfg.AI.Endpoint, cfg.AI.APIKey)
	}

	events := tenant.NewEventStore(docs, objects, cfg.Storage.GlobalPrefix, cfg.App.EventRetention)
	resolver := tenant.NewResolver(events)
	ledger := usage.NewLedger(events)

	productionStore := delivery.NewStore(docs, objects, cfg.Storage.GlobalPrefix, cfg.Storage.CacheControl)
	deliveries := delivery.NewService(productionStore, deliveryNotifier, cfg.App.PublicBaseURL, cfg.App.DeliveryTTL)

	photos := capture.NewService(events, ledger, docs, objects, processor,
		cfg.Storage.GlobalPrefix, cfg.Storage.CacheControl, cfg.Storage.PresignExpiry)

	selections := selection.NewService(selection.NewStore(docs), resolver, photos, deliveries, objects, selectionNotifier, selection.Config{
		PublicBaseURL: cfg.App.PublicBaseURL,
		TTL:           cfg.App.SelectionTTL,
		DefaultLimit:  cfg.App.DefaultSelectLimit,
		PresignTTL:    cfg.Storage.PresignExpiry,
	})

	s.jwt = auth.NewJWTService(cfg.JWT.Secret, jwtExpiry)
	s.server = bhttp.NewServer(&bhttp.ServerDependencies{
		Config:         cfg,
		AuthMiddleware: auth.NewMiddleware(s.jwt, cfg.Admin.APIKey, cfg.Admin.WebhookSecret),
		Resolver:       resolver,
		Events:         events,
		Photos:         photos,
		Deliveries:     deliveries,
		Production:     productionStore,
		Selections:     selections,
		Checkins:       checkin.NewStore(docs),
		Notifications:  checkin.NewNotificationStore(docs),
		Audit:          audit.NewLogger(docs),
		HealthCheck:    s.healthCheck,
	})
	return nil
}

func (s *Service) documentStore(ctx context.Context) (repository.DocumentStore, error) {
	if s.config.Database.Backend == config.BackendMemory {
		return memory.NewDocumentStore(), nil
	}

	db, err := postgres.New(&s.config.Database)
	if err != nil {
		return nil, fmt.Errorf(errFailedConnectDatabaseFmt, err)
	}
	s.db = db
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf(errFailedEnsureSchemaFmt, err)
	}
	return postgres.NewDocumentRepository(db), nil
}

func (s *Service) urlCache(ctx context.Context) (cache.URLCache, error) {
	if s.config.Cache.Backend != config.BackendRedis {
		s.memoryCache = cache.NewMemoryURLCache()
		return s.memoryCache, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.config.Cache.Addr,
		Password: s.config.Cache.Password,
		DB:       s.config.Cache.DB,
	})
	s.redis = client
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf(errFailedConnectRedisFmt, err)
	}
	return cache.NewRedisURLCache(client), nil
}

func (s *Service) objectStore(urlCache cache.URLCache) (storage.ObjectStore, error) {
	if s.config.Storage.Backend == config.BackendMemory {
		return memstorage.New(s.config.App.PublicBaseURL), nil
	}

	client, err := s3.NewClient(&s.config.Storage, urlCache)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateStorageFmt, err)
	}
	return client, nil
}
