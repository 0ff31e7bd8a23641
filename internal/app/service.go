package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"sync"
	"time"

	"booth-service/internal/auth"
	"booth-service/internal/config"
	bhttp "booth-service/internal/http"
	"booth-service/internal/infra/cache"
	"booth-service/internal/notify"
	"booth-service/internal/repository/postgres"
	"booth-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	jwtExpiry            = 24 * time.Hour
	cacheCleanupInterval = 5 * time.Minute
	mailVerifyTimeout    = 15 * time.Second
	serverAddrPrefix     = ":"

	errFailedCloseRedisFmt = "failed to close redis: %w"
)

// Service is the running booth service: the HTTP server plus the backends it
// owns.
type Service struct {
	config      *config.Config
	server      *bhttp.Server
	jwt         *auth.JWTService
	db          *postgres.DB
	redis       *redis.Client
	memoryCache *cache.MemoryURLCache
	mail        *notify.EmailNotifier

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// Start runs the cache cleanup loop and blocks serving HTTP until Shutdown.
func (s *Service) Start() error {
	if s.memoryCache != nil {
		go s.startCacheCleanup(s.stopCleanup)
	}
	if s.mail != nil {
		go s.verifyMail()
	}

	addr := serverAddrPrefix + s.config.Server.Port
	logger.Info("starting booth service", "addr", addr)
	if err := s.server.Start(addr); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// startCacheCleanup drops expired presigned URLs from the in-process cache.
func (s *Service) startCacheCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.memoryCache.Clear()
		case <-stop:
			return
		}
	}
}

// verifyMail logs providers whose credentials are rejected. Sending still
// goes through the configured strategy either way.
func (s *Service) verifyMail() {
	ctx, cancel := context.WithTimeout(context.Background(), mailVerifyTimeout)
	defer cancel()

	log := logger.WithComponent("mail")
	for name, ok := range s.mail.Verify(ctx) {
		if ok {
			log.Info("mail provider verified", "provider", name)
		} else {
			log.Warn("mail provider not verified", "provider", name)
		}
	}
}

// Shutdown stops the server, then closes the database and redis.
func (s *Service) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCleanup) })

	var errs []error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Handler exposes the router without binding a port.
func (s *Service) Handler() stdhttp.Handler {
	return s.server.Handler()
}

func (s *Service) close() error {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	if s.redis != nil {
		err := s.redis.Close()
		s.redis = nil
		if err != nil {
			return fmt.Errorf(errFailedCloseRedisFmt, err)
		}
	}
	return nil
}

func (s *Service) healthCheck(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			return err
		}
	}
	if s.redis != nil {
		return s.redis.Ping(ctx).Err()
	}
	return nil
}
