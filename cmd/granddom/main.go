// Command granddom serves the GrandDom marketing site.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/granddom/site/internal/config"
	"github.com/granddom/site/internal/server"
	"github.com/granddom/site/internal/web"
	"github.com/granddom/site/locales"
	"github.com/granddom/site/pkg/cache"
	"github.com/granddom/site/pkg/contact"
	"github.com/granddom/site/pkg/locale"
	"github.com/granddom/site/pkg/logger"
	"github.com/granddom/site/pkg/messages"
	"github.com/granddom/site/pkg/redis"
	"github.com/granddom/site/pkg/seo"
)

const (
	startupTimeout = 30 * time.Second
	sentryFlush    = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, server.RequestIDExtractor(), web.LocaleExtractor())
	defer sentry.Flush(sentryFlush)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		sentry.Flush(sentryFlush)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	registry, err := locale.NewRegistry(cfg.DefaultLocale, locale.Polish, locale.Ukrainian, locale.English)
	if err != nil {
		return err
	}

	src, err := messageSource(cfg)
	if err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	storeOpts := []messages.StoreOption{
		messages.WithDefaultLocale(registry.DefaultLocale()),
		messages.WithLocales(registry.Locales()...),
		messages.WithLogger(log),
	}
	webOpts := []web.Option{
		web.WithLogger(log),
		web.WithSubmitter(contact.NewLogSubmitter(log)),
	}
	serverOpts := []server.Option{
		server.WithAddress(cfg.Address),
		server.WithLogger(log),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithRequestTimeout(cfg.RequestTimeout),
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Open(startCtx, cfg.Redis)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, messages.WithCache(documentCache(client, cfg)))
		webOpts = append(webOpts, web.WithCheck("redis", redis.Healthcheck(client)))
		serverOpts = append(serverOpts, server.WithShutdownHook(func(context.Context) error {
			return client.Close()
		}))
		log.Info("message cache uses redis",
			slog.String("prefix", cfg.CacheKeyPrefix()),
			slog.Duration("ttl", cfg.CacheTTL),
		)
	}

	store := messages.NewStore(src, storeOpts...)
	if err := store.Preload(startCtx, web.NamespaceCommon, web.NamespaceContact); err != nil {
		log.Warn("some message documents failed to preload", slog.String("error", err.Error()))
	}
	webOpts = append(webOpts, web.WithCheck("messages", store.Healthcheck(web.NamespaceCommon)))

	gen := seo.NewGenerator(store, registry, seo.WithBaseURL(cfg.BaseURL))
	site := web.New(store, registry, gen, webOpts...)

	serverOpts = append(serverOpts,
		server.WithErrorHandler(site.HandleError),
		server.WithHandlers(site),
	)

	log.Info("starting server",
		slog.String("address", cfg.Address),
		slog.String("base_url", cfg.BaseURL),
		slog.Any("locales", registry.Locales()),
	)
	return server.New(serverOpts...).Run(ctx)
}

// documentCache keeps decoded documents in process memory in front of
// Redis. Redis keys are scoped to the cache generation and expire after
// CACHE_TTL.
func documentCache(client goredis.UniversalClient, cfg config.Config) cache.Cache[*messages.Document] {
	local := cache.NewMemory[*messages.Document](
		cache.WithDefaultTTL(-1),
		cache.WithCleanupInterval(0),
	)
	shared := cache.NewRedis(client,
		cache.JSONMarshaler[*messages.Document]{},
		cache.WithPrefix(cfg.CacheKeyPrefix()),
		cache.WithRedisMaxTTL(cfg.CacheTTL),
	)
	return cache.NewTiered[*messages.Document](local, shared)
}

func messageSource(cfg config.Config) (messages.Source, error) {
	switch {
	case cfg.MessagesFromS3():
		return messages.NewS3Source(cfg.S3)
	case cfg.MessagesDir != "":
		return messages.NewFSSource(os.DirFS(cfg.MessagesDir)), nil
	default:
		return messages.NewFSSource(locales.FS), nil
	}
}
