package di

import (
	"context"
	"fmt"

	"FinDash/internal/domain/models"
	"FinDash/internal/domain/repository"
	"FinDash/internal/handler/api"
	internalrepo "FinDash/internal/repository"
	"FinDash/internal/scheduler"
	"FinDash/internal/service/coingecko"
	"FinDash/internal/service/fred"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/service/yahoo"
	"FinDash/internal/usecase"
	"FinDash/pkg/cache"
	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	pkgkafka "FinDash/pkg/kafka"
	applogger "FinDash/pkg/logger"
	"FinDash/pkg/metrics"
	"FinDash/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// fredPerMinute is FRED's published per-key quota.
	fredPerMinute = 120
	// yahooPerMinute leaves room for every index on each warm run.
	yahooPerMinute = 100
)

// ProvideKafkaProducer creates the error-log sink; nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(1),
		pkgkafka.WithAsync(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the service logger and attaches the Kafka collector
// when a producer exists.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:   cfg.Logger.Level,
		Format:  cfg.Logger.Format,
		Output:  cfg.Logger.Output,
		Service: "findash",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Kafka.FlushInterval,
			CountThreshold: cfg.Kafka.CountThreshold,
			Topic:          cfg.Kafka.Topic,
			Publisher:      producer,
			IncludeWarn:    cfg.Kafka.IncludeWarn,
		})
	}
	return l, nil
}

// ProvideMetrics registers domain metrics on the default registry, which
// also carries the Kafka producer series.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache creates the feed cache: memory only, or a memory layer over Redis.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Driver != "redis" {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize)), nil
}

// ProvideCatalog loads calendar.catalog_file, or the built-in table.
func ProvideCatalog(cfg *config.Config) (repository.EventCatalog, error) {
	if cfg.Calendar.CatalogFile == "" {
		return internalrepo.DefaultCatalog(), nil
	}
	return internalrepo.LoadCatalogFile(cfg.Calendar.CatalogFile)
}

// ProvideUpstreamClient is the HTTP client shared by the JSON APIs.
func ProvideUpstreamClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Upstream.Timeout),
		xhttp.WithUserAgent(cfg.Upstream.UserAgent),
	)
}

// ProvideHistoryLookup fronts the static history with FRED when enabled.
func ProvideHistoryLookup(cfg *config.Config, client *xhttp.Client, m repository.Metrics, l *applogger.Logger) *usecase.HistoryLookup {
	var primary repository.HistorySource
	if cfg.Upstream.FRED.Enabled {
		fc := fred.New(cfg.Upstream.FRED.APIKey,
			fred.WithBaseURL(cfg.Upstream.FRED.BaseURL),
			fred.WithHTTPClient(client),
			fred.WithLimiter(ratelimit.PerMinute(fredPerMinute)),
		)
		fc.SetLogger(l)
		primary = fc
	}
	h := usecase.NewHistoryLookup(primary, internalrepo.DefaultHistory(), m)
	h.SetLogger(l)
	return h
}

// ProvideEventGenerator applies the calendar zone and offsets.
func ProvideEventGenerator(cfg *config.Config, catalog repository.EventCatalog) (*usecase.EventGenerator, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}
	return usecase.NewEventGenerator(catalog,
		usecase.WithLocation(loc),
		usecase.WithOffsets(*cfg.Calendar.SourceOffsetHours, *cfg.Calendar.TargetOffsetHours),
	), nil
}

func ProvideCalendarUseCase(cfg *config.Config, gen *usecase.EventGenerator, hist *usecase.HistoryLookup, m repository.Metrics, l *applogger.Logger) *usecase.CalendarUseCase {
	uc := usecase.NewCalendarUseCase(gen, hist, m,
		usecase.WithOrdering(usecase.Ordering(cfg.Calendar.Ordering)),
		usecase.WithTier(models.Importance(cfg.Calendar.Tier)),
	)
	uc.SetLogger(l)
	return uc
}

func ProvideCoinGecko(cfg *config.Config, client *xhttp.Client) *coingecko.Client {
	return coingecko.New(
		coingecko.WithBaseURL(cfg.Upstream.CoinGecko.BaseURL),
		coingecko.WithHTTPClient(client),
		coingecko.WithLimiter(ratelimit.PerMinute(cfg.Upstream.CoinGecko.RatePerMinute)),
	)
}

// ProvideYahoo uses its own client: Yahoo needs a browser User-Agent.
func ProvideYahoo(cfg *config.Config) *yahoo.Client {
	return yahoo.New(
		yahoo.WithBaseURL(cfg.Upstream.Yahoo.BaseURL),
		yahoo.WithHTTPClient(xhttp.NewClient(
			xhttp.WithTimeout(cfg.Upstream.Timeout),
			xhttp.WithUserAgent(yahoo.BrowserAgent),
		)),
		yahoo.WithRequestTimeout(cfg.Upstream.Timeout),
		yahoo.WithLimiter(ratelimit.PerMinute(yahooPerMinute)),
	)
}

func ProvideMarketUseCase(cfg *config.Config, cg *coingecko.Client, yc *yahoo.Client, c cache.Service, m repository.Metrics, l *applogger.Logger) *usecase.MarketUseCase {
	symbols := make([]models.IndexSymbol, 0, len(cfg.Upstream.Yahoo.Indexes))
	for _, s := range cfg.Upstream.Yahoo.Indexes {
		symbols = append(symbols, models.IndexSymbol{Symbol: s.Symbol, Name: s.Name, Country: s.Country})
	}
	uc := usecase.NewMarketUseCase(cg, cg, yc, symbols,
		usecase.WithMarketCache(c, usecase.MarketTTL{
			Crypto:  cfg.Cache.TTL.Crypto,
			News:    cfg.Cache.TTL.News,
			Indexes: cfg.Cache.TTL.Indexes,
		}),
		usecase.WithMarketMetrics(m),
	)
	uc.SetLogger(l)
	return uc
}

// ProvideClientLimiter throttles market endpoints per client IP; nil when disabled.
func ProvideClientLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.RateLimit.Disabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst,
		ratelimit.WithIdleTTL(cfg.RateLimit.IdleTTL))
}

// ProvideScheduler schedules cache warming and limiter sweeps.
func ProvideScheduler(cfg *config.Config, market *usecase.MarketUseCase, c cache.Service, limiter *ratelimit.Limiter, l *applogger.Logger) (*scheduler.Warmer, error) {
	w := scheduler.New(market, c,
		scheduler.WithLockTTL(cfg.Scheduler.LockTTL),
		scheduler.WithLogger(l),
	)
	if !cfg.Scheduler.Disabled {
		if err := w.Schedule(cfg.Scheduler.WarmSpec); err != nil {
			return nil, err
		}
	}
	if limiter != nil {
		err := w.AddFunc("@every 1m", func(context.Context) {
			if n := limiter.Sweep(); n > 0 {
				l.Debug("ratelimit swept", applogger.Int("keys", n))
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// ProvideHTTPServer registers every route on the Echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	calendar *usecase.CalendarUseCase,
	market *usecase.MarketUseCase,
	limiter *ratelimit.Limiter,
	c cache.Service,
) *xhttp.Server {
	deps := map[string]api.Pinger{}
	if p, ok := c.(api.Pinger); ok {
		deps["cache"] = p
	}
	handlers := []xhttp.Handler{
		api.NewHealthEchoHandler(deps),
		api.NewCalendarEchoHandler(l, calendar),
		api.NewMarketEchoHandler(l, market, limiter),
	}

	metricsPath := cfg.Metrics.Path
	if cfg.Metrics.Disabled {
		metricsPath = ""
	}
	return xhttp.NewServer(handlers,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(metricsPath, prometheus.DefaultRegisterer, prometheus.DefaultGatherer),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	warmer *scheduler.Warmer,
	c cache.Service,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, srv, warmer, c, producer)
}
