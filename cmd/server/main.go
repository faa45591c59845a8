package main // Entry point package

import (
    "context"
    "log"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    glog "github.com/labstack/gommon/log"

    "github.com/iliyamo/cinema-seat-picker/internal/catalog"
    "github.com/iliyamo/cinema-seat-picker/internal/config"
    "github.com/iliyamo/cinema-seat-picker/internal/database"
    "github.com/iliyamo/cinema-seat-picker/internal/handler"
    "github.com/iliyamo/cinema-seat-picker/internal/middleware"
    "github.com/iliyamo/cinema-seat-picker/internal/page"
    "github.com/iliyamo/cinema-seat-picker/internal/queue"
    "github.com/iliyamo/cinema-seat-picker/internal/router"
    "github.com/iliyamo/cinema-seat-picker/internal/service"
    "github.com/iliyamo/cinema-seat-picker/internal/session"
    "github.com/iliyamo/cinema-seat-picker/internal/view"
)

func main() {
    _ = godotenv.Load() // .env is optional
    cfg := config.Load()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    src, closeSrc := catalogSource(ctx, cfg.Catalog)
    screening, err := catalog.Load(ctx, src)
    closeSrc()
    if err != nil {
        log.Fatalf("catalog: %v", err)
    }
    log.Printf("catalog: loaded %q with %d seats (source=%s)", screening.Title, len(screening.Seats), cfg.Catalog.Source)

    redisCfg := config.LoadRedisConfig()
    rdb := config.NewRedisClient(redisCfg)
    if rdb == nil {
        log.Printf("redis: unavailable at %s; rate limiting and caching disabled", redisCfg.Addr)
    } else {
        defer rdb.Close()
    }

    var store session.Store = session.NewMemoryStore()
    if cfg.SessionStore == "redis" && rdb != nil {
        store = session.NewRedisStore(rdb, redisCfg.Prefix, cfg.SessionTTL)
    }

    opts := page.Options{Store: store, TTL: cfg.SessionTTL}
    if cfg.AMQPURL != "" {
        opts.Publisher = service.NewAMQPPublisher(cfg.AMQPURL)
        if cfg.RunConsumer {
            go func() {
                if err := queue.StartPurchaseConsumer(ctx, cfg.AMQPURL, cfg.PurchaseLogs); err != nil && ctx.Err() == nil {
                    log.Printf("purchase-consumer: stopped: %v", err)
                }
            }()
        }
    }
    pages := page.NewManager(screening, opts)
    go pages.RunSweeper(ctx, cfg.SweepEvery)

    e := echo.New()
    e.HideBanner = true
    e.Logger.SetLevel(logLevel(cfg.LogLevel))
    e.Renderer = view.NewRenderer()
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    h := handler.NewPageHandler(pages, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
    limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    router.RegisterRoutes(e)
    router.RegisterPage(e, h, cache, limit)
    router.RegisterSession(e, h, limit)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s, store=%T)", addr, cfg.Env, store)
    go func() {
        if err := e.Start(addr); err != nil && ctx.Err() == nil {
            log.Fatal(err)
        }
    }()

    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}

// catalogSource opens the configured source and a func releasing its
// connections.  Connection failures are fatal.
func catalogSource(ctx context.Context, c config.CatalogConfig) (catalog.Source, func()) {
    switch c.Source {
    case "mysql":
        db, err := database.OpenMySQL(c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
        if err != nil {
            log.Fatalf("mysql: %v", err)
        }
        return catalog.NewMySQLSource(db, c.ScreeningID), func() { _ = db.Close() }
    case "postgres":
        pool, err := database.OpenPostgres(ctx, c.DatabaseURL)
        if err != nil {
            log.Fatalf("postgres: %v", err)
        }
        return catalog.NewPostgresSource(pool, int64(c.ScreeningID)), pool.Close
    default:
        return catalog.FileSource{Path: c.Path}, func() {}
    }
}

func logLevel(s string) glog.Lvl {
    switch strings.ToUpper(s) {
    case "DEBUG":
        return glog.DEBUG
    case "WARN":
        return glog.WARN
    case "ERROR":
        return glog.ERROR
    case "OFF":
        return glog.OFF
    default:
        return glog.INFO
    }
}
