package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env           string        // application environment (e.g. "dev", "prod")
    Port          string        // HTTP port to listen on
    LogLevel      string        // echo logger level: DEBUG, INFO, WARN, ERROR, OFF
    SessionSecret string        // secret used to sign session tokens
    SessionTTL    time.Duration // idle lifetime of a mounted page
    SweepEvery    time.Duration // how often expired pages are released
    SessionStore  string        // "redis" or "memory"
    CookieSecure  bool          // mark the session cookie Secure
    AMQPURL       string        // RabbitMQ URL; empty disables purchase events
    RunConsumer   bool          // also run the purchase.confirmed consumer in-process
    PurchaseLogs  string        // directory the consumer appends purchase.log to
    Catalog       CatalogConfig
}

// CatalogConfig selects where the screening record comes from.
type CatalogConfig struct {
    Source      string // "file", "mysql" or "postgres"
    Path        string // JSON file for Source=file
    ScreeningID uint64 // row id for database sources
    DBUser      string
    DBPass      string
    DBHost      string
    DBPort      string
    DBName      string
    DatabaseURL string // pgx DSN for Source=postgres
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    cfg := Config{
        Env:           must("APP_ENV"),
        Port:          must("APP_PORT"),
        LogLevel:      envStr("LOG_LEVEL", "INFO"),
        SessionSecret: must("SESSION_SECRET"),
        SessionTTL:    time.Duration(mustIntDefault("SESSION_TTL_MIN", 30)) * time.Minute,
        SweepEvery:    envDur("SESSION_SWEEP_EVERY", time.Minute),
        SessionStore:  envStr("SESSION_STORE", "redis"),
        CookieSecure:  envBool("COOKIE_SECURE", false),
        AMQPURL:       amqpURL(),
        RunConsumer:   envBool("PURCHASE_CONSUMER", false),
        PurchaseLogs:  envStr("PURCHASE_LOG_DIR", "logs"),
        Catalog:       LoadCatalogConfig(),
    }
    if cfg.SessionTTL <= 0 {
        log.Fatalf("SESSION_TTL_MIN must be positive")
    }
    return cfg
}

// LoadCatalogConfig reads the CATALOG_* and DB_* variables.  Database
// credentials are only required when the matching source is selected.
func LoadCatalogConfig() CatalogConfig {
    c := CatalogConfig{
        Source:      envStr("CATALOG_SOURCE", "file"),
        Path:        envStr("CATALOG_PATH", "data/filme.json"),
        ScreeningID: uint64(envInt("CATALOG_SCREENING_ID", 1)),
    }
    switch c.Source {
    case "file":
    case "mysql":
        c.DBUser = must("DB_USER")
        c.DBPass = os.Getenv("DB_PASS") // empty allowed
        c.DBHost = must("DB_HOST")
        c.DBPort = must("DB_PORT")
        c.DBName = must("DB_NAME")
    case "postgres":
        c.DatabaseURL = must("DATABASE_URL")
    default:
        log.Fatalf("unknown CATALOG_SOURCE: %q", c.Source)
    }
    return c
}

// amqpURL honours RABBITMQ_URL, then AMQP_URL.  Empty means disabled.
func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustIntDefault returns def when key is unset and exits when it is set to
// something that is not an integer.
func mustIntDefault(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
