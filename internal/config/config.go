package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// defaultSeed gives a fresh deployment a catalogue to add from.
const defaultSeed = "apple:1.20,banana:0.45,bread:2.10,milk:0.99,coffee:4.50"

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendKafka    = "kafka"
)

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
	Migrate  bool
}

type Kafka struct {
	Brokers     []string
	Topic       string
	Group       string
	Partitions  int
	Replication int
}

type Queue struct {
	Backend     string
	Workers     int
	MaxRetries  int
	WaitTimeout time.Duration
	// ResultsChannel is the Redis channel carrying job results between
	// replicas that share one Kafka consumer group.
	ResultsChannel string
}

type Rates struct {
	BaseURL      string
	BaseCurrency string
	Timeout      time.Duration
	CacheCap     int
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

// Retry is the backoff between job attempts. Attempts excludes the first try
// and is filled from Queue.MaxRetries.
type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type SeedItem struct {
	Name  string
	Price decimal.Decimal
}

type Config struct {
	HTTPAddr        string
	Env             string
	LogLevel        string
	StoreBackend    string
	DefaultCurrency string
	Seed            []SeedItem

	Pg      Postgres
	Kafka   Kafka
	Queue   Queue
	Retry   Retry
	Rates   Rates
	Redis   Redis
	Breaker Breaker
}

// Load keeps the original API and fatals on error for simplicity in main().
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		HTTPAddr:        envDefault("HTTP_ADDR", ":8081"),
		Env:             envDefault("APP_ENV", "development"),
		LogLevel:        envDefault("LOG_LEVEL", "info"),
		StoreBackend:    strings.ToLower(envDefault("STORE_BACKEND", BackendMemory)),
		DefaultCurrency: strings.ToUpper(envDefault("DEFAULT_CURRENCY", "EUR")),
		Seed:            parseSeed(envDefault("MARKET_SEED", defaultSeed)),

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     strings.TrimSpace(envDefault("PG_PORT", "5432")),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  strings.TrimSpace(envDefault("PG_SSLMODE", "disable")),
			Migrate:  envBool("PG_MIGRATE", true),
		},

		Kafka: Kafka{
			Brokers:     splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:       envDefault("KAFKA_TOPIC", "cart-jobs"),
			Group:       envDefault("KAFKA_GROUP", "cart-workers"),
			Partitions:  envInt("KAFKA_PARTITIONS", 3),
			Replication: envInt("KAFKA_REPLICATION", 1),
		},

		Queue: Queue{
			Backend:        strings.ToLower(envDefault("QUEUE_BACKEND", BackendMemory)),
			Workers:        envInt("QUEUE_WORKERS", 4),
			MaxRetries:     envInt("QUEUE_MAX_RETRIES", 2),
			WaitTimeout:    envDurationMS("QUEUE_WAIT_TIMEOUT", 30*time.Second),
			ResultsChannel: envDefault("QUEUE_RESULTS_CHANNEL", "cart-job-results"),
		},

		Retry: Retry{
			Base:         envDurationMS("RETRY_BASE", 0),
			Max:          envDurationMS("RETRY_MAX", time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0),
		},

		Rates: Rates{
			BaseURL:      envDefault("RATES_BASE_URL", "https://api.frankfurter.app"),
			BaseCurrency: strings.ToUpper(envDefault("RATES_BASE_CURRENCY", "EUR")),
			Timeout:      envDurationMS("RATES_TIMEOUT", 5*time.Second),
			CacheCap:     envInt("RATES_CACHE_CAP", 256),
		},

		Redis: Redis{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},

		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 1),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := map[string]string{}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		req["PG_HOST"] = c.Pg.Host
		req["PG_DB"] = c.Pg.DB
		req["PG_USER"] = c.Pg.User
		req["PG_PASSWORD"] = c.Pg.Password
	default:
		return &invalidEnvError{Key: "STORE_BACKEND", Value: c.StoreBackend}
	}

	switch c.Queue.Backend {
	case BackendMemory:
	case BackendKafka:
		req["KAFKA_BROKERS"] = strings.Join(c.Kafka.Brokers, ",")
		req["KAFKA_TOPIC"] = c.Kafka.Topic
		req["KAFKA_GROUP"] = c.Kafka.Group
	default:
		return &invalidEnvError{Key: "QUEUE_BACKEND", Value: c.Queue.Backend}
	}

	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}

	if c.Queue.Workers <= 0 {
		log.Printf("QUEUE_WORKERS is %d, adjusting to 1", c.Queue.Workers)
	}
	if c.Queue.MaxRetries < 0 {
		log.Printf("QUEUE_MAX_RETRIES is %d, adjusting to 0", c.Queue.MaxRetries)
	}
	if c.Rates.CacheCap <= 0 {
		log.Printf("RATES_CACHE_CAP is %d, adjusting to 1", c.Rates.CacheCap)
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), adjusting max to base", c.Retry.Max, c.Retry.Base)
	}
	return nil
}

func (c *Config) normalize() {
	if c.Queue.Workers <= 0 {
		c.Queue.Workers = 1
	}
	if c.Queue.MaxRetries < 0 {
		c.Queue.MaxRetries = 0
	}
	if c.Rates.CacheCap <= 0 {
		c.Rates.CacheCap = 1
	}
	if c.Retry.Max < c.Retry.Base {
		c.Retry.Max = c.Retry.Base
	}
	c.Retry.Attempts = c.Queue.MaxRetries
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

type invalidEnvError struct{ Key, Value string }

func (e *invalidEnvError) Error() string {
	return "invalid " + e.Key + "=" + strconv.Quote(e.Value)
}

// DSN builds a proper Postgres URL, safely escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// parseSeed reads "name:price,name:price". Malformed pairs are skipped.
func parseSeed(s string) []SeedItem {
	var out []SeedItem
	for _, pair := range splitCSV(s) {
		name, price, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			log.Printf("invalid MARKET_SEED entry %q, skipping", pair)
			continue
		}
		p, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil || p.IsNegative() {
			log.Printf("invalid MARKET_SEED price %q for %s, skipping", price, name)
			continue
		}
		out = append(out, SeedItem{Name: name, Price: p})
	}
	return out
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %t: %v", k, v, def, err)
		return def
	}
	return b
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
