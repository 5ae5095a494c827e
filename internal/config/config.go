// Package config loads the pinned navigation service configuration.
package config

import (
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/config"
	infraes "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/elasticsearch"
	infraredis "github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/redis"
)

// Default configuration values.
const (
	defaultServiceName  = "pinned-nav"
	defaultServicePort  = 8097
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "pinned_nav"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"
	defaultRedisAddress = "localhost:6379"
	defaultSearchIndex  = "content_items"
	defaultOptionKey    = "pinned_nav_items"
	defaultSearchLimit  = 20
	defaultSearchRPS    = 10
	defaultSearchBurst  = 20
	defaultNonceTTL     = 24 * time.Hour
	defaultCacheTTL     = 5 * time.Minute

	SearchBackendPostgres      = "postgres"
	SearchBackendElasticsearch = "elasticsearch"
)

// Config holds the application configuration.
type Config struct {
	Service       ServiceConfig     `yaml:"service"`
	Database      DatabaseConfig    `yaml:"database"`
	Redis         infraredis.Config `yaml:"redis"`
	Elasticsearch infraes.Config    `yaml:"elasticsearch"`
	Search        SearchConfig      `yaml:"search"`
	Auth          AuthConfig        `yaml:"auth"`
	Curation      CurationConfig    `yaml:"curation"`
	Cache         CacheConfig       `yaml:"cache"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Port        int      `env:"PINNED_NAV_PORT"         yaml:"port"`
	Debug       bool     `env:"APP_DEBUG"               yaml:"debug"`
	CORSOrigins []string `env:"PINNED_NAV_CORS_ORIGINS" yaml:"cors_origins"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_PINNED_NAV_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_PINNED_NAV_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_PINNED_NAV_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PINNED_NAV_PASSWORD" yaml:"password"` //nolint:gosec // DB connection config
	Database string `env:"POSTGRES_PINNED_NAV_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_PINNED_NAV_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// URL returns the connection string in URL form, as golang-migrate expects.
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// SearchConfig selects the backend used for curation searches.
type SearchConfig struct {
	Backend string `env:"PINNED_NAV_SEARCH_BACKEND" yaml:"backend"`
	Index   string `env:"PINNED_NAV_SEARCH_INDEX"   yaml:"index"`
}

// AuthConfig holds credentials for admin requests.
type AuthConfig struct {
	JWTSecret     string        `env:"AUTH_JWT_SECRET"         yaml:"jwt_secret"`
	NonceSecret   string        `env:"PINNED_NAV_NONCE_SECRET" yaml:"nonce_secret"`
	NonceLifetime time.Duration `yaml:"nonce_lifetime"`
}

// CurationConfig holds curation protocol settings.
type CurationConfig struct {
	OptionKey   string `yaml:"option_key"`
	SearchLimit int    `yaml:"search_limit"`
	// SearchRPS and SearchBurst bound admin search requests per editor.
	SearchRPS   int `yaml:"search_rps"`
	SearchBurst int `yaml:"search_burst"`
}

// CacheConfig controls the Redis options cache.
type CacheConfig struct {
	Enabled bool          `env:"PINNED_NAV_CACHE_ENABLED" yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	cfg.Elasticsearch.SetDefaults()
	setSearchDefaults(&cfg.Search)
	if cfg.Auth.NonceLifetime == 0 {
		cfg.Auth.NonceLifetime = defaultNonceTTL
	}
	setCurationDefaults(&cfg.Curation)
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = defaultCacheTTL
	}
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setSearchDefaults(s *SearchConfig) {
	if s.Backend == "" {
		s.Backend = SearchBackendPostgres
	}
	if s.Index == "" {
		s.Index = defaultSearchIndex
	}
}

func setCurationDefaults(c *CurationConfig) {
	if c.OptionKey == "" {
		c.OptionKey = defaultOptionKey
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = defaultSearchLimit
	}
	if c.SearchRPS == 0 {
		c.SearchRPS = defaultSearchRPS
	}
	if c.SearchBurst == 0 {
		c.SearchBurst = defaultSearchBurst
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("auth.jwt_secret", c.Auth.JWTSecret); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("auth.nonce_secret", c.Auth.NonceSecret); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("search.backend", c.Search.Backend,
		SearchBackendPostgres, SearchBackendElasticsearch); err != nil {
		return err
	}
	if c.Curation.SearchLimit < 0 {
		return &infraconfig.ValidationError{Field: "curation.search_limit", Message: "must not be negative"}
	}
	return infraconfig.ValidateLogLevel("logging.level", c.Logging.Level)
}
