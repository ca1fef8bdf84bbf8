// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// every subsystem (Collection, Indexer, Pagerank, Search, Server, etc.).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Collection CollectionConfig `yaml:"collection"`
	Indexer    IndexerConfig    `yaml:"indexer"`
	Pagerank   PagerankConfig   `yaml:"pagerank"`
	Search     SearchConfig     `yaml:"search"`
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// CollectionConfig locates the pre-crawled document collection.
type CollectionConfig struct {
	Dir          string `yaml:"dir"`
	Manifest     string `yaml:"manifest"`
	MaxDocuments int    `yaml:"maxDocuments"`
}

// ManifestPath returns the full path of the collection manifest.
func (c CollectionConfig) ManifestPath() string {
	return filepath.Join(c.Dir, c.Manifest)
}

// DocumentPath returns the full path of the file backing the named document.
func (c CollectionConfig) DocumentPath(name string) string {
	return filepath.Join(c.Dir, name+".txt")
}

// IndexerConfig controls inverted index construction and persistence.
type IndexerConfig struct {
	OutputPath string `yaml:"outputPath"`
	MaxTerms   int    `yaml:"maxTerms"`
}

// PagerankConfig holds the rank computation parameters and output path.
type PagerankConfig struct {
	Damping       float64 `yaml:"damping"`
	Convergence   float64 `yaml:"convergence"`
	MaxIterations int     `yaml:"maxIterations"`
	OutputPath    string  `yaml:"outputPath"`
}

// Validate checks the rank parameters against their documented domains.
func (p PagerankConfig) Validate() error {
	if p.Damping < 0 || p.Damping > 1 {
		return fmt.Errorf("damping must be in [0,1], got %g", p.Damping)
	}
	if p.Convergence < 0 {
		return fmt.Errorf("convergence threshold must be >= 0, got %g", p.Convergence)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be >= 1, got %d", p.MaxIterations)
	}
	return nil
}

// SearchConfig controls query execution limits.
type SearchConfig struct {
	MaxResults int `yaml:"maxResults"`
}

// ServerConfig holds HTTP server settings for the query service.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// RedisConfig holds Redis connection and query-cache parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// PostgresConfig holds PostgreSQL connection parameters for the query log.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// defaultConfig returns a Config with defaults matching the reference
// collection layout (collection.txt plus <name>.txt files in one directory).
func defaultConfig() *Config {
	return &Config{
		Collection: CollectionConfig{
			Dir:          "data/collection",
			Manifest:     "collection.txt",
			MaxDocuments: 1000,
		},
		Indexer: IndexerConfig{
			OutputPath: "invertedIndex.txt",
			MaxTerms:   100000,
		},
		Pagerank: PagerankConfig{
			Damping:       0.85,
			Convergence:   0.0001,
			MaxIterations: 100,
			OutputPath:    "pagerankList.txt",
		},
		Search: SearchConfig{
			MaxResults: 30,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Postgres: PostgresConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            5432,
			Database:        "searchrank",
			User:            "searchrank",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads SR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SR_COLLECTION_DIR"); v != "" {
		cfg.Collection.Dir = v
	}
	if v := os.Getenv("SR_COLLECTION_MANIFEST"); v != "" {
		cfg.Collection.Manifest = v
	}
	if v := os.Getenv("SR_COLLECTION_MAX_DOCUMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Collection.MaxDocuments = n
		}
	}
	if v := os.Getenv("SR_INDEX_OUTPUT"); v != "" {
		cfg.Indexer.OutputPath = v
	}
	if v := os.Getenv("SR_INDEX_MAX_TERMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.MaxTerms = n
		}
	}
	if v := os.Getenv("SR_PAGERANK_DAMPING"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pagerank.Damping = f
		}
	}
	if v := os.Getenv("SR_PAGERANK_CONVERGENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pagerank.Convergence = f
		}
	}
	if v := os.Getenv("SR_PAGERANK_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pagerank.MaxIterations = n
		}
	}
	if v := os.Getenv("SR_PAGERANK_OUTPUT"); v != "" {
		cfg.Pagerank.OutputPath = v
	}
	if v := os.Getenv("SR_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("SR_SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("SR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("SR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
		cfg.Postgres.Enabled = true
	}
	if v := os.Getenv("SR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("SR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("SR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = n
			cfg.Metrics.Enabled = true
		}
	}
}
