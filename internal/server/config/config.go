// Package config загружает конфигурацию сервера.
// Порядок: значения по умолчанию, YAML файл, переменные окружения NOTEKEEPER_*, флаги.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/notekeeper/internal/crypto"
	"github.com/iudanet/notekeeper/internal/server/jwt"
)

// Поддерживаемые драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "NOTEKEEPER_"

// Duration time.Duration, который читается из YAML строкой вида "15m"
type Duration time.Duration

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration back as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config полная конфигурация сервера
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Argon2   Argon2Config   `yaml:"argon2"`
}

// ServerConfig адрес и таймауты HTTP сервера
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig драйвер и строка подключения (путь к файлу для sqlite)
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// AuthConfig ключ подписи токенов (Base64) и время жизни токена
type AuthConfig struct {
	Secret   string   `yaml:"secret"`
	TokenTTL Duration `yaml:"token_ttl"`
}

// Argon2Config стоимость хеширования паролей
type Argon2Config struct {
	MemoryKiB   uint32 `yaml:"memory_kib"`
	Iterations  uint32 `yaml:"iterations"`
	Parallelism uint8  `yaml:"parallelism"`
}

// Пределы стоимости Argon2id, которые принимает конфигурация
const (
	maxArgon2MemoryKiB   = 4 * 1024 * 1024 // 4 GiB
	maxArgon2Iterations  = 64
	maxArgon2Parallelism = 64
)

func (a Argon2Config) validate() error {
	if a.Parallelism < 1 || a.Parallelism > maxArgon2Parallelism {
		return fmt.Errorf("argon2.parallelism must be in [1, %d], got %d", maxArgon2Parallelism, a.Parallelism)
	}
	if a.Iterations < 1 || a.Iterations > maxArgon2Iterations {
		return fmt.Errorf("argon2.iterations must be in [1, %d], got %d", maxArgon2Iterations, a.Iterations)
	}
	// argon2 требует не меньше 8 KiB на каждую линию
	minMemory := 8 * uint32(a.Parallelism)
	if a.MemoryKiB < minMemory || a.MemoryKiB > maxArgon2MemoryKiB {
		return fmt.Errorf("argon2.memory_kib must be in [%d, %d], got %d", minMemory, maxArgon2MemoryKiB, a.MemoryKiB)
	}
	return nil
}

// LoggingConfig уровень и формат логов
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig настройки Prometheus endpoint
type MetricsConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// CORSConfig разрешенные origin для браузерных клиентов
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default возвращает конфигурацию по умолчанию. Secret не задан: его нужно передать явно.
func Default() *Config {
	argon := crypto.DefaultArgon2Params()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "notekeeper.db",
		},
		Auth: AuthConfig{
			TokenTTL: Duration(time.Hour),
		},
		Argon2: Argon2Config{
			MemoryKiB:   argon.MemoryKiB,
			Iterations:  argon.Iterations,
			Parallelism: argon.Parallelism,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load собирает конфигурацию из всех источников, но не проверяет ее: это делает Validate.
// Свои флаги регистрируются в fs, чтобы вызывающий код мог добавить туда собственные
// (например -version) до разбора. args без имени программы, getenv обычно os.Getenv.
func Load(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	configPath := fs.String("config", getenv(EnvPrefix+"CONFIG"), "Path to YAML config file")
	addr := fs.String("a", "", "HTTP listen address")
	dsn := fs.String("d", "", "Database DSN (file path for sqlite)")
	driver := fs.String("driver", "", "Database driver: sqlite or postgres")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := Default()

	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	// флаги перекрывают все остальное
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}
	if *driver != "" {
		cfg.Database.Driver = *driver
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *Duration) error {
		v := getenv(EnvPrefix + name)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = Duration(d)
		return nil
	}

	str("ADDR", &c.Server.Addr)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("AUTH_SECRET", &c.Auth.Secret)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("METRICS_PATH", &c.Metrics.Path)

	if err := dur("TOKEN_TTL", &c.Auth.TokenTTL); err != nil {
		return err
	}
	if err := dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout); err != nil {
		return err
	}

	if v := getenv(EnvPrefix + "METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sMETRICS_ENABLED: %w", EnvPrefix, err)
		}
		c.Metrics.Enabled = enabled
	}

	if v := getenv(EnvPrefix + "CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}

	return nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required (generate one with -gen-secret)")
	}
	secret, err := crypto.DecodeSecret(c.Auth.Secret)
	if err != nil {
		return fmt.Errorf("auth.secret: %w", err)
	}
	if len(secret) < jwt.MinSecretLen {
		return fmt.Errorf("auth.secret must decode to at least %d bytes, got %d", jwt.MinSecretLen, len(secret))
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}

	if err := c.Argon2.validate(); err != nil {
		return err
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	return nil
}

// SecretBytes возвращает декодированный ключ подписи. Вызывать после Validate.
func (c *Config) SecretBytes() ([]byte, error) {
	return crypto.DecodeSecret(c.Auth.Secret)
}

// Argon2Params переводит настройки в параметры crypto.PasswordHasher
func (c *Config) Argon2Params() crypto.Argon2Params {
	return crypto.Argon2Params{
		MemoryKiB:   c.Argon2.MemoryKiB,
		Iterations:  c.Argon2.Iterations,
		Parallelism: c.Argon2.Parallelism,
	}
}
