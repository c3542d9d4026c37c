// Package config loads server configuration from defaults, an optional
// config file and USERSAUTH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix префикс переменных окружения, например USERSAUTH_TOKEN_SECRET
const EnvPrefix = "USERSAUTH"

// Драйверы базы данных
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Хранилища отозванных токенов
const (
	RevocationSQL  = "sql"
	RevocationBolt = "bolt"
)

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type TokenConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type RevocationConfig struct {
	Backend         string        `mapstructure:"backend"`
	BoltPath        string        `mapstructure:"bolt_path"`
	CompactInterval time.Duration `mapstructure:"compact_interval"`
}

type RateLimitConfig struct {
	// TrustedProxies IP или CIDR прокси, которым разрешено передавать адрес клиента в X-Forwarded-For
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
	Requests       int           `mapstructure:"requests"`
	Window         time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Token      TokenConfig      `mapstructure:"token"`
	Revocation RevocationConfig `mapstructure:"revocation"`
	Log        LogConfig        `mapstructure:"log"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Security   SecurityConfig   `mapstructure:"security"`
}

var defaults = map[string]any{
	"server.address":              ":5000",
	"server.read_timeout":         "10s",
	"server.write_timeout":        "10s",
	"server.shutdown_timeout":     "15s",
	"server.request_timeout":      "5s",
	"database.driver":             DriverSQLite,
	"database.dsn":                "usersauth.db",
	"token.secret":                "",
	"token.ttl":                   "24h",
	"security.bcrypt_cost":        bcrypt.DefaultCost,
	"revocation.backend":          RevocationSQL,
	"revocation.bolt_path":        "revoked.db",
	"revocation.compact_interval": "1h",
	"ratelimit.requests":          10,
	"ratelimit.window":            "1m",
	"ratelimit.trusted_proxies":   []string{},
	"log.level":                   "info",
	"log.format":                  "text",
}

// Load reads configuration: defaults, then the file at path (if not empty),
// then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults нужны для каждого ключа, иначе AutomaticEnv не увидит переменную при Unmarshal
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// environment overrides, e.g. USERSAUTH_SERVER_ADDRESS=:8080
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &c, nil
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Database),
		validation.Field(&c.Token),
		validation.Field(&c.Security),
		validation.Field(&c.Revocation),
		validation.Field(&c.RateLimit),
		validation.Field(&c.Log),
	)
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required),
		validation.Field(&c.ReadTimeout, positiveDuration...),
		validation.Field(&c.WriteTimeout, positiveDuration...),
		validation.Field(&c.ShutdownTimeout, positiveDuration...),
		validation.Field(&c.RequestTimeout, positiveDuration...),
	)
}

func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
	)
}

func (c TokenConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Secret, validation.Required.Error("must be set (USERSAUTH_TOKEN_SECRET)")),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
	)
}

func (c SecurityConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BcryptCost, validation.Required, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
	)
}

func (c RevocationConfig) Validate() error {
	boltPathRules := []validation.Rule{}
	if c.Backend == RevocationBolt {
		boltPathRules = append(boltPathRules, validation.Required)
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(RevocationSQL, RevocationBolt)),
		validation.Field(&c.BoltPath, boltPathRules...),
		validation.Field(&c.CompactInterval, validation.Min(time.Duration(0))),
	)
}

func (c RateLimitConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Requests, validation.Min(0)),
		validation.Field(&c.Window, validation.By(func(value interface{}) error {
			if c.Requests > 0 && c.Window <= 0 {
				return errors.New("must be positive when requests is set")
			}
			return nil
		})),
		validation.Field(&c.TrustedProxies, validation.Each(validation.NewStringRule(isIPOrCIDR, "must be an IP address or CIDR"))),
	)
}

func isIPOrCIDR(value string) bool {
	if _, err := netip.ParsePrefix(value); err == nil {
		return true
	}
	_, err := netip.ParseAddr(value)
	return err == nil
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In("text", "json")),
	)
}

var positiveDuration = []validation.Rule{
	validation.Required,
	validation.Min(time.Millisecond),
}
