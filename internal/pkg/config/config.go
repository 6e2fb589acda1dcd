package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreCloudflare = "cloudflare"
	StoreRedis      = "redis"

	UsersMemory = "memory"
	UsersMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreBackend selects the record store: cloudflare or redis.
	StoreBackend string `env:"STORE_BACKEND, default=cloudflare"`
	// UserStore selects the credential store: memory or mongo.
	UserStore string `env:"USER_STORE, default=memory"`

	PartnerDomainSuffix string  `env:"PARTNER_DOMAIN_SUFFIX, default=rgtools.se"`
	DomainSuffix        string  `env:"DOMAIN_SUFFIX,         default=traveltool.x"`
	LoginRatePerSec     float64 `env:"LOGIN_RATE_PER_SEC,    default=1"`

	Auth       AuthConfig
	Admin      AdminConfig
	Cloudflare CloudflareConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=168h"`
}

// AdminConfig seeds the admin account at startup.
type AdminConfig struct {
	ID       string `env:"ADMIN_ID,       default=admin"`
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

type CloudflareConfig struct {
	BaseURL     string        `env:"CLOUDFLARE_BASE_URL, default=https://api.cloudflare.com/client/v4"`
	APIToken    string        `env:"CLOUDFLARE_API_TOKEN"`
	AccountID   string        `env:"CLOUDFLARE_ACCOUNT_ID"`
	ZoneID      string        `env:"CLOUDFLARE_ZONE_ID"`
	NamespaceID string        `env:"KV_NAMESPACE_ID"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT, default=30s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=partner_admin"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that depend on the selected backends.
func (c *Config) Validate() error {
	if c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.Cloudflare.APIToken == "" || c.Cloudflare.ZoneID == "" {
		return fmt.Errorf("CLOUDFLARE_API_TOKEN and CLOUDFLARE_ZONE_ID are required")
	}

	switch c.StoreBackend {
	case StoreCloudflare:
		if c.Cloudflare.AccountID == "" || c.Cloudflare.NamespaceID == "" {
			return fmt.Errorf("CLOUDFLARE_ACCOUNT_ID and KV_NAMESPACE_ID are required for the cloudflare store")
		}
	case StoreRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.UserStore {
	case UsersMemory, UsersMongo:
	default:
		return fmt.Errorf("unknown USER_STORE %q", c.UserStore)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
