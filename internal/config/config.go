package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultConfigFile is read when present; every key also has a default and
// an environment override (server.port -> SERVER_PORT).
const DefaultConfigFile = "configs/config.yaml"

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		Mode               string        `mapstructure:"mode"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		ReadTimeout        time.Duration `mapstructure:"read_timeout"`
		WriteTimeout       time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Log struct {
		Level   string `mapstructure:"level"`
		Format  string `mapstructure:"format"`
		Service string `mapstructure:"service"`
	} `mapstructure:"log"`

	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`

	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`

	Database struct {
		DSN        string `mapstructure:"dsn"`
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"database"`

	Pagination struct {
		DefaultSize int `mapstructure:"default_size"`
		MaxSize     int `mapstructure:"max_size"`
	} `mapstructure:"pagination"`

	Notify NotifyConfig `mapstructure:"notify"`

	Cache struct {
		RedisAddr     string        `mapstructure:"redis_addr"`
		RedisPassword string        `mapstructure:"redis_password"`
		RedisDB       int           `mapstructure:"redis_db"`
		TTL           time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
}

type DynamoDBConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Tables          struct {
		Contacts  string `mapstructure:"contacts"`
		Inquiries string `mapstructure:"inquiries"`
		Users     string `mapstructure:"users"`
		Products  string `mapstructure:"products"`
		BlogPosts string `mapstructure:"blog_posts"`
	} `mapstructure:"tables"`
}

type NotifyConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	AdminEmail  string        `mapstructure:"admin_email"`
	FrontendURL string        `mapstructure:"frontend_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	WebhookURL  string        `mapstructure:"webhook_url"`
	SMTP        SMTPConfig    `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Load reads .env, then the default config file if it exists, then the
// environment.
func Load() (*Config, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()
	return LoadFile(DefaultConfigFile)
}

func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Names the AWS SDK and the local DynamoDB tooling already use.
	_ = v.BindEnv("dynamodb.region", "DYNAMODB_REGION", "AWS_REGION")
	_ = v.BindEnv("dynamodb.endpoint", "DYNAMODB_ENDPOINT")
	_ = v.BindEnv("dynamodb.access_key_id", "DYNAMODB_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("dynamodb.secret_access_key", "DYNAMODB_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.service", "solstice-leads")

	v.SetDefault("store.driver", DriverDynamoDB)

	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("dynamodb.access_key_id", "local")
	v.SetDefault("dynamodb.secret_access_key", "local")
	v.SetDefault("dynamodb.tables.contacts", "contacts")
	v.SetDefault("dynamodb.tables.inquiries", "inquiries")
	v.SetDefault("dynamodb.tables.users", "users")
	v.SetDefault("dynamodb.tables.products", "products")
	v.SetDefault("dynamodb.tables.blog_posts", "blog_posts")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.sqlite_path", "solstice.db")

	v.SetDefault("pagination.default_size", 20)
	v.SetDefault("pagination.max_size", 100)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.admin_email", "")
	v.SetDefault("notify.frontend_url", "http://localhost:3000")
	v.SetDefault("notify.timeout", 30*time.Second)
	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.smtp.host", "")
	v.SetDefault("notify.smtp.port", 587)
	v.SetDefault("notify.smtp.username", "")
	v.SetDefault("notify.smtp.password", "")
	v.SetDefault("notify.smtp.from", "")

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 60*time.Second)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverDynamoDB, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid store.driver %q: want one of %s, %s, %s", c.Store.Driver, DriverDynamoDB, DriverPostgres, DriverSQLite)
	}
	if c.Store.Driver == DriverPostgres && c.Database.DSN == "" {
		return errors.New("database.dsn is required for the postgres driver")
	}
	if c.Pagination.DefaultSize <= 0 || c.Pagination.MaxSize < c.Pagination.DefaultSize {
		return fmt.Errorf("invalid pagination sizes: default %d, max %d", c.Pagination.DefaultSize, c.Pagination.MaxSize)
	}
	return nil
}
