package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Auction      AuctionConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Mail         MailConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BIDAGRI_APP_ENV" required:"true"`
	Port         string `envconfig:"BIDAGRI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BIDAGRI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIDAGRI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BIDAGRI_DB_DSN"`
	Driver string `envconfig:"BIDAGRI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BIDAGRI_DB_HOST"`
	LegacyPort     int    `envconfig:"BIDAGRI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BIDAGRI_DB_USER"`
	LegacyPassword string `envconfig:"BIDAGRI_DB_PASSWORD"`
	LegacyName     string `envconfig:"BIDAGRI_DB_NAME"`
	LegacySSLMode  string `envconfig:"BIDAGRI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIDAGRI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIDAGRI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIDAGRI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIDAGRI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BIDAGRI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BIDAGRI_REDIS_ADDR"`
	Password     string        `envconfig:"BIDAGRI_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIDAGRI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIDAGRI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIDAGRI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIDAGRI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIDAGRI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIDAGRI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BIDAGRI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BIDAGRI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BIDAGRI_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AdminConfig carries the allow-list of administrator email addresses used as
// a secondary authorization channel alongside role claims.
type AdminConfig struct {
	Emails []string `envconfig:"BIDAGRI_ADMIN_EMAILS"`
}

// AllowedEmails returns the normalized allow-list entries.
func (a AdminConfig) AllowedEmails() []string {
	out := make([]string, 0, len(a.Emails))
	for _, email := range a.Emails {
		if trimmed := strings.ToLower(strings.TrimSpace(email)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// AuctionConfig holds marketplace-wide bidding defaults.
type AuctionConfig struct {
	DefaultMinimumIncrement float64 `envconfig:"BIDAGRI_AUCTION_MIN_INCREMENT" default:"10"`
	MaxBidListLimit         int     `envconfig:"BIDAGRI_AUCTION_MAX_BID_LIST_LIMIT" default:"100"`
	DefaultListingImageURL  string  `envconfig:"BIDAGRI_DEFAULT_LISTING_IMAGE" default:"https://images.bidagri.pk/defaults/produce.jpg"`
}

type RateLimitConfig struct {
	IntakeWindow  time.Duration `envconfig:"BIDAGRI_RATE_LIMIT_INTAKE_WINDOW" default:"5m"`
	IntakeIPLimit int           `envconfig:"BIDAGRI_RATE_LIMIT_INTAKE_IP_LIMIT" default:"10"`
	BidWindow     time.Duration `envconfig:"BIDAGRI_RATE_LIMIT_BID_WINDOW" default:"1m"`
	BidIPLimit    int           `envconfig:"BIDAGRI_RATE_LIMIT_BID_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BIDAGRI_AUTO_MIGRATE" default:"false"`
}

// MailConfig configures the SES direct-send transport.
type MailConfig struct {
	Region    string `envconfig:"BIDAGRI_SES_REGION" default:"ap-south-1"`
	FromEmail string `envconfig:"BIDAGRI_SES_FROM_EMAIL"`
	ReplyTo   string `envconfig:"BIDAGRI_SES_REPLY_TO"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BIDAGRI_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	PushTopic string `envconfig:"BIDAGRI_PUBSUB_PUSH_TOPIC" default:"bidagri-push-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BIDAGRI_OUTBOX_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BIDAGRI_OUTBOX_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BIDAGRI_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
