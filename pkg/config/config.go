package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Payload       PayloadCryptoConfig
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"BULKCART_APP_ENV" required:"true"`
	Port         string `envconfig:"BULKCART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BULKCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BULKCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BULKCART_DB_DSN"`
	Driver string `envconfig:"BULKCART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BULKCART_DB_HOST"`
	Port     int    `envconfig:"BULKCART_DB_PORT" default:"5432"`
	User     string `envconfig:"BULKCART_DB_USER"`
	Password string `envconfig:"BULKCART_DB_PASSWORD"`
	Name     string `envconfig:"BULKCART_DB_NAME"`
	SSLMode  string `envconfig:"BULKCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BULKCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BULKCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BULKCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BULKCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BULKCART_REDIS_URL"`
	Address      string        `envconfig:"BULKCART_REDIS_ADDR"`
	Password     string        `envconfig:"BULKCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BULKCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BULKCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BULKCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BULKCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BULKCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BULKCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BULKCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BULKCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BULKCART_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"BULKCART_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BULKCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BULKCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BULKCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BULKCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BULKCART_ARGON_KEY_LEN" default:"32"`
}

// PayloadCryptoConfig carries the shared key for the request/response
// envelope codec. The key is base64-encoded 32 bytes (AES-256).
type PayloadCryptoConfig struct {
	Key string `envconfig:"BULKCART_PAYLOAD_KEY" required:"true"`
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"BULKCART_OTP_TTL" default:"5m"`
	Length      int           `envconfig:"BULKCART_OTP_LENGTH" default:"6"`
	MaxAttempts int           `envconfig:"BULKCART_OTP_MAX_ATTEMPTS" default:"5"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BULKCART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BULKCART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BULKCART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OTPWindow       time.Duration `envconfig:"BULKCART_AUTH_RATE_LIMIT_OTP_WINDOW" default:"5m"`
	OTPLimit        int           `envconfig:"BULKCART_AUTH_RATE_LIMIT_OTP_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BULKCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BULKCART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for envName, value := range map[string]string{
		"BULKCART_DB_HOST": db.Host,
		"BULKCART_DB_USER": db.User,
		"BULKCART_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either BULKCART_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
