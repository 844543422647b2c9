package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and passed to the components that need it.
type Config struct {
	Env        string
	ServerPort string
	AppBaseURL string
	LogLevel   string

	DBDriver    string
	DatabaseDSN string
	ResetDB     bool

	RedisAddr      string
	RedisDB        int
	RedisPass      string
	RedisKeyPrefix string

	JWTSecret       string
	JWTExpiresIn    time.Duration
	CookieExpiresIn time.Duration
	BcryptCost      int

	ResetTokenTTL         time.Duration
	DeactivationRetention time.Duration
	PurgeInterval         time.Duration

	MailTransport string
	MailFrom      string
	MailFromName  string
	AWSRegion     string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	RateLimitPerHour int
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. Outside production a
// .env file in the working directory is loaded first.
func Load() *Config {
	if os.Getenv("APP_ENV") != EnvProduction {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("config: could not load .env: %v", err)
		}
	}

	return &Config{
		Env:        getEnv("APP_ENV", EnvDevelopment),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AppBaseURL: os.Getenv("APP_BASE_URL"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN: getEnv("DATABASE_DSN", "user:password@tcp(localhost:3306)/natours?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:     getEnvBool("RESET_DB", false),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "natours:"),

		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		JWTExpiresIn:    getEnvDuration("JWT_EXPIRES_IN", 90*24*time.Hour),
		CookieExpiresIn: getEnvDuration("JWT_COOKIE_EXPIRES_IN", 90*24*time.Hour),
		BcryptCost:      getEnvInt("BCRYPT_COST", 12),

		ResetTokenTTL:         getEnvDuration("RESET_TOKEN_TTL", 10*time.Minute),
		DeactivationRetention: getEnvDuration("DEACTIVATION_RETENTION", 30*24*time.Hour),
		PurgeInterval:         getEnvDuration("PURGE_INTERVAL", time.Hour),

		MailTransport: getEnv("MAIL_TRANSPORT", "log"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		MailFromName:  getEnv("MAIL_FROM_NAME", "Natours"),
		AWSRegion:     getEnv("AWS_REGION", "eu-west-1"),

		KafkaBroker:   getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "natours.mail"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "natours-mailer"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		RateLimitPerHour: getEnvInt("RATE_LIMIT_PER_HOUR", 100),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

// IsProduction reports whether the process runs with production error output.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("15m", "2160h") or a plain number of hours.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(v); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return def
}
