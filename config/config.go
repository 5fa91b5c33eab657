package config

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DataDir     string `mapstructure:"DATA_DIR"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`

	RedisHost     string        `mapstructure:"REDIS_HOST"`
	RedisPort     string        `mapstructure:"REDIS_PORT"`
	StatsCacheTTL time.Duration `mapstructure:"STATS_CACHE_TTL"`

	KafkaBroker      string `mapstructure:"KAFKA_BROKER"`
	OrderEventsTopic string `mapstructure:"ORDER_EVENTS_TOPIC"`
	AggGroupID       string `mapstructure:"AGG_GROUP_ID"`

	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	AdminJWTSecret string        `mapstructure:"ADMIN_JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`

	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`

	Timezone         string `mapstructure:"TIMEZONE"`
	OrderTransitions string `mapstructure:"ORDER_TRANSITIONS"`
	QRBaseURL        string `mapstructure:"QR_BASE_URL"`

	AIBaseURL       string        `mapstructure:"AI_BASE_URL"`
	AIAPIKey        string        `mapstructure:"AI_API_KEY"`
	AIModel         string        `mapstructure:"AI_MODEL"`
	AITimeout       time.Duration `mapstructure:"AI_TIMEOUT"`
	AIRatePerMinute int           `mapstructure:"AI_RATE_PER_MINUTE"`
}

var defaults = map[string]any{
	"APP_ENV":            "development",
	"HTTP_ADDR":          ":3000",
	"STORE_DRIVER":       "postgres",
	"DATA_DIR":           "./data",
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_NAME":            "kungfu",
	"DB_USER":            "postgres",
	"DB_PASSWORD":        "",
	"REDIS_HOST":         "",
	"REDIS_PORT":         "6379",
	"STATS_CACHE_TTL":    "60s",
	"KAFKA_BROKER":       "",
	"ORDER_EVENTS_TOPIC": "order-events",
	"AGG_GROUP_ID":       "stats-agg",
	"JWT_SECRET":         "change-me",
	"ADMIN_JWT_SECRET":   "change-me-admin",
	"TOKEN_TTL":          "24h",
	"UPLOAD_DIR":         "./uploads",
	"MAX_UPLOAD_BYTES":   5 << 20,
	"TIMEZONE":           "Asia/Shanghai",
	"ORDER_TRANSITIONS":  "permissive",
	"QR_BASE_URL":        "http://localhost:3000",
	"AI_BASE_URL":        "https://dashscope.aliyuncs.com/compatible-mode/v1",
	"AI_API_KEY":         "",
	"AI_MODEL":           "qwen-turbo",
	"AI_TIMEOUT":         "8s",
	"AI_RATE_PER_MINUTE": 6,
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	return cfg
}

// Location resolves TIMEZONE, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func MustInitPostgres(c *Config) *sql.DB {
	db, err := sql.Open("postgres", c.PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

// MustInitRedis returns nil when REDIS_HOST is empty so the cache is optional.
func MustInitRedis(c *Config) *redis.Client {
	if c.RedisHost == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: c.RedisHost + ":" + c.RedisPort,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(c *Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{c.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

// Order events are published inline with the request after commit.
const kafkaBatchTimeout = 10 * time.Millisecond

// NewKafkaWriter returns nil when KAFKA_BROKER is empty so events are optional.
func NewKafkaWriter(c *Config, topic string) *kafka.Writer {
	if c.KafkaBroker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(c.KafkaBroker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: kafkaBatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
}
