package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyUUID    = key("uuid")
	KeyLogger  = key("logger")
	KeyMetrics = key("metrics")
)

type Config struct {
	Service    Service
	Platform   Platform
	Logger     Logger
	Postgres   Postgres
	Centrifuge Centrifuge
	Kafka      Kafka
	Metrics    Metrics
	Round      Round
}

type Service struct {
	Port string `env:"SERVICE_PORT" env-default:"8080"`
	Name string `env:"SERVICE_NAME" env-default:"roundtable-service"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type Postgres struct {
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB"`
	Host     string `env:"POSTGRES_HOST"`
	Port     string `env:"POSTGRES_PORT" env-default:"5432"`
}

type Centrifuge struct {
	BaseURL   string        `env:"CENTRIFUGO_BASE_URL"`
	APIKey    string        `env:"CENTRIFUGO_API_KEY"`
	Timeout   time.Duration `env:"CENTRIFUGO_TIMEOUT" env-default:"5s"`
	JWTSecret string        `env:"CENTRIFUGO_JWT_SECRET"`
}

type Kafka struct {
	Host           string `env:"KAFKA_HOST"`
	Port           string `env:"KAFKA_PORT" env-default:"9092"`
	ChangelogTopic string `env:"KAFKA_CHANGELOG_TOPIC" env-default:"thread-config-changelog"`
	GroupID        string `env:"KAFKA_CHANGELOG_GROUP" env-default:"roundtable-changelog"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type Round struct {
	PreSearchTimeout   time.Duration `env:"ROUND_PRE_SEARCH_TIMEOUT" env-default:"120s"`
	AnalysisTimeout    time.Duration `env:"ROUND_ANALYSIS_TIMEOUT" env-default:"60s"`
	StreamStartTimeout time.Duration `env:"ROUND_STREAM_START_TIMEOUT" env-default:"30s"`
	WatchdogInterval   time.Duration `env:"ROUND_WATCHDOG_INTERVAL" env-default:"1s"`
	BroadcastBuffer    int           `env:"ROUND_BROADCAST_BUFFER" env-default:"256"`
}

func MustLoad() *Config {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read env variables: %s", err)
	}
	return cfg
}
