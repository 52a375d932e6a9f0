package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"

	"github.com/sanchey92/pizzeria/internal/domain/model"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App      App      `yaml:"app"`
	HTTP     HTTP     `yaml:"http"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	Kafka    Kafka    `yaml:"kafka"`
	Outbox   Outbox   `yaml:"outbox"`
	Order    Order    `yaml:"order"`
	Notify   Notify   `yaml:"notify"`
	Store    Store    `yaml:"store"`
}

type App struct {
	Name     string `yaml:"name"      env:"APP_NAME"      env-default:"pizzeria"`
	LogLevel string `yaml:"log_level" env:"APP_LOG_LEVEL" env-default:"info"`
}

type HTTP struct {
	Port            int           `yaml:"port"             env:"HTTP_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	AdminToken      string        `yaml:"admin_token"      env:"HTTP_ADMIN_TOKEN"`
}

type Storage struct {
	Driver       string        `yaml:"driver"        env:"STORAGE_DRIVER"        env-default:"memory"`
	SnapshotPath string        `yaml:"snapshot_path" env:"STORAGE_SNAPSHOT_PATH"`
	SQLitePath   string        `yaml:"sqlite_path"   env:"STORAGE_SQLITE_PATH"   env-default:"pizzeria.db"`
	PollInterval time.Duration `yaml:"poll_interval" env:"STORAGE_POLL_INTERVAL" env-default:"1s"`
}

type Postgres struct {
	DSN             string        `yaml:"dsn"                env:"POSTGRES_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"POSTGRES_MAX_CONNS"          env-default:"20"`
	MinConns        int32         `yaml:"min_conns"          env:"POSTGRES_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"POSTGRES_MAX_CONN_LIFETIME"  env-default:"30m"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"POSTGRES_MAX_CONN_IDLE_TIME" env-default:"5m"`
}

type Kafka struct {
	Enabled          bool   `yaml:"enabled"            env:"KAFKA_ENABLED"            env-default:"false"`
	Brokers          string `yaml:"brokers"            env:"KAFKA_BROKERS"            env-default:"localhost:29092"`
	ConsumerGroup    string `yaml:"consumer_group"     env:"KAFKA_CONSUMER_GROUP"     env-default:"pizzeria"`
	EventTopic       string `yaml:"event_topic"        env:"KAFKA_EVENT_TOPIC"        env-default:"order-events"`
	Acks             string `yaml:"acks"               env:"KAFKA_ACKS"               env-default:"all"`
	LingerMs         int    `yaml:"linger_ms"          env:"KAFKA_LINGER_MS"          env-default:"10"`
	Compression      string `yaml:"compression"        env:"KAFKA_COMPRESSION"        env-default:"lz4"`
	SessionTimeoutMs int    `yaml:"session_timeout_ms" env:"KAFKA_SESSION_TIMEOUT_MS" env-default:"30000"`
	MaxPollInterval  int    `yaml:"max_poll_interval_ms" env:"KAFKA_MAX_POLL_INTERVAL_MS" env-default:"300000"`
}

type Outbox struct {
	BatchSize    int           `yaml:"batch_size"    env:"OUTBOX_BATCH_SIZE"    env-default:"100"`
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL" env-default:"500ms"`
}

type Order struct {
	ConfirmDelay      time.Duration `yaml:"confirm_delay"      env:"ORDER_CONFIRM_DELAY"      env-default:"0s"`
	StrictTransitions bool          `yaml:"strict_transitions" env:"ORDER_STRICT_TRANSITIONS" env-default:"false"`
}

type Notify struct {
	MessagingDomain string `yaml:"messaging_domain" env:"NOTIFY_MESSAGING_DOMAIN" env-default:"wa.me"`
	CountryCode     string `yaml:"country_code"     env:"NOTIFY_COUNTRY_CODE"     env-default:"55"`
	TrackingURL     string `yaml:"tracking_url"     env:"NOTIFY_TRACKING_URL"     env-default:"http://localhost:8080/orders"`
}

// Store holds the settings used until an admin saves their own.
type Store struct {
	Name         string `yaml:"name"          env:"STORE_NAME"          env-default:"Pizzaria"`
	Phone        string `yaml:"phone"         env:"STORE_PHONE"`
	Address      string `yaml:"address"       env:"STORE_ADDRESS"`
	DeliveryFee  string `yaml:"delivery_fee"  env:"STORE_DELIVERY_FEE"  env-default:"5.00"`
	DeliveryTime string `yaml:"delivery_time" env:"STORE_DELIVERY_TIME" env-default:"40-50 min"`
	IsOpen       bool   `yaml:"is_open"       env:"STORE_IS_OPEN"       env-default:"true"`
}

// Settings converts the defaults to the domain type.
func (s Store) Settings() (model.Settings, error) {
	fee, err := decimal.NewFromString(s.DeliveryFee)
	if err != nil {
		return model.Settings{}, fmt.Errorf("store.delivery_fee: %w", err)
	}
	settings := model.Settings{
		Name:         s.Name,
		Phone:        s.Phone,
		Address:      s.Address,
		DeliveryFee:  fee,
		DeliveryTime: s.DeliveryTime,
		IsOpen:       s.IsOpen,
	}
	if err = settings.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("store defaults: %w", err)
	}
	return settings, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return fmt.Errorf("postgres.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := c.Store.Settings(); err != nil {
		return err
	}
	return nil
}

func MustLoad(path string) *Config {
	if path == "" {
		panic("Config path is not set")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic(fmt.Sprintf("file does not exists: %s: %v", path, err))
	}

	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s: %w", path, err)
	}
	return &cfg, nil
}
