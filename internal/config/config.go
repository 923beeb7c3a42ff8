package config

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	viper "github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read config : 一般讀寫  需要使用讀寫鎖
*/
var configSingleton *ConfigSingleton
var muonce sync.Once

type ConfigSingleton struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	ServerPort string `mapstructure:"SERVER_PORT"`
	StoreName  string `mapstructure:"STORE_NAME"`

	DbName          string `mapstructure:"POSTGRES_DB"`
	DbHost          string `mapstructure:"POSTGRES_HOST"`
	DbPort          string `mapstructure:"POSTGRES_PORT"`
	DbUser          string `mapstructure:"POSTGRES_USER"`
	DbPas           string `mapstructure:"POSTGRES_PASSWORD"`
	DbAutoMigrate   bool   `mapstructure:"DB_AUTO_MIGRATE"`
	DbRunMigrations bool   `mapstructure:"DB_RUN_MIGRATIONS"`
	CatalogFile     string `mapstructure:"CATALOG_FILE"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	CartTTL         time.Duration `mapstructure:"CART_TTL"`

	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string `mapstructure:"KAFKA_ORDER_TOPIC"`
	KafkaGroupID    string `mapstructure:"KAFKA_GROUP_ID"`

	AuthTokenKey        string        `mapstructure:"AUTH_TOKEN_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`

	SmtpAuthKey    string `mapstructure:"SMTP_AUTH_KEY"`
	EmailAccount   string `mapstructure:"EMAIL_ACCOUNT"`
	MailSenderName string `mapstructure:"MAIL_SENDER_NAME"`

	RateLimitBackend  string  `mapstructure:"RATE_LIMIT_BACKEND"`
	RateLimitCapacity int     `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitRate     float64 `mapstructure:"RATE_LIMIT_RATE"`
}

// KafkaBrokerList 以逗號分隔的 broker 清單, 空字串代表不啟用 kafka
func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

var defaults = map[string]any{
	"ENV":                   "development",
	"LOG_LEVEL":             "info",
	"SERVER_PORT":           "8080",
	"STORE_NAME":            "Storefront",
	"POSTGRES_DB":           "storefront",
	"POSTGRES_HOST":         "localhost",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "postgres",
	"POSTGRES_PASSWORD":     "",
	"DB_AUTO_MIGRATE":       false,
	"DB_RUN_MIGRATIONS":     true,
	"CATALOG_FILE":          "docs/catalog.yaml",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"CATALOG_CACHE_TTL":     "5m",
	"CART_TTL":              "168h",
	"KAFKA_BROKERS":         "",
	"KAFKA_ORDER_TOPIC":     "storefront.orders",
	"KAFKA_GROUP_ID":        "storefront-notifier",
	"AUTH_TOKEN_KEY":        "",
	"ACCESS_TOKEN_DURATION": "24h",
	"SMTP_AUTH_KEY":         "",
	"EMAIL_ACCOUNT":         "",
	"MAIL_SENDER_NAME":      "Storefront",
	"RATE_LIMIT_BACKEND":    "redis",
	"RATE_LIMIT_CAPACITY":   10,
	"RATE_LIMIT_RATE":       1.0,
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	muonce.Do(func() {
		configSingleton = &ConfigSingleton{}
		cf, err := loadConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("error read config")
		}
		configSingleton.Config = cf

		if viper.ConfigFileUsed() == "" {
			return
		}
		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			cf, err := loadConfig()
			if err != nil {
				log.Error().Err(err).Str("file", e.Name).Msg("failed to reload config file")
				return
			}
			configSingleton.Config = cf
			log.Info().Str("file", e.Name).Msg("config reloaded")
		})
	})
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (*Config, error) {
	configSingleton.mu.Lock()
	defer configSingleton.mu.Unlock()
	return Load(viper.GetViper(), configPath())
}

// Load 讀取 path 指到的 .env (不存在時只用環境變數), 並套用預設值
func Load(v *viper.Viper, path string) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	return cf, nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return ".env"
}
