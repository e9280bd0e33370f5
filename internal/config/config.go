package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TemplateGlob string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint      string
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	Region        string
}

type ChainConfig struct {
	RPCURL       string
	ContractHash string
	Timeout      time.Duration
	WaitForLog   bool
}

type IngressConfig struct {
	PlaceholderBaseURL string
	FetchTimeout       time.Duration
}

type FeedConfig struct {
	PageSize     int
	MaxLimit     int
	CacheTTL     time.Duration
	WarmInterval string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Chain            ChainConfig
	Ingress          IngressConfig
	Feed             FeedConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("VIBEMINT")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Chain.ContractHash == "" {
		return nil, fmt.Errorf("chain.contracthash is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.templateglob", "web/templates/*.html")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucket", "vibe-media")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("chain.rpcurl", "http://127.0.0.1:10332")
	v.SetDefault("chain.timeout", "30s")
	v.SetDefault("chain.waitforlog", false)

	v.SetDefault("ingress.placeholderbaseurl", "https://picsum.photos")
	v.SetDefault("ingress.fetchtimeout", "15s")

	v.SetDefault("feed.pagesize", 12)
	v.SetDefault("feed.maxlimit", 120)
	v.SetDefault("feed.cachettl", "30s")
	v.SetDefault("feed.warminterval", "0 */1 * * * *") // every minute
}
