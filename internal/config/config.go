package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"qrlink-go/constant"
	"qrlink-go/pkg/logging"
)

// EnvPrefix 环境变量前缀，例如 QRLINK_DB_DSN 覆盖 db.dsn
const EnvPrefix = "QRLINK"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       logging.Options `mapstructure:"log"`
	Redirect  RedirectConfig  `mapstructure:"redirect"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Domain    DomainConfig    `mapstructure:"domain"`
	APIKey    APIKeyConfig    `mapstructure:"api_key"`
	I18n      I18nConfig      `mapstructure:"i18n"`
}

type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	Mode          string        `mapstructure:"mode"`
	PrimaryHosts  []string      `mapstructure:"primary_hosts"` // 为空时不启用自定义域名路由
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

type DBConfig struct {
	Driver       string `mapstructure:"driver"` // mysql | sqlite
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`

	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

// RedisConfig Addr 为空表示不启用缓存，系统照常工作，只是更慢
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxActive   int           `mapstructure:"max_active"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type RedirectConfig struct {
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	InvalidateOnUpdate bool          `mapstructure:"invalidate_on_update"`
}

type AnalyticsConfig struct {
	IPSalt         string        `mapstructure:"ip_salt"`
	TaskTimeout    time.Duration `mapstructure:"task_timeout"`
	MaxInFlight    int           `mapstructure:"max_in_flight"`
	CountryHeaders []string      `mapstructure:"country_headers"`
	CityHeaders    []string      `mapstructure:"city_headers"`
}

type DomainConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	CNAMETarget   string        `mapstructure:"cname_target"`
	ARecords      []string      `mapstructure:"a_records"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	RecheckAfter  time.Duration `mapstructure:"recheck_after"`
	SweepSpec     string        `mapstructure:"sweep_spec"`
	SweepBatch    int           `mapstructure:"sweep_batch"`
}

type APIKeyConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.primary_hosts", []string{})
	v.SetDefault("server.shutdown_grace", 10*time.Second)

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 50)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.slow_threshold", 200*time.Millisecond)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_idle", 10)
	v.SetDefault("redis.max_active", 100)
	v.SetDefault("redis.idle_timeout", 240*time.Second)
	v.SetDefault("redis.dial_timeout", 2*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/qrlink.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("redirect.cache_ttl", constant.RedirectTTL)
	v.SetDefault("redirect.invalidate_on_update", false)

	v.SetDefault("analytics.ip_salt", "")
	v.SetDefault("analytics.task_timeout", 5*time.Second)
	v.SetDefault("analytics.max_in_flight", 1024)
	v.SetDefault("analytics.country_headers", []string{"X-Vercel-IP-Country", "CF-IPCountry"})
	v.SetDefault("analytics.city_headers", []string{"X-Vercel-IP-City"})

	v.SetDefault("domain.cache_ttl", constant.DomainTTL)
	v.SetDefault("domain.cname_target", "")
	v.SetDefault("domain.a_records", []string{})
	v.SetDefault("domain.lookup_timeout", 5*time.Second)
	v.SetDefault("domain.recheck_after", 10*time.Minute)
	v.SetDefault("domain.sweep_spec", "*/10 * * * *")
	v.SetDefault("domain.sweep_batch", 100)

	v.SetDefault("api_key.bcrypt_cost", 10)

	v.SetDefault("i18n.default_language", "en")
}

// Load 读取配置文件，path 为空时在当前目录查找 config.yaml
//
// 找不到配置文件时只使用默认值和环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 启动前的配置检查
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: unsupported server.mode %q", c.Server.Mode)
	}
	switch c.DB.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("config: db.dsn is required")
	}
	if c.Redirect.CacheTTL <= 0 || c.Domain.CacheTTL <= 0 {
		return errors.New("config: cache ttl must be positive")
	}
	if c.Analytics.TaskTimeout <= 0 {
		return errors.New("config: analytics.task_timeout must be positive")
	}
	return nil
}
