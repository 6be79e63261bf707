package config

import (
    "os"
    "strings"
    "time"

    "github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
    Server     ServerConfig     `mapstructure:"server"`
    Log        LogConfig        `mapstructure:"log"`
    Database   DatabaseConfig   `mapstructure:"database"`
    Redis      RedisConfig      `mapstructure:"redis"`
    Auth       AuthConfig       `mapstructure:"auth"`
    Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
    Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
    Runner     RunnerConfig     `mapstructure:"runner"`
    Twitter    TwitterConfig    `mapstructure:"twitter"`
    LinkedIn   LinkedInConfig   `mapstructure:"linkedin"`
    Quote      QuoteConfig      `mapstructure:"quote"`
    Sentry     SentryConfig     `mapstructure:"sentry"`
    Tracing    TracingConfig    `mapstructure:"tracing"`
}

type ServerConfig struct {
    Addr string `mapstructure:"addr"`
    Mode string `mapstructure:"mode"` // debug / release
}

type LogConfig struct {
    Level  string `mapstructure:"level"`
    Format string `mapstructure:"format"` // json / console
}

type DatabaseConfig struct {
    Driver string `mapstructure:"driver"` // postgres / sqlite
    DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
    JWTSecret string        `mapstructure:"jwt_secret"`
    TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// SchedulerConfig 排期参数：每日模板 + 抖动 + 冲突窗口
type SchedulerConfig struct {
    Template         []string `mapstructure:"template"` // "HH:MM" 列表
    Timezone         string   `mapstructure:"timezone"`
    JitterMinutes    int      `mapstructure:"jitter_minutes"`
    LookaheadDays    int      `mapstructure:"lookahead_days"`
    CollisionMinutes int      `mapstructure:"collision_minutes"`
}

type DispatcherConfig struct {
    Workers        int           `mapstructure:"workers"`
    RatePerSecond  float64       `mapstructure:"rate_per_second"`
    PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type RunnerConfig struct {
    Interval time.Duration `mapstructure:"interval"`
}

type TwitterConfig struct {
    APIBase      string `mapstructure:"api_base"`
    ClientID     string `mapstructure:"client_id"`
    ClientSecret string `mapstructure:"client_secret"`
}

type LinkedInConfig struct {
    APIBase      string        `mapstructure:"api_base"`
    ClientID     string        `mapstructure:"client_id"`
    ClientSecret string        `mapstructure:"client_secret"`
    AuthorTTL    time.Duration `mapstructure:"author_ttl"` // author URN 缓存时长
}

type QuoteConfig struct {
    Endpoint string `mapstructure:"endpoint"`
    APIKey   string `mapstructure:"api_key"`
    Model    string `mapstructure:"model"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

type TracingConfig struct {
    Endpoint string `mapstructure:"endpoint"` // OTLP HTTP，空=关闭
}

// Load 读取配置文件（CONFIG_FILE 可覆盖路径），环境变量前缀 AUTOPUB_
func Load() (*Config, error) {
    v := viper.New()

    path := os.Getenv("CONFIG_FILE")
    if path == "" {
        path = "config.yaml"
    }
    v.SetConfigFile(path)

    v.SetEnvPrefix("AUTOPUB")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    setDefaults(v)

    if err := v.ReadInConfig(); err != nil {
        // 配置文件缺失时允许纯环境变量/默认值启动
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
            return nil, err
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("server.addr", ":8080")
    v.SetDefault("server.mode", "release")
    v.SetDefault("log.level", "info")
    v.SetDefault("log.format", "json")
    v.SetDefault("database.driver", "sqlite")
    v.SetDefault("database.dsn", "autopub.db")
    v.SetDefault("redis.addr", "localhost:6379")
    v.SetDefault("auth.token_ttl", 24*time.Hour)
    v.SetDefault("scheduler.template", []string{"08:03", "12:35", "15:43", "17:30"})
    v.SetDefault("scheduler.timezone", "Local")
    v.SetDefault("scheduler.jitter_minutes", 12)
    v.SetDefault("scheduler.lookahead_days", 14)
    v.SetDefault("scheduler.collision_minutes", 30)
    v.SetDefault("dispatcher.workers", 4)
    v.SetDefault("dispatcher.rate_per_second", 1.0)
    v.SetDefault("dispatcher.publish_timeout", 30*time.Second)
    v.SetDefault("runner.interval", 15*time.Minute)
    v.SetDefault("twitter.api_base", "https://api.twitter.com")
    v.SetDefault("linkedin.api_base", "https://api.linkedin.com")
    v.SetDefault("linkedin.author_ttl", time.Hour)
    v.SetDefault("quote.model", "gpt-4o-mini")
}
