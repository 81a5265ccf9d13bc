package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`  // 服务器配置
	Store   StoreConfig   `mapstructure:"store"`   // 持久化存储配置
	Locator ClientConfig  `mapstructure:"locator"` // 赛事定位服务配置
	Geocode ClientConfig  `mapstructure:"geocode"` // 地点解析服务配置
	Query   QueryConfig   `mapstructure:"query"`   // 默认查询位置（管理刷新路径重建缓存时使用）
	Refresh RefreshConfig `mapstructure:"refresh"` // 定时刷新配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port          int    `mapstructure:"port"`           // 服务端口
	Mode          string `mapstructure:"mode"`           // Gin运行模式：debug/release/test（debug 即本地开发模式，刷新接口免凭证）
	RefreshSecret string `mapstructure:"refresh_secret"` // 管理刷新接口的共享密钥
}

// StoreConfig 持久化存储配置
type StoreConfig struct {
	Backend         string        `mapstructure:"backend"`           // file / postgres
	DataDir         string        `mapstructure:"data_dir"`          // 文件后端的数据目录
	DSN             string        `mapstructure:"dsn"`               // postgres 后端连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`         // 合并缓存有效期（默认1小时）
	ScraperTTL      time.Duration `mapstructure:"scraper_ttl"`       // 爬虫快照新鲜度阈值（默认24小时，信息性）
}

// ClientConfig 上游HTTP协作方的通用客户端配置
type ClientConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒），须明显小于管理刷新路径的外部时限
	RetryCount int    `mapstructure:"retry_count"` // 重试次数
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// QueryConfig 默认查询位置
type QueryConfig struct {
	CountryCode string  `mapstructure:"country_code"`
	Latitude    float64 `mapstructure:"latitude"`
	Longitude   float64 `mapstructure:"longitude"`
	RadiusMiles float64 `mapstructure:"radius_miles"`
	Region      string  `mapstructure:"region"`
}

// RefreshConfig 进程内定时刷新配置
type RefreshConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"` // cron表达式，如 "*/30 * * * *"
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// applyDefaults 缺省值兜底
func applyDefaults(cfg *Config) {
	if cfg.Store.CacheTTL <= 0 {
		cfg.Store.CacheTTL = time.Hour
	}
	if cfg.Store.ScraperTTL <= 0 {
		cfg.Store.ScraperTTL = 24 * time.Hour
	}
	if cfg.Store.DataDir == "" {
		cfg.Store.DataDir = "./data"
	}
	if cfg.Query.RadiusMiles <= 0 {
		cfg.Query.RadiusMiles = 50
	}
	if cfg.Locator.Timeout <= 0 {
		cfg.Locator.Timeout = 15
	}
	if cfg.Geocode.Timeout <= 0 {
		cfg.Geocode.Timeout = 10
	}
}

// overrideFromEnv 用环境变量覆盖敏感配置（优先级 env > yaml）
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("REFRESH_SECRET"); v != "" {
		cfg.Server.RefreshSecret = v
	}
	if v := os.Getenv("STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("LOCATOR_BASE_URL"); v != "" {
		cfg.Locator.BaseURL = v
	}
	if v := os.Getenv("LOCATOR_PROXY"); v != "" {
		cfg.Locator.Proxy = v
	}
	if v := os.Getenv("GEOCODE_BASE_URL"); v != "" {
		cfg.Geocode.BaseURL = v
	}
}
