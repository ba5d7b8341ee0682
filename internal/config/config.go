package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 服务全部配置
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`

	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Supplier SupplierConfig `mapstructure:"supplier"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Stock    StockConfig    `mapstructure:"stock"`
	Tasks    TasksConfig    `mapstructure:"tasks"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres | sqlite
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
}

// EndpointConfig 单个供应商接口的 method + path
type EndpointConfig struct {
	Method string `mapstructure:"method"`
	Path   string `mapstructure:"path"`
}

// SupplierConfig CJ 供应商配置
type SupplierConfig struct {
	BaseURL   string                    `mapstructure:"base_url"`
	APIKey    string                    `mapstructure:"api_key"`
	AuthMode  string                    `mapstructure:"auth_mode"` // static | token
	Timeout   time.Duration             `mapstructure:"timeout"`
	ProxyURL  string                    `mapstructure:"proxy_url"`
	Debug     bool                      `mapstructure:"debug"`
	Endpoints map[string]EndpointConfig `mapstructure:"endpoints"`
}

// PricingConfig 定价配置
type PricingConfig struct {
	DefaultMarkup float64 `mapstructure:"default_markup"`
	DefaultBadge  string  `mapstructure:"default_badge"`
}

// StockConfig 库存对账配置
type StockConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	AutoApply    bool          `mapstructure:"auto_apply"`
	SyncCooldown time.Duration `mapstructure:"sync_cooldown"`
	BatchLimit   int           `mapstructure:"batch_limit"`
}

// TasksConfig 定时任务配置
type TasksConfig struct {
	TokenEnabled bool   `mapstructure:"token_enabled"`
	TokenSpec    string `mapstructure:"token_spec"`
	StockEnabled bool   `mapstructure:"stock_enabled"`
	StockSpec    string `mapstructure:"stock_spec"`
}

// Load 加载配置：配置文件（可选）+ 环境变量覆盖
// path 为空时按默认目录查找 config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 没有配置文件时只使用默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 基础校验
func (c *Config) Validate() error {
	switch c.Supplier.AuthMode {
	case "static", "token":
	default:
		return fmt.Errorf("不支持的 supplier.auth_mode: %q", c.Supplier.AuthMode)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的 database.driver: %q", c.Database.Driver)
	}
	if c.Pricing.DefaultMarkup <= 0 {
		return fmt.Errorf("pricing.default_markup 必须大于 0")
	}
	return nil
}

// setDefaults 默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "primepet-supply")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=primepet port=5432 sslmode=disable")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("supplier.base_url", "https://developers.cjdropshipping.com/api2.0/v1")
	v.SetDefault("supplier.auth_mode", "static")
	v.SetDefault("supplier.timeout", "30s")
	v.SetDefault("supplier.debug", false)

	v.SetDefault("pricing.default_markup", 1.5)
	v.SetDefault("pricing.default_badge", "NEU")

	v.SetDefault("stock.interval", "200ms")
	v.SetDefault("stock.auto_apply", false)
	v.SetDefault("stock.sync_cooldown", "2m")
	v.SetDefault("stock.batch_limit", 500)

	v.SetDefault("tasks.token_enabled", true)
	v.SetDefault("tasks.token_spec", "0 0/40 * * * *")
	v.SetDefault("tasks.stock_enabled", false)
	v.SetDefault("tasks.stock_spec", "0 0 */6 * * *")
}

// bindEnv 兼容历史环境变量名
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("supplier.api_key", "CJ_API_KEY", "SUPPLIER_API_KEY")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
}
