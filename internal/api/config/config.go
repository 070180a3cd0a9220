package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量可覆盖同名配置项
func LoadConfig() error {
	// .env 不存在时静默跳过，容器环境直接注入环境变量
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("vibehub")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Check.Interval == "" {
		cfg.Check.Interval = "@every 24h"
	}

	if err := validate(&cfg); err != nil {
		return err
	}

	Cfg = &cfg

	return nil
}

// validate 必填项缺失直接终止启动，可选集成缺失只降级
func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if cfg.GitHub.ClientID == "" || cfg.GitHub.ClientSecret == "" || cfg.GitHub.CallbackURL == "" {
		return errors.New("github oauth client_id/client_secret/callback_url are required")
	}
	return nil
}
