package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Session  SessionConfig  `mapstructure:"session"`
	Check    CheckConfig    `mapstructure:"check"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig 活动流存储配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// LogstashConfig 远程日志配置（可选）
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// GitHubConfig GitHub OAuth 应用配置
type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// SMTPConfig 邮件通知配置（可选，缺失时邮件通道停用）
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// TelegramConfig Telegram Bot 配置（可选，缺失时 Telegram 通道停用）
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

// SessionConfig 会话签名与令牌加密密钥
type SessionConfig struct {
	Secret string `mapstructure:"secret"`
}

// CheckConfig 仓库巡检配置
type CheckConfig struct {
	// Interval cron 表达式，默认 @every 24h
	Interval string `mapstructure:"interval"`
	// RunOnStart 进程启动后是否立即跑一轮
	RunOnStart bool `mapstructure:"run_on_start"`
}
