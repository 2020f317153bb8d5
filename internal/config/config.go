// Package config 负责加载应用配置。配置主体在 YAML 文件里，
// 密钥类字段只从环境变量读取，支持 .env 文件。
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hiring-insight/internal/fetcher"
	"hiring-insight/internal/notifier"
	"hiring-insight/internal/parser"
	"hiring-insight/internal/pipeline"
	"hiring-insight/internal/subscription"
)

// AppConfig 应用配置。
type AppConfig struct {
	Log          LogConfig            `yaml:"log"`
	Server       ServerConfig         `yaml:"server"`
	Database     DatabaseConfig       `yaml:"database"`
	Stats        StatsConfig          `yaml:"stats"`
	Fetcher      fetcher.Config       `yaml:"fetcher"`
	Parser       parser.Config        `yaml:"parser"`
	Pipeline     pipeline.Config      `yaml:"pipeline"`
	Email        notifier.EmailConfig `yaml:"email"`
	Subscription subscription.Config  `yaml:"subscription"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type StatsConfig struct {
	Dir string `yaml:"dir"`
}

// Load 读取 path 指向的 YAML 配置并注入环境变量里的密钥。
// path 为空时依次看 CONFIG_FILE 环境变量和 config.yaml。
// 配置文件不存在不算错误，全部字段走默认值。
func Load(path string) (AppConfig, error) {
	// .env 只是本地开发的便利，缺失直接忽略
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		path = "config.yaml"
	}

	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applySecrets(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/insight.db"
	}
	if cfg.Stats.Dir == "" {
		cfg.Stats.Dir = "data/stats"
	}
}

// applySecrets 把敏感字段从环境变量填进配置。这些字段的 yaml 标签
// 均为 "-"，确保不会被写进配置文件。
func applySecrets(cfg *AppConfig) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Fetcher.Token = token
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		cfg.Email.Password = pass
	}
}
