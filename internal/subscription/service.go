// Package subscription 负责订阅请求的校验、兴趣标准化与写入。
package subscription

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"hiring-insight/internal/model"
	"hiring-insight/internal/normalize"
)

// Store 定义持久化接口。
type Store interface {
	CreateSubscription(ctx context.Context, sub *model.Subscription) error
}

// Config 控制可用渠道。
type Config struct {
	AllowedChannels []string `yaml:"allowed_channels" json:"allowed_channels"`
}

// Request 表示前端订阅请求。Interests 为感兴趣的技术名，
// 写入前会按技术同义词表折叠为标准名。
type Request struct {
	Email     string   `json:"email" validate:"required,email"`
	Channel   string   `json:"channel"`
	Interests []string `json:"interests"`
}

// Service 负责验证与写入订阅偏好。
type Service struct {
	store    Store
	norm     *normalize.Normalizer
	validate *validator.Validate
	channels map[string]struct{}
}

// NewService 创建订阅服务。
func NewService(store Store, norm *normalize.Normalizer, cfg Config) *Service {
	channelMap := make(map[string]struct{})
	for _, ch := range cfg.AllowedChannels {
		if trimmed := strings.ToLower(strings.TrimSpace(ch)); trimmed != "" {
			channelMap[trimmed] = struct{}{}
		}
	}
	if len(channelMap) == 0 {
		channelMap["email"] = struct{}{}
	}
	return &Service{
		store:    store,
		norm:     norm,
		validate: validator.New(),
		channels: channelMap,
	}
}

// Create 校验请求并写入数据库。兴趣里的噪音词会被丢弃，
// 同义词折叠后重复项只保留一个。
func (s *Service) Create(ctx context.Context, req Request) (model.Subscription, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return model.Subscription{}, fmt.Errorf("invalid request: %w", err)
	}

	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel == "" {
		channel = "email"
	}
	if _, ok := s.channels[channel]; !ok {
		return model.Subscription{}, fmt.Errorf("unsupported channel %s", channel)
	}

	interests := datatypes.JSONMap{}
	for _, raw := range req.Interests {
		name, ok := s.norm.Tech(raw)
		if !ok {
			continue
		}
		interests[name] = true
	}

	sub := model.Subscription{
		Email:     req.Email,
		Channel:   channel,
		Interests: interests,
	}
	if err := s.store.CreateSubscription(ctx, &sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}
