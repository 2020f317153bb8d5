package notifier

import (
	"context"
	"fmt"
	"strings"

	"hiring-insight/internal/model"
)

// SubscriptionStore 定义订阅读取接口。
type SubscriptionStore interface {
	ListSubscriptions(ctx context.Context) ([]model.Subscription, error)
}

// postingNotifier 提供统一通知接口。
type postingNotifier interface {
	Notify(ctx context.Context, postings []model.JobPosting) error
}

// SubscriptionNotifier 按订阅者的技术偏好过滤后逐个推送。
type SubscriptionNotifier struct {
	store    SubscriptionStore
	emailCfg EmailConfig
	sender   EmailSender
	fallback postingNotifier
}

// NewSubscriptionNotifier 创建实例。
func NewSubscriptionNotifier(store SubscriptionStore, cfg EmailConfig, sender EmailSender, fallback postingNotifier) *SubscriptionNotifier {
	return &SubscriptionNotifier{
		store:    store,
		emailCfg: cfg,
		sender:   sender,
		fallback: fallback,
	}
}

// Notify 根据订阅过滤并发送消息。无订阅者时退回 fallback。
func (n *SubscriptionNotifier) Notify(ctx context.Context, postings []model.JobPosting) error {
	if len(postings) == 0 || n.store == nil {
		return nil
	}

	subs, err := n.store.ListSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		if n.fallback != nil {
			return n.fallback.Notify(ctx, postings)
		}
		return nil
	}

	for _, sub := range subs {
		matches := filterByInterests(sub, postings)
		if len(matches) == 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(sub.Channel)) {
		case "email", "":
			cfg := n.emailCfg
			cfg.To = []string{sub.Email}
			email := NewEmailNotifier(cfg, n.sender)
			if err := email.Notify(ctx, matches); err != nil {
				return err
			}
		default:
			continue
		}
	}

	return nil
}

// filterByInterests 保留技术栈与订阅兴趣有交集的记录。
// 兴趣为空表示订阅全部。
func filterByInterests(sub model.Subscription, postings []model.JobPosting) []model.JobPosting {
	if len(sub.Interests) == 0 {
		return postings
	}
	filtered := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if postingMatches(p, sub.Interests) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func postingMatches(p model.JobPosting, interests map[string]any) bool {
	for _, tech := range p.TechStack {
		if isTruthy(interests[tech]) {
			return true
		}
	}
	return false
}

func isTruthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.TrimSpace(strings.ToLower(val)) == "true"
	case float64:
		return val != 0
	default:
		return val != nil
	}
}
