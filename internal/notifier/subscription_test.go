package notifier

import (
	"context"
	"strings"
	"testing"

	"hiring-insight/internal/model"

	"gorm.io/datatypes"
)

func TestSubscriptionNotifierFiltersByInterests(t *testing.T) {
	t.Parallel()

	store := &stubSubscriptionStore{
		subs: []model.Subscription{
			{ID: 1, Email: "go@example.com", Channel: "email", Interests: datatypes.JSONMap{"Go": true}},
			{ID: 2, Email: "rust@example.com", Channel: "email", Interests: datatypes.JSONMap{"Rust": true}},
		},
	}

	sender := &stubSender{}
	cfg := EmailConfig{From: "from@example.com", Host: "smtp"}
	n := NewSubscriptionNotifier(store, cfg, sender, nil)

	postings := []model.JobPosting{
		{ID: "100-1", Company: "甲公司", TechStack: []string{"Go", "PostgreSQL"}},
		{ID: "100-2", Company: "乙公司", TechStack: []string{"React"}},
	}

	if err := n.Notify(context.Background(), postings); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	// 只有 Go 订阅者命中，Rust 订阅者无匹配不发信
	if sender.calls != 1 {
		t.Fatalf("expected 1 email, got %d", sender.calls)
	}
	if len(sender.lastTo) != 1 || sender.lastTo[0] != "go@example.com" {
		t.Fatalf("unexpected recipient: %v", sender.lastTo)
	}
	if !strings.Contains(sender.lastBody, "甲公司") || strings.Contains(sender.lastBody, "乙公司") {
		t.Fatalf("unexpected body: %s", sender.lastBody)
	}
}

func TestSubscriptionNotifierEmptyInterestsGetsAll(t *testing.T) {
	t.Parallel()

	store := &stubSubscriptionStore{
		subs: []model.Subscription{
			{ID: 1, Email: "all@example.com", Channel: "email"},
		},
	}
	sender := &stubSender{}
	n := NewSubscriptionNotifier(store, EmailConfig{From: "from@example.com"}, sender, nil)

	postings := []model.JobPosting{
		{ID: "100-1", Company: "甲公司"},
		{ID: "100-2", Company: "乙公司"},
	}
	if err := n.Notify(context.Background(), postings); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("expected 1 email, got %d", sender.calls)
	}
	if !strings.Contains(sender.lastBody, "甲公司") || !strings.Contains(sender.lastBody, "乙公司") {
		t.Fatalf("expected all postings in body, got %s", sender.lastBody)
	}
}

func TestSubscriptionNotifierIgnoresUnknownChannel(t *testing.T) {
	t.Parallel()

	store := &stubSubscriptionStore{
		subs: []model.Subscription{
			{ID: 1, Email: "sms@example.com", Channel: "sms", Interests: datatypes.JSONMap{"Go": true}},
		},
	}
	sender := &stubSender{}
	n := NewSubscriptionNotifier(store, EmailConfig{}, sender, nil)

	postings := []model.JobPosting{{ID: "100-1", TechStack: []string{"Go"}}}
	if err := n.Notify(context.Background(), postings); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("expected unknown channel ignored, got %d sends", sender.calls)
	}
}

func TestSubscriptionNotifierFallsBackWhenNoSubscriptions(t *testing.T) {
	t.Parallel()

	store := &stubSubscriptionStore{}
	fallback := &stubPostingNotifier{}

	n := NewSubscriptionNotifier(store, EmailConfig{}, nil, fallback)

	if err := n.Notify(context.Background(), []model.JobPosting{{ID: "only"}}); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if fallback.calls == 0 {
		t.Fatalf("expected fallback notifier to be invoked")
	}
}

type stubSubscriptionStore struct {
	subs []model.Subscription
}

func (s *stubSubscriptionStore) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	return s.subs, nil
}

type stubPostingNotifier struct {
	calls int
}

func (s *stubPostingNotifier) Notify(ctx context.Context, postings []model.JobPosting) error {
	s.calls++
	return nil
}
