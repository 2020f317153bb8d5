package subscription

import (
	"context"
	"errors"
	"testing"

	"hiring-insight/internal/dict"
	"hiring-insight/internal/model"
	"hiring-insight/internal/normalize"
)

func newTestService(store Store) *Service {
	return NewService(store, normalize.New(dict.Default()), Config{AllowedChannels: []string{"email"}})
}

func TestServiceValidatesAndCreatesSubscription(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := newTestService(store)

	req := Request{Email: "user@example.com", Channel: "email", Interests: []string{"react", "golang"}}
	sub, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected store Create called once, got %d", store.calls)
	}
	if sub.Email != req.Email || sub.Channel != req.Channel {
		t.Fatalf("unexpected subscription returned: %+v", sub)
	}
	// 兴趣按同义词表折叠为标准名
	if sub.Interests["React"] != true || sub.Interests["Go"] != true {
		t.Fatalf("interests not canonicalized: %v", sub.Interests)
	}
	if _, ok := sub.Interests["react"]; ok {
		t.Fatalf("raw interest leaked: %v", sub.Interests)
	}
}

func TestServiceDropsNoiseInterests(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := newTestService(store)

	sub, err := svc.Create(context.Background(), Request{
		Email:     "user@example.com",
		Interests: []string{"前端", "React", ""},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(sub.Interests) != 1 || sub.Interests["React"] != true {
		t.Fatalf("expected only React kept, got %v", sub.Interests)
	}
}

func TestServiceRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	svc := newTestService(store)

	cases := []Request{
		{Email: "", Channel: "email"},
		{Email: "bad", Channel: "email"},
		{Email: "user@example.com", Channel: "sms"},
	}
	for i, req := range cases {
		if _, err := svc.Create(context.Background(), req); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if store.calls != 0 {
		t.Fatalf("expected store not called on invalid input")
	}
}

func TestServicePropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := &stubStore{err: errors.New("boom")}
	svc := newTestService(store)

	_, err := svc.Create(context.Background(), Request{Email: "user@example.com", Channel: "email"})
	if err == nil {
		t.Fatalf("expected error when store fails")
	}
}

type stubStore struct {
	calls int
	err   error
}

func (s *stubStore) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	sub.ID = 1
	return nil
}
