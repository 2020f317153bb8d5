package notifier

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"hiring-insight/internal/model"
)

func TestLogNotifierWritesPostings(t *testing.T) {
	var buf strings.Builder
	n := NewLogNotifier(zerolog.New(&buf))

	postings := []model.JobPosting{{
		ID:        "100-11",
		YearMonth: "2024-05",
		Company:   "甲公司",
		Location:  []string{"北京"},
	}}

	if err := n.Notify(context.Background(), postings); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "100-11") || !strings.Contains(logged, "甲公司") {
		t.Fatalf("log output missing posting info: %s", logged)
	}
}

func TestLogNotifierSkipsEmpty(t *testing.T) {
	var buf strings.Builder
	n := NewLogNotifier(zerolog.New(&buf))

	if err := n.Notify(context.Background(), nil); err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %q", buf.String())
	}
}
