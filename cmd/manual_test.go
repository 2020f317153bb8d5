package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"hiring-insight/internal/config"
	"hiring-insight/internal/dict"
	"hiring-insight/internal/model"
	"hiring-insight/internal/normalize"
	"hiring-insight/internal/output"
	"hiring-insight/internal/pipeline"
	"hiring-insight/internal/stats"
)

func TestRunOnceManual(t *testing.T) {
	t.Parallel()

	stub := &stubPipeline{summary: pipeline.Summary{Parsed: 3}}
	builds := 0

	summary, err := runOnceManual(context.Background(), config.AppConfig{}, zerolog.Nop(),
		func(config.AppConfig, zerolog.Logger) (appDeps, func(), error) {
			builds++
			return appDeps{pipe: stub}, func() {}, nil
		})
	if err != nil {
		t.Fatalf("runOnceManual error: %v", err)
	}
	if summary.Parsed != 3 {
		t.Fatalf("expected parsed=3, got %d", summary.Parsed)
	}
	if builds != 1 {
		t.Fatalf("expected builder called once, got %d", builds)
	}
	if stub.runOnceCalls != 1 {
		t.Fatalf("expected RunOnce called once, got %d", stub.runOnceCalls)
	}
}

func TestRunOnceManualBuilderError(t *testing.T) {
	t.Parallel()

	_, err := runOnceManual(context.Background(), config.AppConfig{}, zerolog.Nop(),
		func(config.AppConfig, zerolog.Logger) (appDeps, func(), error) {
			return appDeps{}, func() {}, errors.New("build fail")
		})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRunAggregateFromStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	deps := appDeps{
		postings: &stubPostingSource{postings: []model.JobPosting{
			{ID: "100-1", YearMonth: "2024-05", Company: "甲公司"},
		}},
		agg:    stats.New(normalize.New(dict.Default())),
		writer: output.NewWriter(dir, zerolog.Nop()),
	}

	total, err := runAggregate(context.Background(), deps, "", zerolog.Nop())
	if err != nil {
		t.Fatalf("runAggregate error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 posting aggregated, got %d", total)
	}
	assertFileExists(t, filepath.Join(dir, output.OverviewFile))
}

func TestRunAggregateFromFiles(t *testing.T) {
	t.Parallel()

	parsedDir := t.TempDir()
	statsDir := t.TempDir()
	writeParsedIssue(t, parsedDir, "100.json", model.ParsedIssue{
		IssueNumber: 100,
		YearMonth:   "2024-05",
		Postings: []model.JobPosting{
			{ID: "100-1", YearMonth: "2024-05", Company: "乙公司"},
		},
	})

	deps := appDeps{
		// 从文件装载时不应触碰存储
		postings: &stubPostingSource{err: errors.New("store should not be used")},
		agg:      stats.New(normalize.New(dict.Default())),
		writer:   output.NewWriter(statsDir, zerolog.Nop()),
	}

	total, err := runAggregate(context.Background(), deps, parsedDir, zerolog.Nop())
	if err != nil {
		t.Fatalf("runAggregate error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 posting loaded from files, got %d", total)
	}
	assertFileExists(t, filepath.Join(statsDir, output.TrendFile))
}

func writeParsedIssue(t *testing.T, dir, name string, doc model.ParsedIssue) {
	t.Helper()
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

// --- stubs ---

type stubPipeline struct {
	summary      pipeline.Summary
	runOnceCalls int
}

func (s *stubPipeline) Start(ctx context.Context) error { return nil }

func (s *stubPipeline) RunOnce(ctx context.Context) (pipeline.Summary, error) {
	s.runOnceCalls++
	return s.summary, nil
}

func (s *stubPipeline) Fetch(ctx context.Context) (pipeline.Summary, error) {
	return s.summary, nil
}

func (s *stubPipeline) Parse(ctx context.Context) (pipeline.Summary, error) {
	return s.summary, nil
}

type stubPostingSource struct {
	postings []model.JobPosting
	err      error
}

func (s *stubPostingSource) ListAllPostings(ctx context.Context) ([]model.JobPosting, error) {
	return s.postings, s.err
}
