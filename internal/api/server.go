// Package api 暴露统计文档、职位列表与订阅的 HTTP 接口。
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"hiring-insight/internal/model"
	"hiring-insight/internal/output"
	"hiring-insight/internal/pipeline"
	"hiring-insight/internal/subscription"
)

// Store 抽象职位读取接口。
type Store interface {
	ListPostingsPage(ctx context.Context, limit, offset int) ([]model.JobPosting, error)
	CountPostings(ctx context.Context) (int64, error)
}

// Runner 抽象一轮流水线执行。
type Runner interface {
	RunOnce(ctx context.Context) (pipeline.Summary, error)
}

// SubscriptionService 处理订阅创建。
type SubscriptionService interface {
	Create(ctx context.Context, req subscription.Request) (model.Subscription, error)
}

// statsRoutes 把 URL 尾段映射到统计文档文件名。
var statsRoutes = map[string]string{
	"overview": output.OverviewFile,
	"monthly":  output.MonthlyFile,
	"city":     output.CityFile,
	"tech":     output.TechFile,
	"company":  output.CompanyFile,
	"trend":    output.TrendFile,
}

// refreshResponse 汇总一轮刷新的结果。
type refreshResponse struct {
	Issues        int `json:"issues"`
	NewComments   int `json:"newComments"`
	Parsed        int `json:"parsed"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
	NewPostings   int `json:"newPostings"`
	TotalPostings int `json:"totalPostings"`
}

// NewHandler 构造 HTTP 多路复用器。statsDir 为统计文档所在目录。
func NewHandler(statsDir string, store Store, runner Runner, subs SubscriptionService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	for name, file := range statsRoutes {
		path := filepath.Join(statsDir, file)
		mux.HandleFunc("/api/stats/"+name, func(w http.ResponseWriter, r *http.Request) {
			serveStatsFile(w, path)
		})
	}

	mux.HandleFunc("/api/postings", func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				if v > 100 {
					v = 100
				}
				limit = v
			}
		}
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v
			}
		}
		offset := (page - 1) * limit
		// 多取一条用于判断是否还有下一页。
		postings, err := store.ListPostingsPage(r.Context(), limit+1, offset)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		total, err := store.CountPostings(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		hasMore := false
		if len(postings) > limit {
			hasMore = true
			postings = postings[:limit]
		}
		w.Header().Set("X-Page", strconv.Itoa(page))
		w.Header().Set("X-Limit", strconv.Itoa(limit))
		w.Header().Set("X-Has-More", strconv.FormatBool(hasMore))
		w.Header().Set("X-Total", strconv.FormatInt(total, 10))
		writeJSON(w, http.StatusOK, postings)
	})

	mux.HandleFunc("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		summary, err := runner.RunOnce(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{
			Issues:        summary.Issues,
			NewComments:   summary.NewComments,
			Parsed:        summary.Parsed,
			Skipped:       summary.Skipped,
			Failed:        summary.Failed,
			NewPostings:   len(summary.NewPostings),
			TotalPostings: summary.TotalPostings,
		})
	})

	mux.HandleFunc("/api/subscriptions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if subs == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "subscription disabled"})
			return
		}
		var req subscription.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		sub, err := subs.Create(r.Context(), req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"status": "ok", "email": sub.Email})
	})

	webFS := http.FileServer(http.Dir("web"))
	mux.Handle("/static/", http.StripPrefix("/static/", webFS))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			webFS.ServeHTTP(w, r)
			return
		}
		path := filepath.Clean("web/index.html")
		data, err := os.ReadFile(path)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]string{"message": "hiring insight api"})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})

	return mux
}

// serveStatsFile 直接回写预计算好的 JSON 文档，文件缺失说明还没跑过聚合。
func serveStatsFile(w http.ResponseWriter, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "stats not generated yet"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
