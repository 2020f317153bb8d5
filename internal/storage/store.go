package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"hiring-insight/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 封装 SQLite 数据库访问，负责期次、评论、职位记录与订阅的增删查。
type Store struct {
	db *gorm.DB
}

// CommentUpsertResult 表示评论写入结果。
type CommentUpsertResult struct {
	Created int
}

// PostingUpsertResult 表示职位记录写入结果。
type PostingUpsertResult struct {
	Created     int
	NewPostings []model.JobPosting
}

// NewStore 创建 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&model.Issue{}, &model.Comment{}, &model.Posting{}, &model.Subscription{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// UpsertIssues 写入期次列表，已有主键则更新元数据。
func (s *Store) UpsertIssues(ctx context.Context, issues []model.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"year_month",
			"body",
			"total_comment_count",
			"fetched_at",
			"updated_at",
		}),
	}).Create(&issues)
	if tx.Error != nil {
		return fmt.Errorf("upsert issues: %w", tx.Error)
	}
	return nil
}

// GetIssue 根据期号获取期次。
func (s *Store) GetIssue(ctx context.Context, number int) (*model.Issue, error) {
	var issue model.Issue
	if err := s.db.WithContext(ctx).First(&issue, "number = ?", number).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return &issue, nil
}

// ListIssues 返回按期号升序的全部期次。
func (s *Store) ListIssues(ctx context.Context) ([]model.Issue, error) {
	var issues []model.Issue
	if err := s.db.WithContext(ctx).Order("number ASC").Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// UpsertComments 写入评论列表，按评论 ID 去重，返回新增数量。
// 冲突时只更新正文与折叠标记，解析状态不回退，保证增量解析可续。
func (s *Store) UpsertComments(ctx context.Context, comments []model.Comment) (CommentUpsertResult, error) {
	res := CommentUpsertResult{}
	if len(comments) == 0 {
		return res, nil
	}

	ids := make([]int64, 0, len(comments))
	for i := range comments {
		if comments[i].Status == "" {
			comments[i].Status = model.CommentStatusPending
		}
		ids = append(ids, comments[i].ID)
	}

	var existing []int64
	if err := s.db.WithContext(ctx).Model(&model.Comment{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return res, fmt.Errorf("query existing comment ids: %w", err)
	}

	existingSet := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := existingSet[id]; !ok {
			res.Created++
			existingSet[id] = struct{}{}
		}
	}

	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "body_text", "minimized", "updated_at"}),
	}).Create(&comments)
	if tx.Error != nil {
		return res, fmt.Errorf("upsert comments: %w", tx.Error)
	}

	return res, nil
}

// ListPendingComments 返回待解析的评论：pending 与 failed，且未被折叠。
// 按评论时间升序，保证批量提示词里的顺序稳定。
func (s *Store) ListPendingComments(ctx context.Context, issueNumber int) ([]model.Comment, error) {
	var comments []model.Comment
	if err := s.db.WithContext(ctx).
		Where("issue_number = ? AND status IN ? AND minimized = ?",
			issueNumber,
			[]model.CommentStatus{model.CommentStatusPending, model.CommentStatusFailed},
			false).
		Order("commented_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	return comments, nil
}

// UpdateCommentStatus 更新单条评论的解析状态与原因。
func (s *Store) UpdateCommentStatus(ctx context.Context, id int64, status model.CommentStatus, reason string) error {
	tx := s.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Updates(map[string]any{
		"status": status,
		"reason": reason,
	})
	if tx.Error != nil {
		return fmt.Errorf("update comment status: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("update comment status: id %d not found", id)
	}
	return nil
}

// CountCommentsByStatus 返回一期评论在各解析状态下的数量。
func (s *Store) CountCommentsByStatus(ctx context.Context, issueNumber int) (map[model.CommentStatus]int64, error) {
	type row struct {
		Status model.CommentStatus
		Total  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Select("status, COUNT(*) AS total").
		Where("issue_number = ?", issueNumber).
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("count comments by status: %w", err)
	}
	counts := make(map[model.CommentStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// UpsertPostings 写入职位记录，已有主键则更新，返回新增数量与新增记录。
func (s *Store) UpsertPostings(ctx context.Context, postings []model.JobPosting) (PostingUpsertResult, error) {
	res := PostingUpsertResult{}
	if len(postings) == 0 {
		return res, nil
	}

	rows := make([]model.Posting, 0, len(postings))
	ids := make([]string, 0, len(postings))
	for _, p := range postings {
		row, err := model.NewPosting(p)
		if err != nil {
			return res, fmt.Errorf("convert posting %s: %w", p.ID, err)
		}
		rows = append(rows, row)
		ids = append(ids, p.ID)
	}

	var existing []string
	if err := s.db.WithContext(ctx).Model(&model.Posting{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return res, fmt.Errorf("query existing posting ids: %w", err)
	}

	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}
	for i, id := range ids {
		if _, ok := existingSet[id]; !ok {
			res.Created++
			res.NewPostings = append(res.NewPostings, postings[i])
			existingSet[id] = struct{}{}
		}
	}

	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"author",
			"raw_content",
			"company",
			"company_type",
			"positions",
			"location",
			"is_remote",
			"is_overseas",
			"salary_range",
			"tech_stack",
			"experience_req",
			"education_req",
			"contact",
			"updated_at",
		}),
	}).Create(&rows)
	if tx.Error != nil {
		return res, fmt.Errorf("upsert postings: %w", tx.Error)
	}

	return res, nil
}

// ListPostingsByIssue 返回一期的全部职位记录，按主键升序。
func (s *Store) ListPostingsByIssue(ctx context.Context, issueNumber int) ([]model.JobPosting, error) {
	var rows []model.Posting
	if err := s.db.WithContext(ctx).
		Where("issue_number = ?", issueNumber).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	postings := make([]model.JobPosting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, row.ToJobPosting())
	}
	return postings, nil
}

// ListAllPostings 返回全量职位记录，按主键升序，供聚合引擎消费。
func (s *Store) ListAllPostings(ctx context.Context) ([]model.JobPosting, error) {
	var rows []model.Posting
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list all postings: %w", err)
	}
	postings := make([]model.JobPosting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, row.ToJobPosting())
	}
	return postings, nil
}

// ListPostingsPage 分页返回职位记录，按主键降序，新期次在前。
func (s *Store) ListPostingsPage(ctx context.Context, limit, offset int) ([]model.JobPosting, error) {
	var rows []model.Posting
	if err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list postings page: %w", err)
	}
	postings := make([]model.JobPosting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, row.ToJobPosting())
	}
	return postings, nil
}

// CountPostings 返回职位记录总数。
func (s *Store) CountPostings(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Posting{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count postings: %w", err)
	}
	return total, nil
}

// ListSkippedComments 返回一期被跳过的评论。
func (s *Store) ListSkippedComments(ctx context.Context, issueNumber int) ([]model.Comment, error) {
	return s.listCommentsByStatus(ctx, issueNumber, model.CommentStatusSkipped)
}

// ListFailedComments 返回一期解析失败的评论。
func (s *Store) ListFailedComments(ctx context.Context, issueNumber int) ([]model.Comment, error) {
	return s.listCommentsByStatus(ctx, issueNumber, model.CommentStatusFailed)
}

func (s *Store) listCommentsByStatus(ctx context.Context, issueNumber int, status model.CommentStatus) ([]model.Comment, error) {
	var comments []model.Comment
	if err := s.db.WithContext(ctx).
		Where("issue_number = ? AND status = ?", issueNumber, status).
		Order("commented_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments by status: %w", err)
	}
	return comments, nil
}

// CreateSubscription 新增订阅。
func (s *Store) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// ListSubscriptions 返回所有订阅记录。
func (s *Store) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}
