package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// CommentStatus 评论解析状态。
type CommentStatus string

const (
	CommentStatusPending CommentStatus = "pending"
	CommentStatusParsed  CommentStatus = "parsed"
	CommentStatusSkipped CommentStatus = "skipped"
	CommentStatusFailed  CommentStatus = "failed"
)

// Issue 一期「谁在招人」Issue。
// YearMonth 在抓取时从标题解析，是全部时间序列的唯一分桶键。
type Issue struct {
	Number            int       `gorm:"primaryKey" json:"number"`
	Title             string    `json:"title"`
	YearMonth         string    `gorm:"index" json:"year_month"`
	Body              string    `json:"body"`
	TotalCommentCount int       `json:"total_comment_count"`
	FetchedAt         time.Time `json:"fetched_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Comment 原始评论及其解析状态。主键为 GitHub 评论的 databaseId。
// failed 状态的评论会在下一次解析时自动重试。
type Comment struct {
	ID          int64         `gorm:"primaryKey" json:"id"`
	IssueNumber int           `gorm:"index" json:"issue_number"`
	Author      string        `json:"author"`
	Body        string        `json:"body"`
	BodyText    string        `json:"body_text"`
	CommentedAt time.Time     `json:"commented_at"`
	Minimized   bool          `json:"minimized"`
	Status      CommentStatus `gorm:"index;default:pending" json:"status"`
	Reason      string        `json:"reason"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Posting 持久化的结构化招聘记录。主键与 JobPosting.ID 一致
// （issueNumber-commentId），保证同一评论重复摄入不会产生重复记录。
type Posting struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	IssueNumber   int            `gorm:"index" json:"issue_number"`
	CommentID     int64          `gorm:"index" json:"comment_id"`
	YearMonth     string         `gorm:"index" json:"year_month"`
	Author        string         `json:"author"`
	RawContent    string         `json:"raw_content"`
	Company       string         `json:"company"`
	CompanyType   string         `json:"company_type"`
	Positions     datatypes.JSON `json:"positions"`
	Location      datatypes.JSON `json:"location"`
	IsRemote      bool           `json:"is_remote"`
	IsOverseas    bool           `json:"is_overseas"`
	SalaryRange   string         `json:"salary_range"`
	TechStack     datatypes.JSON `json:"tech_stack"`
	ExperienceReq string         `json:"experience_req"`
	EducationReq  string         `json:"education_req"`
	Contact       string         `json:"contact"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Subscription 订阅偏好，Interests 为标准化技术名集合。
type Subscription struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string            `gorm:"index" json:"email"`
	Channel   string            `json:"channel"`
	Interests datatypes.JSONMap `json:"interests"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewPosting 将 JobPosting 转换为持久化实体。
func NewPosting(p JobPosting) (Posting, error) {
	positions, err := json.Marshal(p.Positions)
	if err != nil {
		return Posting{}, fmt.Errorf("marshal positions: %w", err)
	}
	location, err := json.Marshal(p.Location)
	if err != nil {
		return Posting{}, fmt.Errorf("marshal location: %w", err)
	}
	techStack, err := json.Marshal(p.TechStack)
	if err != nil {
		return Posting{}, fmt.Errorf("marshal tech stack: %w", err)
	}
	return Posting{
		ID:            p.ID,
		IssueNumber:   p.IssueNumber,
		CommentID:     p.CommentID,
		YearMonth:     p.YearMonth,
		Author:        p.Author,
		RawContent:    p.RawContent,
		Company:       p.Company,
		CompanyType:   p.CompanyType,
		Positions:     positions,
		Location:      location,
		IsRemote:      p.IsRemote,
		IsOverseas:    p.IsOverseas,
		SalaryRange:   p.SalaryRange,
		TechStack:     techStack,
		ExperienceReq: p.ExperienceReq,
		EducationReq:  p.EducationReq,
		Contact:       p.Contact,
	}, nil
}

// ToJobPosting 还原为聚合引擎消费的记录。JSON 列损坏时对应字段置空，
// 不影响其余字段。
func (p Posting) ToJobPosting() JobPosting {
	var positions []Position
	if len(p.Positions) > 0 {
		_ = json.Unmarshal(p.Positions, &positions)
	}
	var location []string
	if len(p.Location) > 0 {
		_ = json.Unmarshal(p.Location, &location)
	}
	var techStack []string
	if len(p.TechStack) > 0 {
		_ = json.Unmarshal(p.TechStack, &techStack)
	}
	return JobPosting{
		ID:            p.ID,
		IssueNumber:   p.IssueNumber,
		CommentID:     p.CommentID,
		YearMonth:     p.YearMonth,
		Author:        p.Author,
		RawContent:    p.RawContent,
		Company:       p.Company,
		CompanyType:   p.CompanyType,
		Positions:     positions,
		Location:      location,
		IsRemote:      p.IsRemote,
		IsOverseas:    p.IsOverseas,
		SalaryRange:   p.SalaryRange,
		TechStack:     techStack,
		ExperienceReq: p.ExperienceReq,
		EducationReq:  p.EducationReq,
		Contact:       p.Contact,
	}
}
