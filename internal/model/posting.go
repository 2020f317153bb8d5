package model

// JobPosting 表示从「谁在招人」评论中提取的一条结构化招聘记录。
// 由解析层一次性创建，之后只读；聚合引擎把它当作已去重的输入集合。
type JobPosting struct {
	ID            string     `json:"id"`
	IssueNumber   int        `json:"issueNumber"`
	CommentID     int64      `json:"commentId"`
	YearMonth     string     `json:"yearMonth"`
	Author        string     `json:"author"`
	RawContent    string     `json:"rawContent"`
	Company       string     `json:"company"`
	CompanyType   string     `json:"companyType,omitempty"`
	Positions     []Position `json:"positions"`
	Location      []string   `json:"location"`
	IsRemote      bool       `json:"isRemote"`
	IsOverseas    bool       `json:"isOverseas"`
	SalaryRange   string     `json:"salaryRange,omitempty"`
	TechStack     []string   `json:"techStack"`
	ExperienceReq string     `json:"experienceReq,omitempty"`
	EducationReq  string     `json:"educationReq,omitempty"`
	Contact       string     `json:"contact,omitempty"`
}

// Position 一条招聘记录中的单个岗位。category 为原始文本，
// 聚合前需要经过分类归一化。
type Position struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// ParsedIssue 对应 data/parsed/{issueNumber}.json 的文件结构。
type ParsedIssue struct {
	IssueNumber int              `json:"issueNumber"`
	YearMonth   string           `json:"yearMonth"`
	Postings    []JobPosting     `json:"postings"`
	Skipped     []SkippedComment `json:"skipped"`
	Errors      []CommentError   `json:"errors"`
}

// SkippedComment 记录被判定为非招聘内容的评论及原因。
type SkippedComment struct {
	CommentID int64  `json:"commentId"`
	Author    string `json:"author"`
	Reason    string `json:"reason"`
}

// CommentError 记录解析失败、等待下次重试的评论。
type CommentError struct {
	CommentID int64  `json:"commentId"`
	Error     string `json:"error"`
}
