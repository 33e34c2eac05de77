package dto

// ── 课堂提问模块 DTO ──

// CreateQuestionRequest 创建题目请求
// multiple_choice: Options 2-6 项 + CorrectIndex 指向其一
// true_false: 服务端固定合成 True/False 两项，仅需 CorrectIndex ∈ {0,1}
// short_answer: 不允许携带 Options
type CreateQuestionRequest struct {
	QType        string   `json:"qtype"         binding:"required,oneof=multiple_choice true_false short_answer"`
	Prompt       string   `json:"prompt"        binding:"required,min=1"`
	Points       int      `json:"points"        binding:"omitempty,min=1,max=100"`
	Options      []string `json:"options"       binding:"omitempty,max=6,dive,required"`
	CorrectIndex *int     `json:"correct_index"`
}

// OptionResponse 选项响应
type OptionResponse struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse 题目响应
type QuestionResponse struct {
	ID        string           `json:"id"`
	LectureID string           `json:"lecture_id"`
	QType     string           `json:"qtype"`
	Prompt    string           `json:"prompt"`
	Points    int              `json:"points"`
	IsActive  bool             `json:"is_active"`
	CreatedAt string           `json:"created_at"`
	Options   []OptionResponse `json:"options,omitempty"`
}

// PublishQuestionRequest 发布题目请求
// ExpiresInSeconds 省略时使用默认值；超出边界时贴边收敛
type PublishQuestionRequest struct {
	ExpiresInSeconds *int `json:"expires_in_seconds"`
}

// PublicationResponse 发布实例响应
type PublicationResponse struct {
	ID          string  `json:"id"`
	QuestionID  string  `json:"question_id"`
	LectureID   string  `json:"lecture_id"`
	Status      string  `json:"status"`
	PublishedAt string  `json:"published_at"`
	ExpiresAt   string  `json:"expires_at"`
	ClosedAt    *string `json:"closed_at,omitempty"`
	// Open 以 expires_at 对照当前时间计算；存储的 status 到期后可能仍为 published
	Open bool `json:"open"`
}
