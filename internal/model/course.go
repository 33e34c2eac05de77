package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
