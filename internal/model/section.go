package model

// Section 班级表 — 对应 sections
type Section struct {
	SectionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Grade     string `gorm:"type:varchar(50);not null;default:''"           json:"grade"`
	BaseModel
}

// TableName 指定表名
func (Section) TableName() string { return "sections" }
