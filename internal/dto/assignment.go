package dto

// ── 授课绑定模块 DTO ──

// CreateAssignmentRequest 创建授课绑定请求
// TeacherID 省略时默认为调用者本人（管理员可代教师创建）
type CreateAssignmentRequest struct {
	SectionID       string `json:"section_id"       binding:"required,uuid"`
	CourseID        string `json:"course_id"        binding:"required,uuid"`
	TeacherID       string `json:"teacher_id"       binding:"omitempty,uuid"`
	FirstStartsAt   string `json:"first_starts_at"  binding:"required"` // RFC3339
	DurationMinutes *int   `json:"duration_minutes"`
	TotalLectures   int    `json:"total_lectures"   binding:"required"`
}

// UpdateAssignmentRequest 更新授课绑定请求（仅启停）
type UpdateAssignmentRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AssignmentListRequest 授课绑定列表请求
type AssignmentListRequest struct {
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	SectionID string `form:"section_id" binding:"omitempty,uuid"`
	PaginationRequest
}

// AssignmentResponse 授课绑定响应
type AssignmentResponse struct {
	ID              string        `json:"id"`
	SectionID       string        `json:"section_id"`
	CourseID        string        `json:"course_id"`
	TeacherID       string        `json:"teacher_id"`
	FirstStartsAt   string        `json:"first_starts_at"`
	DurationMinutes int           `json:"duration_minutes"`
	TotalLectures   int           `json:"total_lectures"`
	IsActive        bool          `json:"is_active"`
	CreatedAt       string        `json:"created_at"`
	Section         *SectionBrief `json:"section,omitempty"`
	Course          *CourseBrief  `json:"course,omitempty"`
	Teacher         *UserBrief    `json:"teacher,omitempty"`
	// GeneratedLectures 创建时返回实际生成的课次数（教学日策略可能产生跳过）
	GeneratedLectures int `json:"generated_lectures,omitempty"`
}

// ConflictDetail 排课冲突明细（放入 409 响应的 errors 字段）
type ConflictDetail struct {
	Type       string `json:"type"` // teacher | section
	SequenceNo int    `json:"sequence_no"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
}
