package dto

// ── 班级 / 课程 / 用户基础档案 DTO ──
// 这些是支撑授课绑定校验的最小 CRUD 面

// CreateSectionRequest 创建班级请求
type CreateSectionRequest struct {
	Name  string `json:"name"  binding:"required,min=2,max=100"`
	Grade string `json:"grade" binding:"omitempty,max=50"`
}

// SectionResponse 班级信息响应
type SectionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	CreatedAt string `json:"created_at"`
}

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Code string `json:"code" binding:"required,min=2,max=50"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Name      string  `json:"name"       binding:"required,min=2,max=100"`
	Email     string  `json:"email"      binding:"required,email"`
	Password  string  `json:"password"   binding:"required,min=6,max=72"`
	Role      string  `json:"role"       binding:"required,oneof=student teacher admin"`
	SectionID *string `json:"section_id" binding:"omitempty,uuid"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	Role      string `form:"role"       binding:"omitempty,oneof=student teacher admin"`
	SectionID string `form:"section_id" binding:"omitempty,uuid"`
	PaginationRequest
}
