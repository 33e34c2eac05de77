package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classpulse/backend/internal/service"
	apperrors "classpulse/backend/pkg/errors"
	"classpulse/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Directory  *DirectoryHandler
	Assignment *AssignmentHandler
	Lecture    *LectureHandler
	Question   *QuestionHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, logger),
		Directory:  NewDirectoryHandler(svc.Directory, logger),
		Assignment: NewAssignmentHandler(svc.Assignment, svc.Calendar, logger),
		Lecture:    NewLectureHandler(svc.Lecture, svc.Attendance, logger),
		Question:   NewQuestionHandler(svc.Question, logger),
		Export:     NewExportHandler(svc.Export, logger),
	}
}

// respondServiceError 业务错误 → HTTP 状态码的统一映射
// 未识别的错误一律 500，不向终端用户泄露内部细节
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var conflictErr *service.ScheduleConflictError
	if errors.As(err, &conflictErr) {
		response.Conflict(c, conflictErr.Error(), conflictErr.Details)
		return
	}

	switch {
	// 404 资源不存在
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrTeacherNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrLectureNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrPublicationNotFound):
		response.NotFound(c, err.Error())

	// 403 非属主 / 越权
	case errors.Is(err, service.ErrNotLectureOwner),
		errors.Is(err, service.ErrNotQuestionOwner),
		errors.Is(err, service.ErrNotSectionMember):
		response.Forbidden(c, err.Error())

	// 409 状态或唯一性冲突
	case errors.Is(err, service.ErrDuplicateAssignment),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateCode),
		errors.Is(err, service.ErrLectureTerminal),
		errors.Is(err, service.ErrLectureAlreadyRunning),
		errors.Is(err, service.ErrLectureNotRunning),
		errors.Is(err, service.ErrLectureNotEnded),
		errors.Is(err, service.ErrStartTooEarly),
		errors.Is(err, service.ErrLectureExpired),
		errors.Is(err, service.ErrAssignmentHasRunning),
		errors.Is(err, service.ErrAssignmentNotDeletable),
		errors.Is(err, service.ErrAssignmentInactive),
		errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, err.Error(), nil)

	// 422 业务校验失败
	case errors.Is(err, service.ErrInvalidFirstStart),
		errors.Is(err, service.ErrNotTeachingDay),
		errors.Is(err, service.ErrDurationOutOfRange),
		errors.Is(err, service.ErrTooManyLectures),
		errors.Is(err, service.ErrNotTeacherRole),
		errors.Is(err, service.ErrBadOptionCount),
		errors.Is(err, service.ErrBadCorrectIndex),
		errors.Is(err, service.ErrOptionsNotAllowed):
		response.Unprocessable(c, err.Error(), nil)

	default:
		logger.Error("未预期的业务错误",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/handler.go
