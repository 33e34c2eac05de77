package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classpulse/backend/internal/service"
)

// ExportHandler 文件导出接口
type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

// NewExportHandler 创建导出 Handler
func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportService: exportService, logger: logger}
}

// AttendanceXLSX 导出课次签到结果 Excel
// GET /api/v1/lectures/:id/attendance/export
func (h *ExportHandler) AttendanceXLSX(c *gin.Context) {
	buf, filename, err := h.exportService.AttendanceXLSX(c.Request.Context(), c.Param("id"), currentUserID(c), currentRole(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
