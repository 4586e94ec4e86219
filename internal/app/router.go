package app

import (
	"schoolhub_backend/docs"
	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/middleware"

	"schoolhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录但不需要团队上下文的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.POST("/teams", c.team.CreateTeam)
		authGroup.GET("/teams", c.team.ListMyTeams)

		// 3. 团队上下文路由，所有读写都先经成员身份解析
		a.registerTeamRoutes(authGroup, c, repos)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerTeamRoutes(rg *gin.RouterGroup, c *controllers, repos *repositories) {
	team := rg.Group("/")
	team.Use(middleware.TeamContextMiddleware(repos.team))
	{
		// 团队管理
		team.GET("/team/members", c.team.ListMembers)
		team.POST("/team/members", c.team.AddMember)
		team.POST("/team/parent-links", c.team.LinkParent)

		// 作业统一视图
		team.GET("/activities", c.activity.ListActivities)
		team.GET("/activities/:id", c.activity.GetActivity)

		// 考试（细粒度授权在服务层判定，路由不再叠加角色中间件）
		team.GET("/exams/:id", c.exam.GetExam)

		// 提交与评分
		team.POST("/submissions", c.submission.Submit)
		team.GET("/submissions", c.submission.ListMine)
		team.GET("/submissions/:id", c.submission.GetSubmission)
		team.POST("/submissions/:id/attachments", c.submission.UploadAttachment)

		// 考勤
		team.POST("/attendance/check-in", c.attendance.CheckIn)
		team.GET("/attendance/records", c.attendance.ListStudentRecords)

		// 课表
		team.GET("/schedule", c.schedule.ListEntries)

		// owner 端考试管理
		owner := team.Group("/owner")
		{
			owner.POST("/exams", c.exam.CreateExam)
			owner.GET("/exams", c.exam.ListExams)
			owner.PUT("/exams/:id", c.exam.UpdateExam)
			owner.DELETE("/exams/:id", c.exam.DeleteExam)
			owner.POST("/exams/:id/restore", c.exam.RestoreExam)
			owner.DELETE("/exams/:id/force", c.exam.ForceDeleteExam)
		}

		// 教师端评分 / 考勤 / 课表
		teacher := team.Group("/teacher")
		{
			teacher.GET("/activities/:activityId/submissions", c.submission.ListByActivity)
			teacher.POST("/submissions/:id/grade", c.submission.Grade)
			teacher.POST("/submissions/bulk-grade", c.submission.BulkGrade)

			teacher.POST("/attendance/sessions", c.attendance.OpenSession)
			teacher.GET("/attendance/sessions", c.attendance.ListSessions)
			teacher.GET("/attendance/sessions/:id/qr", c.attendance.SessionQR)
			teacher.GET("/attendance/sessions/:id/records", c.attendance.ListSessionRecords)

			teacher.POST("/schedule", c.schedule.CreateEntry)
			teacher.PUT("/schedule/:id", c.schedule.UpdateEntry)
			teacher.DELETE("/schedule/:id", c.schedule.DeleteEntry)
		}
	}
}
