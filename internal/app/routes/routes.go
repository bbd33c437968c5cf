package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/controllers"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/middleware"
	"github.com/edumanage/educenter/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Student      *controllers.StudentController
	Parent       *controllers.ParentController
	Teacher      *controllers.TeacherController
	Classroom    *controllers.ClassroomController
	Holiday      *controllers.HolidayController
	Class        *controllers.ClassController
	Schedule     *controllers.ScheduleController
	Session      *controllers.SessionController
	Attendance   *controllers.AttendanceController
	Notification *controllers.NotificationController
	Preference   *controllers.PreferenceController
	Statistics   *controllers.StatisticsController
	Report       *controllers.ReportController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware, wsHandler *websocket.Handler) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Admin-only routes are nested under each resource
	admin := authMiddleware.AdminOnly()

	me := authenticated.Group("/auth")
	{
		me.GET("/me", c.Auth.Profile)
		me.PUT("/me", c.Auth.UpdateProfile)
		me.PUT("/password", c.Auth.ChangePassword)
	}

	// Notifications are pushed over this socket; the token may come as ?token=
	authenticated.GET("/ws", wsHandler.HandleConnection)

	users := authenticated.Group("/users", admin)
	{
		users.GET("", c.User.GetUsers)
		users.GET("/:id", c.User.GetUserByID)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", c.Student.GetAll)
		students.GET("/:id", c.Student.GetByID)
		students.GET("/:id/parent", c.Student.GetParent)
		students.GET("/:id/attendance", c.Attendance.GetByStudent)
		students.POST("", admin, c.Student.Create)
		students.PUT("/:id", admin, c.Student.Update)
		students.DELETE("/:id", admin, c.Student.Delete)
	}

	parents := authenticated.Group("/parents")
	{
		parents.GET("", c.Parent.GetAll)
		parents.GET("/:id", c.Parent.GetByID)
		parents.POST("", admin, c.Parent.Create)
		parents.PUT("/:id", admin, c.Parent.Update)
		parents.DELETE("/:id", admin, c.Parent.Delete)
	}

	teachers := authenticated.Group("/teachers")
	{
		teachers.GET("", c.Teacher.GetAll)
		teachers.GET("/me/schedule", c.Teacher.MySchedule)
		teachers.GET("/:id", c.Teacher.GetByID)
		teachers.PUT("/:id", c.Teacher.UpdateProfile)
	}

	classrooms := authenticated.Group("/classrooms")
	{
		classrooms.GET("", c.Classroom.GetAll)
		classrooms.GET("/available", c.Classroom.GetAvailable)
		classrooms.GET("/:id", c.Classroom.GetByID)
		classrooms.POST("", admin, c.Classroom.Create)
		classrooms.PUT("/:id", admin, c.Classroom.Update)
		classrooms.DELETE("/:id", admin, c.Classroom.Delete)
	}

	holidays := authenticated.Group("/holidays")
	{
		holidays.GET("", c.Holiday.GetAll)
		holidays.GET("/check", c.Holiday.Check)
		holidays.GET("/:id", c.Holiday.GetByID)
		holidays.POST("", admin, c.Holiday.Create)
		holidays.PUT("/:id", admin, c.Holiday.Update)
		holidays.DELETE("/:id", admin, c.Holiday.Delete)
	}

	classes := authenticated.Group("/classes")
	{
		classes.GET("", c.Class.GetAll)
		classes.GET("/:id", c.Class.GetByID)
		classes.GET("/:id/students", c.Class.GetStudents)
		classes.POST("", admin, c.Class.Create)
		classes.PUT("/:id", admin, c.Class.Update)
		classes.DELETE("/:id", admin, c.Class.Delete)
		classes.POST("/:id/students", admin, c.Class.Enroll)
		classes.DELETE("/:id/students/:studentId", admin, c.Class.RemoveStudent)
	}

	schedules := authenticated.Group("/schedules")
	{
		schedules.GET("", c.Schedule.GetAll)
		schedules.GET("/:id", c.Schedule.GetByID)
		schedules.POST("", admin, c.Schedule.Create)
		schedules.PUT("/:id", admin, c.Schedule.Update)
		schedules.DELETE("/:id", admin, c.Schedule.Delete)
	}

	sessions := authenticated.Group("/sessions")
	{
		sessions.GET("", c.Session.List)
		sessions.POST("/generate", admin, c.Session.Generate)
		sessions.GET("/:id", c.Session.GetByID)
		sessions.POST("", admin, c.Session.Create)
		sessions.PUT("/:id", admin, c.Session.Update)
		sessions.DELETE("/:id", admin, c.Session.Delete)
		sessions.PATCH("/:id/status", c.Session.UpdateStatus)

		sessions.GET("/:id/attendance", c.Attendance.GetBySession)
		sessions.POST("/:id/attendance", c.Attendance.Take)
		sessions.POST("/:id/attendance/seed", c.Attendance.Seed)
		sessions.GET("/:id/attendance/status", c.Attendance.Status)
	}

	authenticated.PATCH("/attendance/:id/called", c.Attendance.MarkCalled)

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", c.Notification.List)
		notifications.GET("/count", c.Notification.Count)
		notifications.PATCH("/:id/read", c.Notification.MarkRead)
		notifications.POST("/absences/sweep", admin, c.Notification.Sweep)
	}

	preferences := authenticated.Group("/preferences")
	{
		preferences.GET("", c.Preference.GetAll)
		preferences.POST("/theme/toggle", c.Preference.ToggleTheme)
		preferences.GET("/:key", c.Preference.Get)
		preferences.PUT("/:key", c.Preference.Set)
	}

	statistics := authenticated.Group("/statistics")
	{
		statistics.GET("/teaching-hours", c.Statistics.TeachingHours)
		statistics.GET("/attendance", admin, c.Statistics.Attendance)
	}

	reports := authenticated.Group("/reports", admin)
	{
		reports.GET("", c.Report.GetAll)
		reports.POST("", c.Report.Generate)
		reports.GET("/:id", c.Report.GetByID)
		reports.GET("/:id/file", c.Report.Download)
		reports.DELETE("/:id", c.Report.Delete)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
