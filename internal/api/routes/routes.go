package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobwallah/internal/api/handlers"
	"github.com/yoockh/jobwallah/internal/api/middleware"
	"github.com/yoockh/jobwallah/internal/utils"
)

type Deps struct {
	Tokens      *utils.TokenIssuer
	CORSOrigins []string

	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Jobs        *handlers.JobHandler
	Application *handlers.ApplicationHandler
	Resume      *handlers.ResumeHandler
	Admin       *handlers.AdminHandler
	WS          *handlers.WSHandler // optional
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.MaxMultipartMemory = handlers.MaxResumeBytes + 1<<20

	cc := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = d.CORSOrigins
		cc.AllowCredentials = true
	}
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", "X-Request-Id")
	cc.ExposeHeaders = []string{"X-Request-Id"}
	cc.MaxAge = 12 * time.Hour
	r.Use(cors.New(cc))

	// Health-ish
	r.GET("/ping", d.Health.Ping)
	r.GET("/health", d.Health.Health)

	api := r.Group("/api")

	// Public
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.GET("/jobs", d.Jobs.List)
	api.GET("/jobs/:id", d.Jobs.Get)

	// Protected routes (JWT)
	auth := api.Group("/")
	auth.Use(middleware.JWTAuth(d.Tokens, false))

	auth.GET("/auth/profile", d.Auth.Profile)
	auth.GET("/applications/:id/events", d.Application.Events)

	recruiter := auth.Group("/", middleware.RequireRecruiter())
	recruiter.POST("/jobs", d.Jobs.Create)
	recruiter.PUT("/jobs/:id", d.Jobs.Update)
	recruiter.GET("/jobs/mine", d.Jobs.ListMine)
	recruiter.GET("/jobs/:id/applications", d.Application.ListForJob)
	recruiter.GET("/applications/recruiter", d.Application.ListForRecruiter)
	recruiter.PATCH("/applications/:id/status", d.Application.UpdateStatus)

	applicant := auth.Group("/", middleware.RequireApplicant())
	applicant.POST("/jobs/:id/apply", d.Application.Apply)
	applicant.GET("/applications/mine", d.Application.ListMine)
	applicant.POST("/resume/check", d.Resume.Check)
	applicant.GET("/resume/history", d.Resume.History)
	applicant.GET("/resume/score", d.Resume.Score)

	admin := auth.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", d.Admin.ListUsers)
	admin.PATCH("/users/:id/block", d.Admin.Block)
	admin.PATCH("/users/:id/unblock", d.Admin.Unblock)
	admin.GET("/jobs", d.Admin.ListJobs)
	admin.DELETE("/jobs/:id", d.Admin.DeleteJob)
	admin.GET("/analytics", d.Admin.Analytics)

	// WebSocket
	if d.WS != nil {
		r.GET("/ws/notifications", middleware.JWTAuth(d.Tokens, true), d.WS.Notifications)
	}
}
