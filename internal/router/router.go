package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/handlers"
	"github.com/statusdeck/statusdeck/internal/middleware"
	"github.com/statusdeck/statusdeck/internal/otp"
	"github.com/statusdeck/statusdeck/internal/realtime"
	"github.com/statusdeck/statusdeck/internal/types"
)

// Deps carries the injected collaborators the route handlers need.
type Deps struct {
	Recorder *actions.Recorder
	Hub      *realtime.Hub
	Verifier *otp.Verifier
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	serviceHandler := handlers.NewServiceHandler(deps.Recorder)
	incidentHandler := handlers.NewIncidentHandler(deps.Recorder)
	maintenanceHandler := handlers.NewMaintenanceHandler(deps.Recorder)
	actionHandler := handlers.NewActionHandler(deps.Recorder)
	otpHandler := handlers.NewOTPHandler(deps.Verifier)
	wsHandler := handlers.NewWSHandler(deps.Hub)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), wsHandler.Connect)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		otpRoutes := api.Group("/otp")
		{
			otpRoutes.POST("/send", otpHandler.SendOTP)
			otpRoutes.POST("/verify", otpHandler.VerifyOTP)
		}

		api.GET("/organizations/:organizationId", handlers.GetOrganization)

		services := api.Group("/services")
		{
			services.GET("", serviceHandler.ListServices)
			services.GET("/:id", middleware.AuthMiddleware(), serviceHandler.GetService)
			services.POST("", middleware.AuthMiddleware(), middleware.RequireAdmin(), serviceHandler.CreateService)
			services.PATCH("/:id", middleware.AuthMiddleware(), middleware.RequireAdmin(), serviceHandler.UpdateService)
			services.DELETE("/:id", middleware.AuthMiddleware(), middleware.RequireAdmin(), serviceHandler.DeleteService)
		}

		incidents := api.Group("/incidents", middleware.AuthMiddleware())
		{
			incidents.GET("", incidentHandler.ListIncidents)
			incidents.GET("/:id", incidentHandler.GetIncident)
			incidents.POST("", middleware.RequireAdmin(), incidentHandler.CreateIncident)
			incidents.PATCH("/:id", middleware.RequireAdmin(), incidentHandler.UpdateIncident)
			incidents.DELETE("/:id", middleware.RequireAdmin(), incidentHandler.DeleteIncident)
			incidents.POST("/:id/updates", middleware.RequireAdmin(), incidentHandler.AddStatusUpdate)
		}

		maintenance := api.Group("/maintenance", middleware.AuthMiddleware())
		{
			maintenance.GET("", maintenanceHandler.ListMaintenances)
			maintenance.GET("/:id", maintenanceHandler.GetMaintenance)
			maintenance.POST("", middleware.RequireAdmin(), maintenanceHandler.CreateMaintenance)
			maintenance.PATCH("/:id", middleware.RequireAdmin(), maintenanceHandler.UpdateMaintenance)
			maintenance.DELETE("/:id", middleware.RequireAdmin(), maintenanceHandler.DeleteMaintenance)
		}

		team := api.Group("/team", middleware.AuthMiddleware())
		{
			team.GET("", handlers.ListTeamMembers)
			team.POST("/invite", middleware.RequireAdmin(), handlers.InviteTeamMember)
			team.PATCH("/:id", handlers.UpdateTeamMember)
			team.DELETE("/:id", handlers.RemoveTeamMember)
		}

		api.GET("/actions", middleware.AuthMiddleware(), actionHandler.ListActions)
	}

	return r
}
