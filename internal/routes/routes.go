package routes

import (
	"github.com/gin-gonic/gin"

	"medresearch/internal/authz"
	"medresearch/internal/handlers"
	"medresearch/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtKey []byte,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	roleHandler *handlers.RoleHandler,
	patientHandler *handlers.PatientHandler,
	projectHandler *handlers.ProjectHandler,
	dataFileHandler *handlers.DataFileHandler,
) *gin.Engine {

	// ---- public
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/register", authHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtKey))

	// ADMIN
	admin := r.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/pending-registrations", adminHandler.ListPending)
		admin.POST("/pending-registrations/:id/approve", adminHandler.Approve)
		admin.DELETE("/pending-registrations/:id", adminHandler.Reject)
	}

	// ROLES (admin)
	roles := r.Group("/roles", middleware.RequireRoles(authz.RoleAdmin))
	{
		roles.GET("", roleHandler.ListRoles)
	}

	// PATIENTS
	patients := r.Group("/patients")
	{
		patients.GET("",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher, authz.RoleViewer),
			patientHandler.ListPatients)
		patients.GET("/:id",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher, authz.RoleViewer),
			patientHandler.GetPatient)
		patients.POST("",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher),
			patientHandler.RegisterPatient)
		patients.PUT("/:id",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher),
			patientHandler.EditPatient)
	}

	// PROJECTS
	projects := r.Group("/projects")
	{
		projects.GET("",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher, authz.RoleViewer),
			projectHandler.ListProjects)
		projects.GET("/users",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher),
			projectHandler.ListProjectUsers)
		projects.POST("",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher),
			projectHandler.CreateProject)
		projects.PUT("/:id",
			middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher),
			projectHandler.EditProject)
	}

	// FILES (admin/researcher only)
	files := r.Group("/files", middleware.RequireRoles(authz.RoleAdmin, authz.RoleResearcher))
	{
		files.GET("", dataFileHandler.ListFiles)
		files.POST("", dataFileHandler.UploadFile)
	}

	return r
}
