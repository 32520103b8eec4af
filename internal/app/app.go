package app

import (
	"database/sql"
	"fmt"
	"log"

	"medresearch/internal/authz"
	"medresearch/internal/config"
	"medresearch/internal/handlers"
	"medresearch/internal/models"
	"medresearch/internal/repositories"
	"medresearch/internal/routes"
	"medresearch/internal/services"
	"medresearch/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "medresearch/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	roleRepo := repositories.NewRoleRepository(db)
	userRepo := repositories.NewUserRepository(db)
	pendingRepo := repositories.NewPendingRegistrationRepository(db)
	patientRepo := repositories.NewPatientRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	dataFileRepo := repositories.NewDataFileRepository(db)

	if err := seedRoles(roleRepo); err != nil {
		log.Fatal("failed to seed roles: ", err)
	}

	// === Services ===
	authService := services.NewAuthService()
	totpService := services.NewTOTPService(cfg.TOTP.Issuer)
	tokenService := services.NewTokenService(cfg.JWT)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	loginService := services.NewLoginService(userRepo, authService, totpService, tokenService)
	registrationService := services.NewRegistrationService(pendingRepo, userRepo, roleRepo, authService, emailService)
	patientService := services.NewPatientService(patientRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)

	orthancClient := utils.NewOrthancClient(
		cfg.Orthanc.URL,
		cfg.Orthanc.Username,
		cfg.Orthanc.Password,
		cfg.Orthanc.DryRun,
	)
	dataFileService := services.NewDataFileService(dataFileRepo, orthancClient, cfg.Files.RootDir)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(loginService, registrationService)
	adminHandler := handlers.NewAdminHandler(registrationService)
	roleHandler := handlers.NewRoleHandler(roleRepo)
	patientHandler := handlers.NewPatientHandler(patientService, cfg.Files.RootDir)
	projectHandler := handlers.NewProjectHandler(projectService)
	dataFileHandler := handlers.NewDataFileHandler(dataFileService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		[]byte(cfg.JWT.Secret),
		authHandler,
		adminHandler,
		roleHandler,
		patientHandler,
		projectHandler,
		dataFileHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

// seedRoles creates the default roles on first start.
func seedRoles(roleRepo repositories.RoleRepository) error {
	for _, name := range authz.DefaultRoles() {
		existing, err := roleRepo.GetByName(name)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := roleRepo.Create(&models.Role{Name: name}); err != nil {
				return err
			}
			log.Printf("[app][seed] role created name=%q", name)
		}
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
